package usecase

import (
	"context"
)

// accessGranterAdapter lets the Secret Controller depend on the narrow
// secretsUsecase.AccessGranter contract instead of the full ACLEngine,
// avoiding a secrets -> access -> secrets import cycle.
type accessGranterAdapter struct {
	engine ACLEngine
}

// NewAccessGranterAdapter wraps an ACLEngine to satisfy
// secretsUsecase.AccessGranter.
func NewAccessGranterAdapter(engine ACLEngine) *accessGranterAdapter {
	return &accessGranterAdapter{engine: engine}
}

// GrantByNames resolves groupNames against the current assignment for
// secretID and grants access to whichever ones are new, skipping names that
// don't resolve to a live group.
func (a *accessGranterAdapter) GrantByNames(
	ctx context.Context,
	secretID int64,
	groupNames []string,
	actor string,
) error {
	_, err := a.engine.ReconcileGroups(ctx, secretID, groupNames, nil, actor)
	return err
}
