package usecase

import (
	"context"
	stderrors "errors"
	"strconv"

	accessDomain "github.com/allisson/keyhouse/internal/access/domain"
	"github.com/allisson/keyhouse/internal/access/repository"
	auditDomain "github.com/allisson/keyhouse/internal/audit/domain"
	auditUsecase "github.com/allisson/keyhouse/internal/audit/usecase"
)

// aclEngine implements ACLEngine.
type aclEngine struct {
	access   repository.AccessRepository
	groups   repository.GroupRepository
	recorder auditUsecase.Recorder
}

// NewACLEngine assembles the ACL Engine from its collaborators.
func NewACLEngine(access repository.AccessRepository, groups repository.GroupRepository, recorder auditUsecase.Recorder) ACLEngine {
	return &aclEngine{access: access, groups: groups, recorder: recorder}
}

func (e *aclEngine) GrantAccess(ctx context.Context, secretSeriesID, groupID int64, actor string) error {
	changed, err := e.access.GrantAccess(ctx, secretSeriesID, groupID)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	return e.recorder.Record(ctx, auditDomain.TagAccessAdd, actor, groupName(ctx, e.groups, groupID), nil)
}

func (e *aclEngine) RevokeAccess(ctx context.Context, secretSeriesID, groupID int64, actor string) error {
	changed, err := e.access.RevokeAccess(ctx, secretSeriesID, groupID)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	return e.recorder.Record(ctx, auditDomain.TagAccessRemove, actor, groupName(ctx, e.groups, groupID), nil)
}

// groupName resolves a group's name for audit purposes only; a lookup
// failure here must not fail the access change that already committed, so
// it falls back to the bare id.
func groupName(ctx context.Context, groups repository.GroupRepository, groupID int64) string {
	g, err := groups.GetByID(ctx, groupID)
	if err != nil {
		return strconv.FormatInt(groupID, 10)
	}
	return g.Name
}

// ReconcileGroups implements ACLEngine.
func (e *aclEngine) ReconcileGroups(
	ctx context.Context,
	secretSeriesID int64,
	addGroups, removeGroups []string,
	actor string,
) (*GroupsUpdate, error) {
	existing, err := e.access.GroupsForSecret(ctx, secretSeriesID)
	if err != nil {
		return nil, err
	}
	existingByName := make(map[string]accessDomain.Group, len(existing))
	for _, g := range existing {
		existingByName[g.Name] = g
	}

	toAdd := diff(addGroups, existingByName)
	toRemove := intersect(removeGroups, existingByName)

	update := &GroupsUpdate{}

	for _, name := range toAdd {
		group, err := e.groups.GetByName(ctx, name)
		if err != nil {
			if stderrors.Is(err, accessDomain.ErrGroupNotFound) {
				update.Skipped = append(update.Skipped, name)
				_ = e.recorder.Record(ctx, auditDomain.TagAccessAddSkipped, actor, name, nil)
				continue
			}
			return nil, err
		}
		if err := e.GrantAccess(ctx, secretSeriesID, group.ID, actor); err != nil {
			return nil, err
		}
		update.Added = append(update.Added, name)
	}

	for _, name := range toRemove {
		group, ok := existingByName[name]
		if !ok {
			update.Skipped = append(update.Skipped, name)
			_ = e.recorder.Record(ctx, auditDomain.TagAccessRemoveSkipped, actor, name, nil)
			continue
		}
		if err := e.RevokeAccess(ctx, secretSeriesID, group.ID, actor); err != nil {
			return nil, err
		}
		update.Removed = append(update.Removed, name)
	}

	return update, nil
}

// diff returns names present in candidates but not already in existing.
func diff(candidates []string, existing map[string]accessDomain.Group) []string {
	out := make([]string, 0, len(candidates))
	seen := make(map[string]bool, len(candidates))
	for _, name := range candidates {
		if _, already := existing[name]; already {
			continue
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// intersect returns names present in both candidates and existing.
func intersect(candidates []string, existing map[string]accessDomain.Group) []string {
	out := make([]string, 0, len(candidates))
	seen := make(map[string]bool, len(candidates))
	for _, name := range candidates {
		if _, present := existing[name]; !present {
			continue
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

func (e *aclEngine) GroupsFor(ctx context.Context, secretSeriesID int64) ([]accessDomain.Group, error) {
	return e.access.GroupsForSecret(ctx, secretSeriesID)
}

func (e *aclEngine) ClientsFor(ctx context.Context, secretSeriesID int64) ([]accessDomain.Client, error) {
	return e.access.ClientsForSecret(ctx, secretSeriesID)
}

func (e *aclEngine) SecretIDsFor(ctx context.Context, clientID int64) ([]int64, error) {
	return e.access.SecretIDsForClient(ctx, clientID)
}

func (e *aclEngine) AddMembership(ctx context.Context, clientID, groupID int64) error {
	_, err := e.access.AddMembership(ctx, clientID, groupID)
	return err
}

func (e *aclEngine) RemoveMembership(ctx context.Context, clientID, groupID int64) error {
	_, err := e.access.RemoveMembership(ctx, clientID, groupID)
	return err
}
