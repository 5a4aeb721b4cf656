package commands

import (
	"context"
	"fmt"
	"log/slog"

	accessUsecase "github.com/allisson/keyhouse/internal/access/usecase"
	secretsUsecase "github.com/allisson/keyhouse/internal/secrets/usecase"
)

// RunGrantAccess grants a group read access to a secret series, resolving
// both by the names an operator would actually type.
func RunGrantAccess(
	ctx context.Context,
	controller secretsUsecase.Controller,
	groupUsecase accessUsecase.GroupUsecase,
	aclEngine accessUsecase.ACLEngine,
	logger *slog.Logger,
	secretName, groupName, actor string,
	io IOTuple,
) error {
	secret, err := controller.GetByName(ctx, secretName)
	if err != nil {
		return fmt.Errorf("failed to resolve secret %q: %w", secretName, err)
	}

	group, err := groupUsecase.GetByName(ctx, groupName)
	if err != nil {
		return fmt.Errorf("failed to resolve group %q: %w", groupName, err)
	}

	if err := aclEngine.GrantAccess(ctx, secret.Series.ID, group.ID, actor); err != nil {
		return fmt.Errorf("failed to grant access: %w", err)
	}

	_, _ = fmt.Fprintf(io.Writer, "Granted %q access to %q\n", groupName, secretName)
	logger.Info("access granted",
		slog.String("secret", secretName),
		slog.String("group", groupName),
		slog.String("actor", actor),
	)
	return nil
}
