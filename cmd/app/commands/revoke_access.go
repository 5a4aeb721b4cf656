package commands

import (
	"context"
	"fmt"
	"log/slog"

	accessUsecase "github.com/allisson/keyhouse/internal/access/usecase"
	secretsUsecase "github.com/allisson/keyhouse/internal/secrets/usecase"
)

// RunRevokeAccess removes a group's read access to a secret series.
func RunRevokeAccess(
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

	if err := aclEngine.RevokeAccess(ctx, secret.Series.ID, group.ID, actor); err != nil {
		return fmt.Errorf("failed to revoke access: %w", err)
	}

	_, _ = fmt.Fprintf(io.Writer, "Revoked %q access to %q\n", groupName, secretName)
	logger.Info("access revoked",
		slog.String("secret", secretName),
		slog.String("group", groupName),
		slog.String("actor", actor),
	)
	return nil
}
