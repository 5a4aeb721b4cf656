package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	secretsUsecase "github.com/allisson/keyhouse/internal/secrets/usecase"
)

// RunBackfillExpiration infers and persists an expiration date for a secret
// that predates expiry tracking, trying each candidate password in turn
// against its current content version.
func RunBackfillExpiration(
	ctx context.Context,
	controller secretsUsecase.Controller,
	logger *slog.Logger,
	name string,
	passwordsCSV string,
	actor string,
	io IOTuple,
) error {
	var passwords []string
	if passwordsCSV != "" {
		passwords = strings.Split(passwordsCSV, ",")
	}

	found, err := controller.BackfillExpiration(ctx, name, passwords, actor)
	if err != nil {
		return fmt.Errorf("failed to backfill expiration for %q: %w", name, err)
	}

	if found {
		_, _ = fmt.Fprintf(io.Writer, "Backfilled expiration for %q\n", name)
	} else {
		_, _ = fmt.Fprintf(io.Writer, "No expiration found in content for %q\n", name)
	}

	logger.Info("backfill expiration completed", slog.String("name", name), slog.Bool("found", found))
	return nil
}
