package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	accessUsecase "github.com/allisson/keyhouse/internal/access/usecase"
)

// RunCreateGroup creates a named group that clients and secrets are later
// joined to through membership and access grants.
func RunCreateGroup(
	ctx context.Context,
	groupUsecase accessUsecase.GroupUsecase,
	logger *slog.Logger,
	name, description, format string,
	io IOTuple,
) error {
	logger.Info("creating new group", slog.String("name", name))

	group, err := groupUsecase.Create(ctx, name, description)
	if err != nil {
		return fmt.Errorf("failed to create group: %w", err)
	}

	if format == "json" {
		result := map[string]interface{}{
			"group_id":    group.ID,
			"name":        group.Name,
			"description": group.Description,
		}
		jsonBytes, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal group: %w", err)
		}
		_, _ = fmt.Fprintln(io.Writer, string(jsonBytes))
	} else {
		_, _ = fmt.Fprintln(io.Writer, "\nGroup created successfully!")
		_, _ = fmt.Fprintf(io.Writer, "Group ID: %d\n", group.ID)
		_, _ = fmt.Fprintf(io.Writer, "Name: %s\n", group.Name)
	}

	logger.Info("group created successfully", slog.Int64("group_id", group.ID), slog.String("name", group.Name))
	return nil
}
