package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	accessUsecase "github.com/allisson/keyhouse/internal/access/usecase"
)

// RunCreateClient registers a new automation client. A client's identity is
// its TLS certificate Common Name; this command only records that name is
// recognized and whether it may call the automation API.
//
// Requirements: Database must be migrated and accessible.
func RunCreateClient(
	ctx context.Context,
	clientUsecase accessUsecase.ClientUsecase,
	logger *slog.Logger,
	name string,
	automationAllowed bool,
	format string,
	io IOTuple,
) error {
	logger.Info("creating new client", slog.String("name", name))

	client, err := clientUsecase.Create(ctx, name, automationAllowed)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	if format == "json" {
		outputClientJSON(io.Writer, client.ID, client.Name, client.Enabled, client.AutomationAllowed)
	} else {
		outputClientText(io.Writer, client.ID, client.Name, client.Enabled, client.AutomationAllowed)
	}

	logger.Info("client created successfully",
		slog.Int64("client_id", client.ID),
		slog.String("name", client.Name),
		slog.Bool("automation_allowed", client.AutomationAllowed),
	)

	return nil
}

func outputClientText(writer io.Writer, id int64, name string, enabled, automationAllowed bool) {
	_, _ = fmt.Fprintln(writer, "\nClient created successfully!")
	_, _ = fmt.Fprintf(writer, "Client ID: %d\n", id)
	_, _ = fmt.Fprintf(writer, "Name: %s\n", name)
	_, _ = fmt.Fprintf(writer, "Enabled: %t\n", enabled)
	_, _ = fmt.Fprintf(writer, "Automation allowed: %t\n", automationAllowed)
	_, _ = fmt.Fprintln(writer, "\nIssue this client a TLS certificate whose Common Name matches the name above.")
}

func outputClientJSON(writer io.Writer, id int64, name string, enabled, automationAllowed bool) {
	result := map[string]interface{}{
		"client_id":          id,
		"name":               name,
		"enabled":            enabled,
		"automation_allowed": automationAllowed,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
}
