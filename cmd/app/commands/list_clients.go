package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	accessDomain "github.com/allisson/keyhouse/internal/access/domain"
	accessUsecase "github.com/allisson/keyhouse/internal/access/usecase"
)

// RunListClients prints every registered client.
func RunListClients(
	ctx context.Context,
	clientUsecase accessUsecase.ClientUsecase,
	logger *slog.Logger,
	format string,
	io IOTuple,
) error {
	clients, err := clientUsecase.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list clients: %w", err)
	}

	if format == "json" {
		outputClientsJSON(io.Writer, clients)
	} else {
		outputClientsText(io.Writer, clients)
	}

	logger.Info("listed clients", slog.Int("count", len(clients)))
	return nil
}

func outputClientsText(writer io.Writer, clients []accessDomain.Client) {
	if len(clients) == 0 {
		_, _ = fmt.Fprintln(writer, "No clients registered.")
		return
	}
	for _, c := range clients {
		_, _ = fmt.Fprintf(
			writer,
			"%d\t%s\tenabled=%t\tautomation_allowed=%t\n",
			c.ID, c.Name, c.Enabled, c.AutomationAllowed,
		)
	}
}

func outputClientsJSON(writer io.Writer, clients []accessDomain.Client) {
	jsonBytes, err := json.MarshalIndent(clients, "", "  ")
	if err != nil {
		return
	}
	_, _ = fmt.Fprintln(writer, string(jsonBytes))
}
