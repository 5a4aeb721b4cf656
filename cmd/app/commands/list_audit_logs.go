package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	auditDomain "github.com/allisson/keyhouse/internal/audit/domain"
	auditUsecase "github.com/allisson/keyhouse/internal/audit/usecase"
)

// RunListAuditLogs prints the audit trail for the given time window, newest
// first, paginated by offset/limit.
func RunListAuditLogs(
	ctx context.Context,
	eventUseCase auditUsecase.Usecase,
	logger *slog.Logger,
	offset, limit int,
	fromStr, toStr, format string,
	io IOTuple,
) error {
	from, err := parseOptionalDate(fromStr)
	if err != nil {
		return fmt.Errorf("invalid from date: %w", err)
	}
	to, err := parseOptionalDate(toStr)
	if err != nil {
		return fmt.Errorf("invalid to date: %w", err)
	}

	events, err := eventUseCase.List(ctx, offset, limit, from, to)
	if err != nil {
		return fmt.Errorf("failed to list audit logs: %w", err)
	}

	if format == "json" {
		outputAuditLogsJSON(io.Writer, events)
	} else {
		outputAuditLogsText(io.Writer, events)
	}

	logger.Info("listed audit logs", slog.Int("count", len(events)))
	return nil
}

func parseOptionalDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("expected YYYY-MM-DD or YYYY-MM-DD HH:MM:SS, got %q", value)
}

func outputAuditLogsText(writer io.Writer, events []auditDomain.Event) {
	if len(events) == 0 {
		_, _ = fmt.Fprintln(writer, "No audit events found.")
		return
	}
	for _, e := range events {
		_, _ = fmt.Fprintf(
			writer,
			"%s\t%s\tactor=%s\ttarget=%s\n",
			e.Timestamp.Format(time.RFC3339), e.Tag, e.ActorName, e.TargetName,
		)
	}
}

func outputAuditLogsJSON(writer io.Writer, events []auditDomain.Event) {
	jsonBytes, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return
	}
	_, _ = fmt.Fprintln(writer, string(jsonBytes))
}
