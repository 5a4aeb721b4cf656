// Package repository persists audit events.
package repository

import (
	"context"
	"time"

	auditDomain "github.com/allisson/keyhouse/internal/audit/domain"
)

// EventRepository appends and lists audit events.
type EventRepository interface {
	Create(ctx context.Context, event *auditDomain.Event) error
	List(
		ctx context.Context,
		offset, limit int,
		from, to *time.Time,
	) ([]auditDomain.Event, error)
}
