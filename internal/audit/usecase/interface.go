// Package usecase records and lists audit events.
package usecase

import (
	"context"
	"time"

	auditDomain "github.com/allisson/keyhouse/internal/audit/domain"
)

// Recorder appends audit events. Other components depend on this narrow
// interface rather than the full usecase, the same interface-segregation
// pattern the secret controller uses for access grants.
type Recorder interface {
	Record(ctx context.Context, tag auditDomain.Tag, actorName, targetName string, extraInfo map[string]string) error
}

// Usecase is the full Audit Log surface: recording plus listing.
type Usecase interface {
	Recorder
	List(ctx context.Context, offset, limit int, from, to *time.Time) ([]auditDomain.Event, error)
}
