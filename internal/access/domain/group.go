// Package domain defines the group/client entities and the access graph
// that joins them to secret series.
package domain

import "time"

// Group is a named collection of clients that can be granted read access
// to secret series as a unit.
type Group struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
