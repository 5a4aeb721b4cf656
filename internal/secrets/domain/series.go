// Package domain defines the secret-series/content entity model: a stable
// named series owning a history of immutable content versions, one of which
// is marked current.
package domain

import "time"

// SecretSeries is the stable identity of a secret by human name. Deleting a
// series soft-deletes its row; its SecretContent versions and access grants
// are not removed.
type SecretSeries struct {
	ID                int64
	Name              string
	Description       string
	Type              string
	GenerationOptions map[string]string
	CurrentVersionID  *int64
	CreatedAt         time.Time
	CreatedBy         string
	UpdatedAt         time.Time
	UpdatedBy         string
}
