// Package repository implements persistence for secret series and their
// immutable content versions, across PostgreSQL and MySQL.
package repository

import (
	"context"

	secretsDomain "github.com/allisson/keyhouse/internal/secrets/domain"
)

// CreateSecretInput carries the fields needed to create a brand-new series
// plus its first content version.
type CreateSecretInput struct {
	Name              string
	EncryptedContent  string
	HMAC              string
	Creator           string
	Metadata          map[string]string
	Expiry            int64
	Description       string
	Type              string
	GenerationOptions map[string]string
}

// CreateOrUpdateSecretInput carries the fields needed to upsert a series and
// append a new content version.
type CreateOrUpdateSecretInput = CreateSecretInput

// SecretRepository persists SecretSeries and SecretContent rows. Method
// names and semantics follow the Secret Store's operation set: getById,
// getByName, listNames, listSecrets, createSecret, createOrUpdateSecret,
// getVersionsByName, setCurrentVersionByName, setExpiration,
// deleteSecretsByName.
//
// Implementations: PostgreSQLSecretRepository, MySQLSecretRepository.
type SecretRepository interface {
	// GetByID returns the series and its current content version by series id.
	GetByID(ctx context.Context, id int64) (*secretsDomain.Secret, error)

	// GetByName returns the series and its current content version by name.
	GetByName(ctx context.Context, name string) (*secretsDomain.Secret, error)

	// ListNames returns every live series' (id, name) pair.
	ListNames(ctx context.Context) ([]secretsDomain.NameID, error)

	// ListSecrets returns series+current-content pairs, filtered by maxExpiry
	// (content.expiry in (0, maxExpiry], nil means no filter) and by groupID
	// (only series granted to that group, nil means no filter).
	ListSecrets(ctx context.Context, maxExpiry *int64, groupID *int64) ([]secretsDomain.Secret, error)

	// CreateSecret creates a new series and its initial content version.
	// Returns ErrSecretAlreadyExists if a live series owns the name.
	CreateSecret(ctx context.Context, input CreateSecretInput) (*secretsDomain.Secret, error)

	// CreateOrUpdateSecret upserts the series by name and appends a new
	// content version, marking it current, in one transaction.
	CreateOrUpdateSecret(ctx context.Context, input CreateOrUpdateSecretInput) (*secretsDomain.Secret, error)

	// GetVersionsByName returns content versions for name, newest first,
	// paginated by offset/count. Returns ErrSecretNotFound if the series
	// does not exist.
	GetVersionsByName(ctx context.Context, name string, offset, count int) ([]secretsDomain.SecretContent, error)

	// SetCurrentVersionByName marks versionID current for the named series.
	// Returns ErrSecretNotFound if the series doesn't exist, or
	// ErrVersionNotFound if versionID doesn't belong to it.
	SetCurrentVersionByName(ctx context.Context, name string, versionID int64) error

	// SetExpiration updates the current content version's expiry for name.
	// Returns whether a row was affected.
	SetExpiration(ctx context.Context, name string, expiry int64) (bool, error)

	// DeleteSecretsByName soft-deletes the live series named name by setting
	// its deleted_at, returning ErrSecretNotFound if no live series has that
	// name. Content version rows and access grant rows referencing the series
	// are not removed.
	DeleteSecretsByName(ctx context.Context, name string) error
}
