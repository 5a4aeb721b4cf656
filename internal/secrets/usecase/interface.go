// Package usecase implements the Secret Controller: the business-logic layer
// that composes content encryption (internal/crypto/service) with series/
// version persistence (internal/secrets/repository) and exposes the
// operations the automation API calls.
//
// # Compose flow
//
// Create and CreateOrUpdate run a fixed five-step sequence: validate the
// request, compute the content HMAC, derive a per-name key and encrypt,
// persist through the repository, then re-read the series to return a
// hydrated Secret. The sequence is built as a single populated value (a
// builder), not a chain of method calls returning new builders.
//
// # Usage
//
//	controller := usecase.NewController(txManager, secretRepo, cryptographer, extractor, accessGranter, recorder)
//	secret, err := controller.Create(ctx, usecase.CreateSecretRequest{
//	    Name:    "/app/api-key",
//	    Content: []byte("c2VjcmV0"), // base64, as received on the wire
//	    Creator: "automation-client-1",
//	})
package usecase

import (
	"context"

	secretsDomain "github.com/allisson/keyhouse/internal/secrets/domain"
)

// CreateSecretRequest carries the fields needed to create a brand-new series.
type CreateSecretRequest struct {
	Name              string
	Content           []byte // base64 as received on the wire; HMAC covers these bytes as-is.
	Creator           string
	Description       string
	Metadata          map[string]string
	Type              string
	Expiry            int64
	GenerationOptions map[string]string
	Groups            []string
}

// CreateOrUpdateSecretRequest carries the fields needed to upsert a series
// and append a new content version.
type CreateOrUpdateSecretRequest struct {
	Name              string
	Content           []byte
	Creator           string
	Description       string
	Metadata          map[string]string
	Type              string
	Expiry            int64
	GenerationOptions map[string]string
}

// AccessGranter assigns a newly created secret series to a set of groups by
// name, skipping names that don't resolve and never failing the create
// request over a bad group name. Implemented by internal/access.
type AccessGranter interface {
	GrantByNames(ctx context.Context, secretID int64, groupNames []string, actor string) error
}

// Controller is the Secret Controller (C6) combined with pass-through Secret
// Store (C3) read/administrative operations, as exposed to the automation
// API.
type Controller interface {
	// Create builds and persists a brand-new secret series. Returns
	// secretsDomain.ErrSecretAlreadyExists if name is already live.
	Create(ctx context.Context, req CreateSecretRequest) (*secretsDomain.Secret, error)

	// CreateOrUpdate upserts the series named by req.Name, appending a new
	// content version and marking it current.
	CreateOrUpdate(ctx context.Context, req CreateOrUpdateSecretRequest) (*secretsDomain.Secret, error)

	// GetByID returns the series and current content version by series id.
	GetByID(ctx context.Context, id int64) (*secretsDomain.Secret, error)

	// GetByName returns the series and current content version by name.
	GetByName(ctx context.Context, name string) (*secretsDomain.Secret, error)

	// ListNames returns every live series' (id, name) pair.
	ListNames(ctx context.Context) ([]secretsDomain.NameID, error)

	// ListSecrets returns sanitized projections, filtered by maxExpiry and
	// groupID as the Secret Store defines.
	ListSecrets(ctx context.Context, maxExpiry *int64, groupID *int64) ([]secretsDomain.SanitizedSecret, error)

	// GetVersionsByName returns content versions for name, newest first.
	GetVersionsByName(ctx context.Context, name string, offset, count int) ([]secretsDomain.SecretContent, error)

	// SetCurrentVersionByName marks versionID current for the named series.
	SetCurrentVersionByName(ctx context.Context, name string, versionID int64, actor string) error

	// SetExpiration updates the current content version's expiry for name.
	SetExpiration(ctx context.Context, name string, expiry int64) (bool, error)

	// DeleteSecretsByName soft-deletes the named series (sets deleted_at on
	// its row). Its content versions and access grants are not removed.
	DeleteSecretsByName(ctx context.Context, name string, actor string) error

	// BackfillExpiration decrypts the current content version, extracts an
	// expiration date from the decoded payload using the supplied password
	// candidates, and persists it via SetExpiration. Returns false (not an
	// error) when extraction found no known format or every password
	// candidate failed.
	BackfillExpiration(ctx context.Context, name string, passwords []string, actor string) (bool, error)
}
