// Package domain defines core domain models and errors for secrets.
package domain

import (
	"github.com/allisson/keyhouse/internal/errors"
)

// Secret-specific error definitions.
var (
	// ErrSecretNotFound indicates no live series exists with the requested name or id.
	ErrSecretNotFound = errors.Wrap(errors.ErrNotFound, "secret not found")

	// ErrSecretAlreadyExists indicates a live series already owns the requested name.
	ErrSecretAlreadyExists = errors.Wrap(errors.ErrConflict, "secret already exists")

	// ErrVersionNotFound indicates the requested version id does not belong to the series.
	ErrVersionNotFound = errors.Wrap(errors.ErrInvalidInput, "version does not belong to secret")
)
