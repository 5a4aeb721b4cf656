package domain

import apperrors "github.com/allisson/keyhouse/internal/errors"

var (
	// ErrGroupNotFound indicates no live group matches the given name or id.
	ErrGroupNotFound = apperrors.Wrap(apperrors.ErrNotFound, "group not found")

	// ErrGroupAlreadyExists indicates a live group with the given name exists.
	ErrGroupAlreadyExists = apperrors.Wrap(apperrors.ErrConflict, "group already exists")

	// ErrClientNotFound indicates no client matches the given name or id.
	ErrClientNotFound = apperrors.Wrap(apperrors.ErrNotFound, "client not found")

	// ErrClientAlreadyExists indicates a client with the given name exists.
	ErrClientAlreadyExists = apperrors.Wrap(apperrors.ErrConflict, "client already exists")

	// ErrClientDisabled indicates the client exists but Enabled is false.
	ErrClientDisabled = apperrors.Wrap(apperrors.ErrForbidden, "client is disabled")

	// ErrAutomationNotAllowed indicates the client exists and is enabled but
	// AutomationAllowed is false.
	ErrAutomationNotAllowed = apperrors.Wrap(apperrors.ErrForbidden, "client is not allowed to use the automation api")
)
