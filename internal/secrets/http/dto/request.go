// Package dto provides the request/response shapes for the automation API,
// decoupled from the domain and usecase types they wrap.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/keyhouse/internal/validation"
)

// CreateSecretRequest is the body of POST /.
type CreateSecretRequest struct {
	Name              string            `json:"name"`
	Content           string            `json:"content"` // base64-encoded
	Description       string            `json:"description,omitempty"`
	Metadata          map[string]string `json:"metadata,omitempty"`
	Type              string            `json:"type,omitempty"`
	Expiry            int64             `json:"expiry"`
	GenerationOptions map[string]string `json:"generation_options,omitempty"`
	Groups            []string          `json:"groups,omitempty"`
}

// Validate checks the request's required fields and content encoding.
func (r *CreateSecretRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required, customValidation.NotBlank),
		validation.Field(&r.Content, validation.Required, customValidation.NotBlank, customValidation.Base64),
	)
}

// CreateOrUpdateSecretRequest is the body of POST /{name}. The name is taken
// from the URL, not the body.
type CreateOrUpdateSecretRequest struct {
	Content           string            `json:"content"`
	Description       string            `json:"description,omitempty"`
	Metadata          map[string]string `json:"metadata,omitempty"`
	Type              string            `json:"type,omitempty"`
	Expiry            int64             `json:"expiry"`
	GenerationOptions map[string]string `json:"generation_options,omitempty"`
}

// Validate checks the request's required fields and content encoding.
func (r *CreateOrUpdateSecretRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Content, validation.Required, customValidation.NotBlank, customValidation.Base64),
	)
}

// SetVersionRequest is the body of POST /{name}/setversion.
type SetVersionRequest struct {
	Name    string `json:"name"`
	Version int64  `json:"version"`
}

// Validate checks the request's required fields.
func (r *SetVersionRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required, customValidation.NotBlank),
		validation.Field(&r.Version, validation.Required),
	)
}

// UpdateGroupsRequest is the body of PUT /{name}/groups.
type UpdateGroupsRequest struct {
	AddGroups    []string `json:"addGroups,omitempty"`
	RemoveGroups []string `json:"removeGroups,omitempty"`
}
