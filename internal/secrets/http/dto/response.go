package dto

import (
	"time"

	secretsDomain "github.com/allisson/keyhouse/internal/secrets/domain"
)

// SeriesResponse is the series half of SecretDetail; never carries
// ciphertext or HMAC.
type SeriesResponse struct {
	ID                int64             `json:"id"`
	Name              string            `json:"name"`
	Description       string            `json:"description,omitempty"`
	Type              string            `json:"type,omitempty"`
	GenerationOptions map[string]string `json:"generation_options,omitempty"`
	CurrentVersionID  *int64            `json:"current_version_id,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	CreatedBy         string            `json:"created_by,omitempty"`
	UpdatedAt         time.Time         `json:"updated_at"`
	UpdatedBy         string            `json:"updated_by,omitempty"`
}

// SecretDetailResponse is the body of GET /{name} and the versions listing:
// a series plus the expiry of one content version. It never includes the
// encrypted payload or HMAC.
type SecretDetailResponse struct {
	Series SeriesResponse `json:"series"`
	Expiry int64          `json:"expiry"`
}

// MapSecretToDetailResponse converts a hydrated Secret into its wire form.
func MapSecretToDetailResponse(secret *secretsDomain.Secret) SecretDetailResponse {
	return SecretDetailResponse{
		Series: mapSeries(secret.Series),
		Expiry: secret.Content.Expiry,
	}
}

// MapVersionsToDetailResponse pairs one series with each of its content
// versions, newest first as the repository already orders them.
func MapVersionsToDetailResponse(
	series secretsDomain.SecretSeries,
	versions []secretsDomain.SecretContent,
) []SecretDetailResponse {
	out := make([]SecretDetailResponse, 0, len(versions))
	for _, v := range versions {
		out = append(out, SecretDetailResponse{Series: mapSeries(series), Expiry: v.Expiry})
	}
	return out
}

func mapSeries(series secretsDomain.SecretSeries) SeriesResponse {
	return SeriesResponse{
		ID:                series.ID,
		Name:              series.Name,
		Description:       series.Description,
		Type:              series.Type,
		GenerationOptions: series.GenerationOptions,
		CurrentVersionID:  series.CurrentVersionID,
		CreatedAt:         series.CreatedAt,
		CreatedBy:         series.CreatedBy,
		UpdatedAt:         series.UpdatedAt,
		UpdatedBy:         series.UpdatedBy,
	}
}

// SanitizedSecretResponse is the wire form of SanitizedSecret, used by the
// v2 expiring listing.
type SanitizedSecretResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Type        string            `json:"type,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	Expiry      int64             `json:"expiry"`
	CreatedAt   time.Time         `json:"created_at"`
	CreatedBy   string            `json:"created_by,omitempty"`
	UpdatedAt   time.Time         `json:"updated_at"`
	UpdatedBy   string            `json:"updated_by,omitempty"`
}

// MapSanitizedSecret converts one SanitizedSecret to its wire form.
func MapSanitizedSecret(s secretsDomain.SanitizedSecret) SanitizedSecretResponse {
	return SanitizedSecretResponse{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Type:        s.Type,
		Metadata:    s.Metadata,
		Expiry:      s.Expiry,
		CreatedAt:   s.CreatedAt,
		CreatedBy:   s.CreatedBy,
		UpdatedAt:   s.UpdatedAt,
		UpdatedBy:   s.UpdatedBy,
	}
}

// MapSanitizedSecrets converts a slice of SanitizedSecret to their wire form.
func MapSanitizedSecrets(secrets []secretsDomain.SanitizedSecret) []SanitizedSecretResponse {
	out := make([]SanitizedSecretResponse, 0, len(secrets))
	for _, s := range secrets {
		out = append(out, MapSanitizedSecret(s))
	}
	return out
}
