package domain

import "time"

// SecretContent is one immutable version of a SecretSeries. Once persisted,
// no field changes; updates append a new version instead.
type SecretContent struct {
	ID               int64
	SeriesID         int64
	EncryptedContent string
	HMAC             string
	Metadata         map[string]string
	Expiry           int64 // Unix seconds; 0 means unknown.
	CreatedAt        time.Time
	CreatedBy        string
}

// Secret is the aggregate of a series and its current content version,
// as returned to the internal controller that has access to decrypted
// material.
type Secret struct {
	Series  SecretSeries
	Content SecretContent
}

// SanitizedSecret is a Secret projection with the encrypted payload and HMAC
// stripped — safe to return from listings and read surfaces that must never
// leak ciphertext.
type SanitizedSecret struct {
	ID          int64
	Name        string
	Description string
	Type        string
	Metadata    map[string]string
	Expiry      int64
	CreatedAt   time.Time
	CreatedBy   string
	UpdatedAt   time.Time
	UpdatedBy   string
}

// Sanitize strips the encrypted content and HMAC from a Secret, returning
// the projection safe for listings.
func Sanitize(secret Secret) SanitizedSecret {
	return SanitizedSecret{
		ID:          secret.Series.ID,
		Name:        secret.Series.Name,
		Description: secret.Series.Description,
		Type:        secret.Series.Type,
		Metadata:    secret.Content.Metadata,
		Expiry:      secret.Content.Expiry,
		CreatedAt:   secret.Series.CreatedAt,
		CreatedBy:   secret.Series.CreatedBy,
		UpdatedAt:   secret.Series.UpdatedAt,
		UpdatedBy:   secret.Series.UpdatedBy,
	}
}
