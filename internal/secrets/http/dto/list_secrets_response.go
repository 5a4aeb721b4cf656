package dto

import (
	secretsDomain "github.com/allisson/keyhouse/internal/secrets/domain"
)

// MapNameIDsToNames extracts just the name from each NameID, the shape
// GET / returns.
func MapNameIDsToNames(nameIDs []secretsDomain.NameID) []string {
	names := make([]string, 0, len(nameIDs))
	for _, n := range nameIDs {
		names = append(names, n.Name)
	}
	return names
}

// MapSanitizedSecretsToNames extracts just the name from each sanitized
// secret, the shape the name-only expiring listings return.
func MapSanitizedSecretsToNames(secrets []secretsDomain.SanitizedSecret) []string {
	names := make([]string, 0, len(secrets))
	for _, s := range secrets {
		names = append(names, s.Name)
	}
	return names
}
