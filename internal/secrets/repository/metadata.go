package repository

import (
	"encoding/json"

	apperrors "github.com/allisson/keyhouse/internal/errors"
)

// encodeStringMap marshals a metadata/generation-options map to its JSON
// column representation. A nil map encodes as an empty JSON object so scans
// never have to special-case NULL vs "{}".
func encodeStringMap(m map[string]string) (string, error) {
	if m == nil {
		m = map[string]string{}
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to encode metadata")
	}
	return string(b), nil
}

// decodeStringMap unmarshals a JSON column value back into a map, treating
// an empty string the same as an empty object.
func decodeStringMap(raw string) (map[string]string, error) {
	m := map[string]string{}
	if raw == "" {
		return m, nil
	}
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode metadata")
	}
	return m, nil
}
