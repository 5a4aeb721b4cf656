package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	secretsDomain "github.com/allisson/keyhouse/internal/secrets/domain"
	"github.com/allisson/keyhouse/internal/secrets/http/dto"
)

func TestMapNameIDsToNames(t *testing.T) {
	nameIDs := []secretsDomain.NameID{{ID: 1, Name: "/a"}, {ID: 2, Name: "/b"}}
	assert.Equal(t, []string{"/a", "/b"}, dto.MapNameIDsToNames(nameIDs))
}

func TestMapSanitizedSecretsToNames(t *testing.T) {
	secrets := []secretsDomain.SanitizedSecret{{Name: "/a"}, {Name: "/b"}}
	assert.Equal(t, []string{"/a", "/b"}, dto.MapSanitizedSecretsToNames(secrets))
}
