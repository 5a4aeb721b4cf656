package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	secretsDomain "github.com/allisson/keyhouse/internal/secrets/domain"
)

func TestMapSecretToDetailResponse(t *testing.T) {
	now := time.Now().UTC()
	versionID := int64(42)
	secret := &secretsDomain.Secret{
		Series: secretsDomain.SecretSeries{
			ID: 1, Name: "/app/api-key", Description: "test key", CurrentVersionID: &versionID,
			CreatedAt: now, CreatedBy: "automation-client",
		},
		Content: secretsDomain.SecretContent{ID: versionID, SeriesID: 1, Expiry: 1735689600},
	}

	response := MapSecretToDetailResponse(secret)

	assert.Equal(t, "/app/api-key", response.Series.Name)
	assert.Equal(t, "test key", response.Series.Description)
	assert.Equal(t, &versionID, response.Series.CurrentVersionID)
	assert.Equal(t, int64(1735689600), response.Expiry)
}

func TestMapVersionsToDetailResponse_NewestFirst(t *testing.T) {
	series := secretsDomain.SecretSeries{ID: 1, Name: "/k"}
	versions := []secretsDomain.SecretContent{
		{ID: 2, Expiry: 200},
		{ID: 1, Expiry: 100},
	}

	responses := MapVersionsToDetailResponse(series, versions)

	assert.Len(t, responses, 2)
	assert.Equal(t, int64(200), responses[0].Expiry)
	assert.Equal(t, int64(100), responses[1].Expiry)
	assert.Equal(t, "/k", responses[0].Series.Name)
}

func TestMapSanitizedSecrets(t *testing.T) {
	secrets := []secretsDomain.SanitizedSecret{
		{ID: 1, Name: "/a", Expiry: 100},
		{ID: 2, Name: "/b", Expiry: 200},
	}

	responses := MapSanitizedSecrets(secrets)

	assert.Len(t, responses, 2)
	assert.Equal(t, "/a", responses[0].Name)
	assert.Equal(t, int64(200), responses[1].Expiry)
}
