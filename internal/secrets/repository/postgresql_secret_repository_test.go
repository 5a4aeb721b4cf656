package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	secretsDomain "github.com/allisson/keyhouse/internal/secrets/domain"
	"github.com/allisson/keyhouse/internal/testutil"
)

func newTestInput(name string) CreateSecretInput {
	return CreateSecretInput{
		Name:             name,
		EncryptedContent: "ciphertext-" + name,
		HMAC:             "hmac-" + name,
		Creator:          "tester",
		Metadata:         map[string]string{"env": "test"},
		Expiry:           0,
		Description:      "a test secret",
		Type:             "generic",
	}
}

func TestPostgreSQLSecretRepository_CreateSecret(t *testing.T) {
	testutil.SkipIfNoPostgres(t)
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)

	repo := NewPostgreSQLSecretRepository(db)
	ctx := context.Background()

	secret, err := repo.CreateSecret(ctx, newTestInput("app/database-password"))
	require.NoError(t, err)
	assert.NotZero(t, secret.Series.ID)
	assert.Equal(t, "app/database-password", secret.Series.Name)
	assert.Equal(t, secret.Series.CurrentVersionID, &secret.Content.ID)
	assert.Equal(t, "ciphertext-app/database-password", secret.Content.EncryptedContent)
	assert.Equal(t, map[string]string{"env": "test"}, secret.Content.Metadata)

	_, err = repo.CreateSecret(ctx, newTestInput("app/database-password"))
	assert.ErrorIs(t, err, secretsDomain.ErrSecretAlreadyExists)
}

func TestPostgreSQLSecretRepository_GetByID(t *testing.T) {
	testutil.SkipIfNoPostgres(t)
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)

	repo := NewPostgreSQLSecretRepository(db)
	ctx := context.Background()

	created, err := repo.CreateSecret(ctx, newTestInput("app/api-key"))
	require.NoError(t, err)

	fetched, err := repo.GetByID(ctx, created.Series.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Series.Name, fetched.Series.Name)
	assert.Equal(t, created.Content.EncryptedContent, fetched.Content.EncryptedContent)

	_, err = repo.GetByID(ctx, created.Series.ID+1000)
	assert.ErrorIs(t, err, secretsDomain.ErrSecretNotFound)
}

func TestPostgreSQLSecretRepository_GetByName(t *testing.T) {
	testutil.SkipIfNoPostgres(t)
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)

	repo := NewPostgreSQLSecretRepository(db)
	ctx := context.Background()

	_, err := repo.CreateSecret(ctx, newTestInput("app/signing-key"))
	require.NoError(t, err)

	fetched, err := repo.GetByName(ctx, "app/signing-key")
	require.NoError(t, err)
	assert.Equal(t, "app/signing-key", fetched.Series.Name)

	_, err = repo.GetByName(ctx, "app/does-not-exist")
	assert.ErrorIs(t, err, secretsDomain.ErrSecretNotFound)
}

func TestPostgreSQLSecretRepository_ListNames(t *testing.T) {
	testutil.SkipIfNoPostgres(t)
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)

	repo := NewPostgreSQLSecretRepository(db)
	ctx := context.Background()

	_, err := repo.CreateSecret(ctx, newTestInput("b-secret"))
	require.NoError(t, err)
	_, err = repo.CreateSecret(ctx, newTestInput("a-secret"))
	require.NoError(t, err)

	names, err := repo.ListNames(ctx)
	require.NoError(t, err)
	require.Len(t, names, 2)
	assert.Equal(t, "a-secret", names[0].Name)
	assert.Equal(t, "b-secret", names[1].Name)
}

func TestPostgreSQLSecretRepository_ListSecrets(t *testing.T) {
	testutil.SkipIfNoPostgres(t)
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)

	repo := NewPostgreSQLSecretRepository(db)
	ctx := context.Background()

	soon := newTestInput("expiring-soon")
	soon.Expiry = time.Now().Add(time.Hour).Unix()
	expiringSoon, err := repo.CreateSecret(ctx, soon)
	require.NoError(t, err)

	never := newTestInput("never-expires")
	_, err = repo.CreateSecret(ctx, never)
	require.NoError(t, err)

	maxExpiry := time.Now().Add(24 * time.Hour).Unix()
	filtered, err := repo.ListSecrets(ctx, &maxExpiry, nil)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "expiring-soon", filtered[0].Series.Name)

	all, err := repo.ListSecrets(ctx, nil, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	groupID := testutil.CreateTestGroup(t, db, "postgres", "listsecrets-group", "")
	_, err = db.ExecContext(ctx,
		`INSERT INTO accessgrants (secret_series_id, group_id, created_at) VALUES ($1, $2, $3)`,
		expiringSoon.Series.ID, groupID, time.Now().UTC(),
	)
	require.NoError(t, err)

	byGroup, err := repo.ListSecrets(ctx, nil, &groupID)
	require.NoError(t, err)
	require.Len(t, byGroup, 1)
	assert.Equal(t, "expiring-soon", byGroup[0].Series.Name)
}

func TestPostgreSQLSecretRepository_CreateOrUpdateSecret(t *testing.T) {
	testutil.SkipIfNoPostgres(t)
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)

	repo := NewPostgreSQLSecretRepository(db)
	ctx := context.Background()

	input := newTestInput("app/rotating-secret")
	created, err := repo.CreateOrUpdateSecret(ctx, input)
	require.NoError(t, err)
	firstVersionID := created.Content.ID

	input.EncryptedContent = "ciphertext-v2"
	updated, err := repo.CreateOrUpdateSecret(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, created.Series.ID, updated.Series.ID)
	assert.NotEqual(t, firstVersionID, updated.Content.ID)
	assert.Equal(t, "ciphertext-v2", updated.Content.EncryptedContent)

	versions, err := repo.GetVersionsByName(ctx, "app/rotating-secret", 0, 10)
	require.NoError(t, err)
	assert.Len(t, versions, 2)
}

func TestPostgreSQLSecretRepository_GetVersionsByName(t *testing.T) {
	testutil.SkipIfNoPostgres(t)
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)

	repo := NewPostgreSQLSecretRepository(db)
	ctx := context.Background()

	_, err := repo.GetVersionsByName(ctx, "no-such-secret", 0, 10)
	assert.ErrorIs(t, err, secretsDomain.ErrSecretNotFound)

	input := newTestInput("app/versioned")
	_, err = repo.CreateSecret(ctx, input)
	require.NoError(t, err)

	versions, err := repo.GetVersionsByName(ctx, "app/versioned", 0, 10)
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.Equal(t, input.EncryptedContent, versions[0].EncryptedContent)
}

func TestPostgreSQLSecretRepository_SetCurrentVersionByName(t *testing.T) {
	testutil.SkipIfNoPostgres(t)
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)

	repo := NewPostgreSQLSecretRepository(db)
	ctx := context.Background()

	input := newTestInput("app/versioned-secret")
	created, err := repo.CreateSecret(ctx, input)
	require.NoError(t, err)
	firstVersionID := created.Content.ID

	input.EncryptedContent = "ciphertext-v2"
	updated, err := repo.CreateOrUpdateSecret(ctx, input)
	require.NoError(t, err)
	assert.NotEqual(t, firstVersionID, updated.Content.ID)

	err = repo.SetCurrentVersionByName(ctx, "app/versioned-secret", firstVersionID)
	require.NoError(t, err)

	reverted, err := repo.GetByName(ctx, "app/versioned-secret")
	require.NoError(t, err)
	assert.Equal(t, firstVersionID, reverted.Content.ID)

	err = repo.SetCurrentVersionByName(ctx, "no-such-secret", firstVersionID)
	assert.ErrorIs(t, err, secretsDomain.ErrSecretNotFound)

	other, err := repo.CreateSecret(ctx, newTestInput("app/unrelated-secret"))
	require.NoError(t, err)
	err = repo.SetCurrentVersionByName(ctx, "app/versioned-secret", other.Content.ID)
	assert.ErrorIs(t, err, secretsDomain.ErrVersionNotFound)
}

func TestPostgreSQLSecretRepository_SetExpiration(t *testing.T) {
	testutil.SkipIfNoPostgres(t)
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)

	repo := NewPostgreSQLSecretRepository(db)
	ctx := context.Background()

	_, err := repo.CreateSecret(ctx, newTestInput("app/expiring"))
	require.NoError(t, err)

	expiry := time.Now().Add(time.Hour).Unix()
	affected, err := repo.SetExpiration(ctx, "app/expiring", expiry)
	require.NoError(t, err)
	assert.True(t, affected)

	fetched, err := repo.GetByName(ctx, "app/expiring")
	require.NoError(t, err)
	assert.Equal(t, expiry, fetched.Content.Expiry)

	affected, err = repo.SetExpiration(ctx, "no-such-secret", expiry)
	require.NoError(t, err)
	assert.False(t, affected)
}

func TestPostgreSQLSecretRepository_DeleteSecretsByName(t *testing.T) {
	testutil.SkipIfNoPostgres(t)
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)

	repo := NewPostgreSQLSecretRepository(db)
	ctx := context.Background()

	_, err := repo.CreateSecret(ctx, newTestInput("app/deletable"))
	require.NoError(t, err)

	err = repo.DeleteSecretsByName(ctx, "app/deletable")
	require.NoError(t, err)

	_, err = repo.GetByName(ctx, "app/deletable")
	assert.ErrorIs(t, err, secretsDomain.ErrSecretNotFound)

	err = repo.DeleteSecretsByName(ctx, "app/deletable")
	assert.ErrorIs(t, err, secretsDomain.ErrSecretNotFound)

	// A deleted name can be reused by a new series.
	recreated, err := repo.CreateSecret(ctx, newTestInput("app/deletable"))
	require.NoError(t, err)
	assert.NotZero(t, recreated.Series.ID)
}
