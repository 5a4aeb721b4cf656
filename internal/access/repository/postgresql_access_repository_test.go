package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/keyhouse/internal/testutil"
)

func TestNewPostgreSQLAccessRepository(t *testing.T) {
	testutil.SkipIfNoPostgres(t)
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)

	repo := NewPostgreSQLAccessRepository(db)
	assert.NotNil(t, repo)
	assert.IsType(t, &PostgreSQLAccessRepository{}, repo)
}

func createTestSecretSeries(t *testing.T, db *sql.DB, name string) int64 {
	t.Helper()
	var id int64
	now := time.Now().UTC()
	err := db.QueryRow(`
		INSERT INTO secrets (name, description, type, generation_options, created_at, created_by, updated_at, updated_by)
		VALUES ($1, '', 'generic', '{}', $2, 'tester', $2, 'tester')
		RETURNING id`, name, now).Scan(&id)
	require.NoError(t, err)
	return id
}

func TestPostgreSQLAccessRepository_GrantAndRevokeAccess(t *testing.T) {
	testutil.SkipIfNoPostgres(t)
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)

	ctx := context.Background()
	secretID := createTestSecretSeries(t, db, "acl-secret")
	groupID := testutil.CreateTestGroup(t, db, "postgres", "acl-group", "")

	repo := NewPostgreSQLAccessRepository(db)

	granted, err := repo.GrantAccess(ctx, secretID, groupID)
	require.NoError(t, err)
	assert.True(t, granted)

	// Granting again is idempotent.
	granted, err = repo.GrantAccess(ctx, secretID, groupID)
	require.NoError(t, err)
	assert.False(t, granted)

	groups, err := repo.GroupsForSecret(ctx, secretID)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, groupID, groups[0].ID)

	revoked, err := repo.RevokeAccess(ctx, secretID, groupID)
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = repo.RevokeAccess(ctx, secretID, groupID)
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestPostgreSQLAccessRepository_Membership(t *testing.T) {
	testutil.SkipIfNoPostgres(t)
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)

	ctx := context.Background()
	clientID := testutil.CreateTestClient(t, db, "postgres", "acl-client", false)
	groupID := testutil.CreateTestGroup(t, db, "postgres", "membership-group", "")
	secretID := createTestSecretSeries(t, db, "membership-secret")

	repo := NewPostgreSQLAccessRepository(db)

	added, err := repo.AddMembership(ctx, clientID, groupID)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = repo.AddMembership(ctx, clientID, groupID)
	require.NoError(t, err)
	assert.False(t, added)

	_, err = repo.GrantAccess(ctx, secretID, groupID)
	require.NoError(t, err)

	secretIDs, err := repo.SecretIDsForClient(ctx, clientID)
	require.NoError(t, err)
	require.Len(t, secretIDs, 1)
	assert.Equal(t, secretID, secretIDs[0])

	clients, err := repo.ClientsForSecret(ctx, secretID)
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, clientID, clients[0].ID)

	removed, err := repo.RemoveMembership(ctx, clientID, groupID)
	require.NoError(t, err)
	assert.True(t, removed)

	secretIDs, err = repo.SecretIDsForClient(ctx, clientID)
	require.NoError(t, err)
	assert.Empty(t, secretIDs)
}
