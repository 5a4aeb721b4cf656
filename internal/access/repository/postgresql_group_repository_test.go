package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accessDomain "github.com/allisson/keyhouse/internal/access/domain"
	"github.com/allisson/keyhouse/internal/testutil"
)

func TestNewPostgreSQLGroupRepository(t *testing.T) {
	testutil.SkipIfNoPostgres(t)
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)

	repo := NewPostgreSQLGroupRepository(db)
	assert.NotNil(t, repo)
	assert.IsType(t, &PostgreSQLGroupRepository{}, repo)
}

func TestPostgreSQLGroupRepository_Create(t *testing.T) {
	testutil.SkipIfNoPostgres(t)
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)

	repo := NewPostgreSQLGroupRepository(db)
	ctx := context.Background()

	group, err := repo.Create(ctx, "platform-team", "owns platform secrets")
	require.NoError(t, err)
	assert.NotZero(t, group.ID)
	assert.Equal(t, "platform-team", group.Name)
	assert.Equal(t, "owns platform secrets", group.Description)

	_, err = repo.Create(ctx, "platform-team", "duplicate")
	assert.ErrorIs(t, err, accessDomain.ErrGroupAlreadyExists)
}

func TestPostgreSQLGroupRepository_GetByName(t *testing.T) {
	testutil.SkipIfNoPostgres(t)
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)

	repo := NewPostgreSQLGroupRepository(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, "billing-team", "")
	require.NoError(t, err)

	group, err := repo.GetByName(ctx, "billing-team")
	require.NoError(t, err)
	assert.Equal(t, "billing-team", group.Name)

	_, err = repo.GetByName(ctx, "no-such-group")
	assert.ErrorIs(t, err, accessDomain.ErrGroupNotFound)
}

func TestPostgreSQLGroupRepository_GetByID(t *testing.T) {
	testutil.SkipIfNoPostgres(t)
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)

	repo := NewPostgreSQLGroupRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, "infra-team", "")
	require.NoError(t, err)

	fetched, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, fetched.Name)

	_, err = repo.GetByID(ctx, created.ID+1000)
	assert.ErrorIs(t, err, accessDomain.ErrGroupNotFound)
}

func TestPostgreSQLGroupRepository_List(t *testing.T) {
	testutil.SkipIfNoPostgres(t)
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)

	repo := NewPostgreSQLGroupRepository(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, "b-team", "")
	require.NoError(t, err)
	_, err = repo.Create(ctx, "a-team", "")
	require.NoError(t, err)

	groups, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "a-team", groups[0].Name)
	assert.Equal(t, "b-team", groups[1].Name)
}

func TestPostgreSQLGroupRepository_Delete(t *testing.T) {
	testutil.SkipIfNoPostgres(t)
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)

	repo := NewPostgreSQLGroupRepository(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, "disposable-team", "")
	require.NoError(t, err)

	err = repo.Delete(ctx, "disposable-team")
	require.NoError(t, err)

	_, err = repo.GetByName(ctx, "disposable-team")
	assert.ErrorIs(t, err, accessDomain.ErrGroupNotFound)

	err = repo.Delete(ctx, "disposable-team")
	assert.ErrorIs(t, err, accessDomain.ErrGroupNotFound)
}
