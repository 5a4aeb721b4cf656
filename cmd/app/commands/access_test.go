package commands

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	accessDomain "github.com/allisson/keyhouse/internal/access/domain"
	accessUsecase "github.com/allisson/keyhouse/internal/access/usecase"
	secretsDomain "github.com/allisson/keyhouse/internal/secrets/domain"
	secretsUsecase "github.com/allisson/keyhouse/internal/secrets/usecase"
)

var (
	_ accessUsecase.GroupUsecase  = (*fakeGroupUsecase)(nil)
	_ accessUsecase.ACLEngine     = (*fakeACLEngine)(nil)
	_ secretsUsecase.Controller   = (*fakeController)(nil)
)

type fakeGroupUsecase struct {
	groups map[string]accessDomain.Group
	nextID int64
	err    error
}

func newFakeGroupUsecase() *fakeGroupUsecase {
	return &fakeGroupUsecase{groups: map[string]accessDomain.Group{}}
}

func (f *fakeGroupUsecase) Create(_ context.Context, name, description string) (*accessDomain.Group, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.nextID++
	g := accessDomain.Group{ID: f.nextID, Name: name, Description: description}
	f.groups[name] = g
	return &g, nil
}

func (f *fakeGroupUsecase) GetByName(_ context.Context, name string) (*accessDomain.Group, error) {
	g, ok := f.groups[name]
	if !ok {
		return nil, accessDomain.ErrGroupNotFound
	}
	return &g, nil
}

func (f *fakeGroupUsecase) List(_ context.Context) ([]accessDomain.Group, error) {
	out := make([]accessDomain.Group, 0, len(f.groups))
	for _, g := range f.groups {
		out = append(out, g)
	}
	return out, nil
}

func (f *fakeGroupUsecase) Delete(_ context.Context, name string) error {
	delete(f.groups, name)
	return nil
}

type fakeACLEngine struct {
	grants map[[2]int64]bool
}

func newFakeACLEngine() *fakeACLEngine {
	return &fakeACLEngine{grants: map[[2]int64]bool{}}
}

func (f *fakeACLEngine) GrantAccess(_ context.Context, secretSeriesID, groupID int64, _ string) error {
	f.grants[[2]int64{secretSeriesID, groupID}] = true
	return nil
}

func (f *fakeACLEngine) RevokeAccess(_ context.Context, secretSeriesID, groupID int64, _ string) error {
	delete(f.grants, [2]int64{secretSeriesID, groupID})
	return nil
}

func (f *fakeACLEngine) ReconcileGroups(
	_ context.Context, _ int64, _, _ []string, _ string,
) (*accessUsecase.GroupsUpdate, error) {
	return &accessUsecase.GroupsUpdate{}, nil
}

func (f *fakeACLEngine) GroupsFor(_ context.Context, _ int64) ([]accessDomain.Group, error) { return nil, nil }
func (f *fakeACLEngine) ClientsFor(_ context.Context, _ int64) ([]accessDomain.Client, error) {
	return nil, nil
}
func (f *fakeACLEngine) SecretIDsFor(_ context.Context, _ int64) ([]int64, error) { return nil, nil }
func (f *fakeACLEngine) AddMembership(_ context.Context, _, _ int64) error        { return nil }
func (f *fakeACLEngine) RemoveMembership(_ context.Context, _, _ int64) error     { return nil }

// fakeController is a minimal stand-in for secretsUsecase.Controller; only
// GetByName and BackfillExpiration carry behavior the CLI commands exercise.
type fakeController struct {
	secrets           map[string]int64
	backfillFound     bool
	backfillErr       error
}

func (f *fakeController) Create(_ context.Context, _ secretsUsecase.CreateSecretRequest) (*secretsDomain.Secret, error) {
	return nil, nil
}

func (f *fakeController) CreateOrUpdate(
	_ context.Context, _ secretsUsecase.CreateOrUpdateSecretRequest,
) (*secretsDomain.Secret, error) {
	return nil, nil
}

func (f *fakeController) GetByID(_ context.Context, _ int64) (*secretsDomain.Secret, error) {
	return nil, nil
}

func (f *fakeController) GetByName(_ context.Context, name string) (*secretsDomain.Secret, error) {
	id, ok := f.secrets[name]
	if !ok {
		return nil, secretsDomain.ErrSecretNotFound
	}
	return &secretsDomain.Secret{Series: secretsDomain.SecretSeries{ID: id, Name: name}}, nil
}

func (f *fakeController) ListNames(_ context.Context) ([]secretsDomain.NameID, error) { return nil, nil }

func (f *fakeController) ListSecrets(
	_ context.Context, _ *int64, _ *int64,
) ([]secretsDomain.SanitizedSecret, error) {
	return nil, nil
}

func (f *fakeController) GetVersionsByName(
	_ context.Context, _ string, _, _ int,
) ([]secretsDomain.SecretContent, error) {
	return nil, nil
}

func (f *fakeController) SetCurrentVersionByName(_ context.Context, _ string, _ int64, _ string) error {
	return nil
}

func (f *fakeController) SetExpiration(_ context.Context, _ string, _ int64) (bool, error) {
	return false, nil
}

func (f *fakeController) DeleteSecretsByName(_ context.Context, _ string, _ string) error { return nil }

func (f *fakeController) BackfillExpiration(
	_ context.Context, _ string, _ []string, _ string,
) (bool, error) {
	return f.backfillFound, f.backfillErr
}

func TestRunCreateGroup(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()
	uc := newFakeGroupUsecase()

	var out bytes.Buffer
	err := RunCreateGroup(ctx, uc, logger, "team-a", "team a secrets", "text", IOTuple{Writer: &out})

	require.NoError(t, err)
	require.Contains(t, out.String(), "team-a")
	require.Contains(t, uc.groups, "team-a")
}

func TestRunGrantAndRevokeAccess(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	groupUC := newFakeGroupUsecase()
	_, err := groupUC.Create(ctx, "team-a", "")
	require.NoError(t, err)

	controller := &fakeController{secrets: map[string]int64{"/app/key": 42}}
	acl := newFakeACLEngine()

	var out bytes.Buffer
	err = RunGrantAccess(ctx, controller, groupUC, acl, logger, "/app/key", "team-a", "tester", IOTuple{Writer: &out})
	require.NoError(t, err)
	require.True(t, acl.grants[[2]int64{42, 1}])

	out.Reset()
	err = RunRevokeAccess(ctx, controller, groupUC, acl, logger, "/app/key", "team-a", "tester", IOTuple{Writer: &out})
	require.NoError(t, err)
	require.False(t, acl.grants[[2]int64{42, 1}])
}

func TestRunGrantAccess_UnknownSecret(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()
	groupUC := newFakeGroupUsecase()
	controller := &fakeController{secrets: map[string]int64{}}

	err := RunGrantAccess(ctx, controller, groupUC, newFakeACLEngine(), logger, "missing", "team-a", "tester", IOTuple{Writer: &bytes.Buffer{}})
	require.Error(t, err)
}
