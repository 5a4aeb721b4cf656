package commands

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	accessDomain "github.com/allisson/keyhouse/internal/access/domain"
	accessUsecase "github.com/allisson/keyhouse/internal/access/usecase"
)

var _ accessUsecase.ClientUsecase = (*fakeClientUsecase)(nil)

// fakeClientUsecase is an in-memory stand-in for accessUsecase.ClientUsecase.
type fakeClientUsecase struct {
	clients []accessDomain.Client
	nextID  int64
	err     error
}

func (f *fakeClientUsecase) Create(_ context.Context, name string, automationAllowed bool) (*accessDomain.Client, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.nextID++
	c := accessDomain.Client{ID: f.nextID, Name: name, Enabled: true, AutomationAllowed: automationAllowed}
	f.clients = append(f.clients, c)
	return &c, nil
}

func (f *fakeClientUsecase) GetByName(_ context.Context, name string) (*accessDomain.Client, error) {
	for _, c := range f.clients {
		if c.Name == name {
			return &c, nil
		}
	}
	return nil, accessDomain.ErrClientNotFound
}

func (f *fakeClientUsecase) List(_ context.Context) ([]accessDomain.Client, error) {
	return f.clients, f.err
}

func (f *fakeClientUsecase) TouchLastSeen(_ context.Context, _ int64) error {
	return nil
}

func TestRunCreateClient(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	t.Run("text", func(t *testing.T) {
		uc := &fakeClientUsecase{}
		var out bytes.Buffer
		err := RunCreateClient(ctx, uc, logger, "automation-1", true, "text", IOTuple{Writer: &out})

		require.NoError(t, err)
		require.Contains(t, out.String(), "automation-1")
		require.Len(t, uc.clients, 1)
		require.True(t, uc.clients[0].AutomationAllowed)
	})

	t.Run("json", func(t *testing.T) {
		uc := &fakeClientUsecase{}
		var out bytes.Buffer
		err := RunCreateClient(ctx, uc, logger, "automation-2", false, "json", IOTuple{Writer: &out})

		require.NoError(t, err)
		require.Contains(t, out.String(), `"name": "automation-2"`)
		require.Contains(t, out.String(), `"automation_allowed": false`)
	})

	t.Run("create fails", func(t *testing.T) {
		uc := &fakeClientUsecase{err: accessDomain.ErrClientAlreadyExists}
		var out bytes.Buffer
		err := RunCreateClient(ctx, uc, logger, "dup", true, "text", IOTuple{Writer: &out})

		require.Error(t, err)
	})
}

func TestRunListClients(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	t.Run("empty", func(t *testing.T) {
		uc := &fakeClientUsecase{}
		var out bytes.Buffer
		err := RunListClients(ctx, uc, logger, "text", IOTuple{Writer: &out})

		require.NoError(t, err)
		require.Contains(t, out.String(), "No clients registered")
	})

	t.Run("populated", func(t *testing.T) {
		uc := &fakeClientUsecase{clients: []accessDomain.Client{
			{ID: 1, Name: "a", Enabled: true, AutomationAllowed: true},
		}}
		var out bytes.Buffer
		err := RunListClients(ctx, uc, logger, "text", IOTuple{Writer: &out})

		require.NoError(t, err)
		require.Contains(t, out.String(), "a")
	})
}
