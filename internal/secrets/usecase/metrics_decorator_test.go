package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/allisson/keyhouse/internal/metrics"
	secretsDomain "github.com/allisson/keyhouse/internal/secrets/domain"
)

// mockBusinessMetrics is a hand-written mock of metrics.BusinessMetrics.
type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

var _ metrics.BusinessMetrics = (*mockBusinessMetrics)(nil)

// fakeController is a hand-written Controller stub returning fixed results,
// used to isolate the metrics decorator from the real compose flow.
type fakeController struct {
	err error
}

func (f *fakeController) Create(_ context.Context, _ CreateSecretRequest) (*secretsDomain.Secret, error) {
	return &secretsDomain.Secret{}, f.err
}

func (f *fakeController) CreateOrUpdate(
	_ context.Context,
	_ CreateOrUpdateSecretRequest,
) (*secretsDomain.Secret, error) {
	return &secretsDomain.Secret{}, f.err
}

func (f *fakeController) GetByID(_ context.Context, _ int64) (*secretsDomain.Secret, error) {
	return &secretsDomain.Secret{}, f.err
}

func (f *fakeController) GetByName(_ context.Context, _ string) (*secretsDomain.Secret, error) {
	return &secretsDomain.Secret{}, f.err
}

func (f *fakeController) ListNames(_ context.Context) ([]secretsDomain.NameID, error) {
	return nil, f.err
}

func (f *fakeController) ListSecrets(
	_ context.Context,
	_ *int64,
	_ *int64,
) ([]secretsDomain.SanitizedSecret, error) {
	return nil, f.err
}

func (f *fakeController) GetVersionsByName(
	_ context.Context,
	_ string,
	_, _ int,
) ([]secretsDomain.SecretContent, error) {
	return nil, f.err
}

func (f *fakeController) SetCurrentVersionByName(_ context.Context, _ string, _ int64, _ string) error {
	return f.err
}

func (f *fakeController) SetExpiration(_ context.Context, _ string, _ int64) (bool, error) {
	return false, f.err
}

func (f *fakeController) DeleteSecretsByName(_ context.Context, _ string, _ string) error {
	return f.err
}

func (f *fakeController) BackfillExpiration(_ context.Context, _ string, _ []string, _ string) (bool, error) {
	return false, f.err
}

var _ Controller = (*fakeController)(nil)

func TestControllerWithMetrics_RecordsSuccessAndError(t *testing.T) {
	t.Run("Success_RecordsSuccessStatus", func(t *testing.T) {
		m := &mockBusinessMetrics{}
		m.On("RecordOperation", mock.Anything, "secrets", "secret_create", "success").Once()
		m.On("RecordDuration", mock.Anything, "secrets", "secret_create", mock.Anything, "success").Once()

		decorated := NewControllerWithMetrics(&fakeController{}, m)
		_, err := decorated.Create(context.Background(), CreateSecretRequest{})

		assert.NoError(t, err)
		m.AssertExpectations(t)
	})

	t.Run("Error_RecordsErrorStatus", func(t *testing.T) {
		m := &mockBusinessMetrics{}
		m.On("RecordOperation", mock.Anything, "secrets", "secret_delete", "error").Once()
		m.On("RecordDuration", mock.Anything, "secrets", "secret_delete", mock.Anything, "error").Once()

		decorated := NewControllerWithMetrics(&fakeController{err: errors.New("boom")}, m)
		err := decorated.DeleteSecretsByName(context.Background(), "name", "tester")

		assert.Error(t, err)
		m.AssertExpectations(t)
	})
}
