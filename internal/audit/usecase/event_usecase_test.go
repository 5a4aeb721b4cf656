package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	auditDomain "github.com/allisson/keyhouse/internal/audit/domain"
)

// mockEventRepository is a mock implementation of EventRepository for testing.
type mockEventRepository struct {
	mock.Mock
}

func (m *mockEventRepository) Create(ctx context.Context, event *auditDomain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *mockEventRepository) List(
	ctx context.Context,
	offset, limit int,
	from, to *time.Time,
) ([]auditDomain.Event, error) {
	args := m.Called(ctx, offset, limit, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]auditDomain.Event), args.Error(1)
}

func TestEventUseCase_Record(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_RecordsEventWithGivenTag", func(t *testing.T) {
		repo := &mockEventRepository{}
		repo.On("Create", ctx, mock.MatchedBy(func(e *auditDomain.Event) bool {
			return e.Tag == auditDomain.TagAccessAdd && e.ActorName == "automation-client" && e.TargetName == "group-a"
		})).Return(nil)

		u := NewEventUseCase(repo)
		err := u.Record(ctx, auditDomain.TagAccessAdd, "automation-client", "group-a", nil)

		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})
}
