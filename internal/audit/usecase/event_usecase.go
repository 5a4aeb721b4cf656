package usecase

import (
	"context"
	"time"

	auditDomain "github.com/allisson/keyhouse/internal/audit/domain"
	"github.com/allisson/keyhouse/internal/audit/repository"
	apperrors "github.com/allisson/keyhouse/internal/errors"
)

// eventUseCase implements Usecase.
type eventUseCase struct {
	repo repository.EventRepository
}

// NewEventUseCase creates a new Audit Log Usecase with the given repository.
func NewEventUseCase(repo repository.EventRepository) Usecase {
	return &eventUseCase{repo: repo}
}

// Record appends one audit event, stamping the timestamp at write time since
// audit ordering only needs to be consistent within one process.
func (u *eventUseCase) Record(
	ctx context.Context,
	tag auditDomain.Tag,
	actorName, targetName string,
	extraInfo map[string]string,
) error {
	event := &auditDomain.Event{
		Timestamp:  time.Now().UTC(),
		Tag:        tag,
		ActorName:  actorName,
		TargetName: targetName,
		ExtraInfo:  extraInfo,
	}
	if err := u.repo.Create(ctx, event); err != nil {
		return apperrors.Wrap(err, "failed to record audit event")
	}
	return nil
}

func (u *eventUseCase) List(
	ctx context.Context,
	offset, limit int,
	from, to *time.Time,
) ([]auditDomain.Event, error) {
	return u.repo.List(ctx, offset, limit, from, to)
}
