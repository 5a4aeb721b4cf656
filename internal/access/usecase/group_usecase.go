package usecase

import (
	"context"

	accessDomain "github.com/allisson/keyhouse/internal/access/domain"
	"github.com/allisson/keyhouse/internal/access/repository"
)

// groupUsecase implements GroupUsecase.
type groupUsecase struct {
	repo repository.GroupRepository
}

// NewGroupUsecase creates a new Group Usecase.
func NewGroupUsecase(repo repository.GroupRepository) GroupUsecase {
	return &groupUsecase{repo: repo}
}

func (u *groupUsecase) Create(ctx context.Context, name, description string) (*accessDomain.Group, error) {
	return u.repo.Create(ctx, name, description)
}

func (u *groupUsecase) GetByName(ctx context.Context, name string) (*accessDomain.Group, error) {
	return u.repo.GetByName(ctx, name)
}

func (u *groupUsecase) List(ctx context.Context) ([]accessDomain.Group, error) {
	return u.repo.List(ctx)
}

func (u *groupUsecase) Delete(ctx context.Context, name string) error {
	return u.repo.Delete(ctx, name)
}
