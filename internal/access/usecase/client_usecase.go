package usecase

import (
	"context"

	accessDomain "github.com/allisson/keyhouse/internal/access/domain"
	"github.com/allisson/keyhouse/internal/access/repository"
)

// clientUsecase implements ClientUsecase.
type clientUsecase struct {
	repo repository.ClientRepository
}

// NewClientUsecase creates a new Client Usecase.
func NewClientUsecase(repo repository.ClientRepository) ClientUsecase {
	return &clientUsecase{repo: repo}
}

func (u *clientUsecase) Create(
	ctx context.Context,
	name string,
	automationAllowed bool,
) (*accessDomain.Client, error) {
	return u.repo.Create(ctx, name, automationAllowed)
}

func (u *clientUsecase) GetByName(ctx context.Context, name string) (*accessDomain.Client, error) {
	return u.repo.GetByName(ctx, name)
}

func (u *clientUsecase) List(ctx context.Context) ([]accessDomain.Client, error) {
	return u.repo.List(ctx)
}

func (u *clientUsecase) TouchLastSeen(ctx context.Context, id int64) error {
	return u.repo.TouchLastSeen(ctx, id)
}
