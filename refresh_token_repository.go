package tokenstore

import (
	"context"

	"go.pilab.hu/tokenstore/domain"
	"go.pilab.hu/tokenstore/persistence"
)

type refreshTokenRepository struct {
	repo persistence.Repository[*domain.RefreshTokenRecord]
}

// NewRefreshTokenRepository builds a RefreshTokenRepository on top of a
// generic repository.
func NewRefreshTokenRepository(repo persistence.Repository[*domain.RefreshTokenRecord]) RefreshTokenRepository {
	return &refreshTokenRepository{repo: repo}
}

func (r *refreshTokenRepository) FindByTokenID(ctx context.Context, tokenID string) (*domain.RefreshTokenRecord, error) {
	return r.repo.Get(ctx, tokenID)
}

func (r *refreshTokenRepository) FindAll(ctx context.Context) ([]*domain.RefreshTokenRecord, error) {
	return r.repo.Query(ctx, persistence.All())
}

func (r *refreshTokenRepository) DeleteByTokenID(ctx context.Context, tokenID string) (int64, error) {
	return r.repo.DeleteWhere(ctx, persistence.Where(domain.FieldTokenID, tokenID))
}

func (r *refreshTokenRepository) Save(ctx context.Context, record *domain.RefreshTokenRecord) error {
	return r.repo.Save(ctx, record)
}
