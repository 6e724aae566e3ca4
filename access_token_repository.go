package tokenstore

import (
	"context"

	"go.pilab.hu/tokenstore/domain"
	serrors "go.pilab.hu/tokenstore/errors"
	"go.pilab.hu/tokenstore/persistence"
)

type accessTokenRepository struct {
	repo persistence.Repository[*domain.AccessTokenRecord]
}

// NewAccessTokenRepository builds an AccessTokenRepository on top of a
// generic repository.
func NewAccessTokenRepository(repo persistence.Repository[*domain.AccessTokenRecord]) AccessTokenRepository {
	return &accessTokenRepository{repo: repo}
}

func (r *accessTokenRepository) FindByAuthenticationID(ctx context.Context, authenticationID string) (*domain.AccessTokenRecord, error) {
	records, err := r.repo.Query(ctx, persistence.Where(domain.FieldAuthenticationID, authenticationID))
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, serrors.NotFound("FindByAuthenticationID", "no access token for authentication %q", authenticationID)
	}

	// More than one record per fingerprint only exists transiently; any of
	// them is acceptable, reconciliation repairs the linkage.
	return records[0], nil
}

func (r *accessTokenRepository) FindByTokenID(ctx context.Context, tokenID string) (*domain.AccessTokenRecord, error) {
	return r.repo.Get(ctx, tokenID)
}

func (r *accessTokenRepository) FindByClientID(ctx context.Context, clientID string) ([]*domain.AccessTokenRecord, error) {
	return r.repo.Query(ctx, persistence.Where(domain.FieldClientID, clientID))
}

func (r *accessTokenRepository) FindByUsernameAndClientID(ctx context.Context, username, clientID string) ([]*domain.AccessTokenRecord, error) {
	return r.repo.Query(ctx, persistence.Where(domain.FieldClientID, clientID).And(domain.FieldUsername, username))
}

func (r *accessTokenRepository) FindByRefreshTokenID(ctx context.Context, refreshTokenID string) ([]*domain.AccessTokenRecord, error) {
	return r.repo.Query(ctx, persistence.Where(domain.FieldRefreshTokenID, refreshTokenID))
}

func (r *accessTokenRepository) FindAll(ctx context.Context) ([]*domain.AccessTokenRecord, error) {
	return r.repo.Query(ctx, persistence.All())
}

func (r *accessTokenRepository) DeleteByTokenID(ctx context.Context, tokenID string) (int64, error) {
	return r.repo.DeleteWhere(ctx, persistence.Where(domain.FieldTokenID, tokenID))
}

func (r *accessTokenRepository) DeleteByRefreshTokenID(ctx context.Context, refreshTokenID string) (int64, error) {
	return r.repo.DeleteWhere(ctx, persistence.Where(domain.FieldRefreshTokenID, refreshTokenID))
}

func (r *accessTokenRepository) Save(ctx context.Context, record *domain.AccessTokenRecord) error {
	return r.repo.Save(ctx, record)
}
