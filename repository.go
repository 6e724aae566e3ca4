package tokenstore

import (
	"context"

	"go.pilab.hu/tokenstore/domain"
)

// AccessTokenRepository stores access token records. Single lookups report
// a KindNotFound error when nothing matches; storage failures are
// KindUnavailable.
//
//go:generate mockgen -source=$GOFILE -destination=mocks/mock_tokenstore/mock_$GOFILE -package=mock_tokenstore
type AccessTokenRepository interface {
	FindByAuthenticationID(ctx context.Context, authenticationID string) (*domain.AccessTokenRecord, error)
	FindByTokenID(ctx context.Context, tokenID string) (*domain.AccessTokenRecord, error)
	FindByClientID(ctx context.Context, clientID string) ([]*domain.AccessTokenRecord, error)
	FindByUsernameAndClientID(ctx context.Context, username, clientID string) ([]*domain.AccessTokenRecord, error)
	FindByRefreshTokenID(ctx context.Context, refreshTokenID string) ([]*domain.AccessTokenRecord, error)
	FindAll(ctx context.Context) ([]*domain.AccessTokenRecord, error)

	DeleteByTokenID(ctx context.Context, tokenID string) (int64, error)
	DeleteByRefreshTokenID(ctx context.Context, refreshTokenID string) (int64, error)

	Save(ctx context.Context, record *domain.AccessTokenRecord) error
}

// RefreshTokenRepository stores refresh token records.
type RefreshTokenRepository interface {
	FindByTokenID(ctx context.Context, tokenID string) (*domain.RefreshTokenRecord, error)
	FindAll(ctx context.Context) ([]*domain.RefreshTokenRecord, error)

	DeleteByTokenID(ctx context.Context, tokenID string) (int64, error)

	Save(ctx context.Context, record *domain.RefreshTokenRecord) error
}
