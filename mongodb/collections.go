package mongodb

import (
	"go.mongodb.org/mongo-driver/mongo"

	"go.pilab.hu/tokenstore/domain"
)

const (
	AccessTokensCollection  = "oauth_access_tokens"
	RefreshTokensCollection = "oauth_refresh_tokens"
)

// NewAccessTokenRepository returns the access token repository of db.
func NewAccessTokenRepository(db *mongo.Database) *Repository[*domain.AccessTokenRecord] {
	return NewRepository(db.Collection(AccessTokensCollection), func() *domain.AccessTokenRecord {
		return new(domain.AccessTokenRecord)
	})
}

// NewRefreshTokenRepository returns the refresh token repository of db.
func NewRefreshTokenRepository(db *mongo.Database) *Repository[*domain.RefreshTokenRecord] {
	return NewRepository(db.Collection(RefreshTokensCollection), func() *domain.RefreshTokenRecord {
		return new(domain.RefreshTokenRecord)
	})
}
