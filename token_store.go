package tokenstore

import (
	"context"

	"go.pilab.hu/tokenstore/domain"
)

// TokenStore persists OAuth 2.0 access and refresh tokens together with the
// authentication they were issued for.
//
// Reads never fail: a missing, unreadable or corrupt record is reported as
// absent. Writes and removals return an error when the storage could not
// serve them; removals of absent tokens succeed.
type TokenStore interface {
	// Access Token Operations

	// GetAccessToken returns the access token already issued for an
	// equivalent authentication, if any.
	GetAccessToken(ctx context.Context, auth *domain.Authentication) (*domain.AccessToken, bool)
	// StoreAccessToken stores token for auth, replacing any record with the
	// same token value.
	StoreAccessToken(ctx context.Context, token *domain.AccessToken, auth *domain.Authentication) error
	ReadAccessToken(ctx context.Context, tokenValue string) (*domain.AccessToken, bool)
	RemoveAccessToken(ctx context.Context, tokenValue string) error
	ReadAuthentication(ctx context.Context, tokenValue string) (*domain.Authentication, bool)
	ReadAuthenticationForToken(ctx context.Context, token *domain.AccessToken) (*domain.Authentication, bool)

	// Refresh Token Operations

	StoreRefreshToken(ctx context.Context, token *domain.RefreshToken, auth *domain.Authentication) error
	ReadRefreshToken(ctx context.Context, tokenValue string) (*domain.RefreshToken, bool)
	RemoveRefreshToken(ctx context.Context, tokenValue string) error
	ReadAuthenticationForRefreshToken(ctx context.Context, tokenValue string) (*domain.Authentication, bool)
	// RemoveAccessTokenUsingRefreshToken removes every access token issued
	// together with the given refresh token.
	RemoveAccessTokenUsingRefreshToken(ctx context.Context, refreshTokenValue string) error

	// Bulk Queries

	FindTokensByClientID(ctx context.Context, clientID string) []*domain.AccessToken
	FindTokensByClientIDAndUserName(ctx context.Context, clientID, userName string) []*domain.AccessToken
	FindTokensByRefreshToken(ctx context.Context, refreshTokenValue string) []*domain.AccessToken
	FindAllAccessTokens(ctx context.Context) []*domain.AccessToken
	FindAllRefreshTokens(ctx context.Context) []*domain.RefreshToken
}
