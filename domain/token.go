package domain

import (
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// TokenTypeBearer is the default access token type.
const TokenTypeBearer = "bearer"

// AccessToken is an issued OAuth 2.0 access token. The store treats it as an
// opaque payload: it is serialized into the record blob and never
// interpreted beyond its Value and RefreshToken.
type AccessToken struct {
	Value      string    `json:"value"                bson:"value"`
	TokenType  string    `json:"token_type,omitempty" bson:"token_type,omitempty"`
	Expiration time.Time `json:"expiration,omitempty" bson:"expiration,omitempty"` // zero for non-expiring tokens
	Scope      []string  `json:"scope,omitempty"      bson:"scope,omitempty"`

	RefreshToken *RefreshToken `json:"refresh_token,omitempty" bson:"refresh_token,omitempty"`

	// AdditionalInformation round-trips through the blob codec. The JSON
	// codec returns numbers as json.Number, the BSON codec as int32, int64
	// or float64.
	AdditionalInformation map[string]any `json:"additional_information,omitempty" bson:"additional_information,omitempty"`
}

// RefreshToken is an issued OAuth 2.0 refresh token.
type RefreshToken struct {
	Value      string    `json:"value"                bson:"value"`
	Expiration time.Time `json:"expiration,omitempty" bson:"expiration,omitempty"` // zero for non-expiring tokens
}

// RefreshTokenValue returns the value of the linked refresh token, or "" when
// there is none.
func (t *AccessToken) RefreshTokenValue() string {
	if t == nil || t.RefreshToken == nil {
		return ""
	}
	return t.RefreshToken.Value
}

// IsExpired reports whether the token expired before now.
func (t *AccessToken) IsExpired(now time.Time) bool {
	return !t.Expiration.IsZero() && t.Expiration.Before(now)
}

// IsExpired reports whether the refresh token expired before now.
func (t *RefreshToken) IsExpired(now time.Time) bool {
	return !t.Expiration.IsZero() && t.Expiration.Before(now)
}

// OAuth2 converts the token into an oauth2.Token. The scope is carried as the
// "scope" extra, space separated, the way token endpoints return it.
func (t *AccessToken) OAuth2() *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  t.Value,
		TokenType:    t.TokenType,
		RefreshToken: t.RefreshTokenValue(),
		Expiry:       t.Expiration,
	}
	if len(t.Scope) > 0 {
		tok = tok.WithExtra(map[string]any{"scope": strings.Join(t.Scope, " ")})
	}
	return tok
}

// AccessTokenFromOAuth2 builds an AccessToken from an oauth2.Token. A "scope"
// extra, if present, is split on spaces.
func AccessTokenFromOAuth2(tok *oauth2.Token) *AccessToken {
	if tok == nil {
		return nil
	}

	at := &AccessToken{
		Value:      tok.AccessToken,
		TokenType:  tok.TokenType,
		Expiration: tok.Expiry,
	}
	if at.TokenType == "" {
		at.TokenType = TokenTypeBearer
	}
	if tok.RefreshToken != "" {
		at.RefreshToken = &RefreshToken{Value: tok.RefreshToken}
	}
	if scope, ok := tok.Extra("scope").(string); ok && scope != "" {
		at.Scope = strings.Fields(scope)
	}

	return at
}
