package domain

import "go.pilab.hu/tokenstore/persistence"

// Names of the indexed record fields, as used in persistence filters. They
// match the bson field names so the mongodb backend can use them verbatim.
const (
	FieldTokenID          = persistence.FieldID
	FieldAuthenticationID = "authentication_id"
	FieldUsername         = "username"
	FieldClientID         = "client_id"
	FieldRefreshTokenID   = "refresh_token_id"
)

// TokenRecord holds the fields shared by both persisted token kinds.
// Token and Authentication are opaque blobs produced by a codec.
type TokenRecord struct {
	TokenID        string `bson:"_id"            json:"token_id"`
	Token          []byte `bson:"token"          json:"token"`
	Authentication []byte `bson:"authentication" json:"authentication"`
}

// EntityID returns the token id.
func (r *TokenRecord) EntityID() string {
	return r.TokenID
}

// AccessTokenRecord is a persisted access token with its lookup indexes.
type AccessTokenRecord struct {
	TokenRecord `bson:",inline"`

	// AuthenticationID is the authentication fingerprint the token was
	// stored under.
	AuthenticationID string `bson:"authentication_id"          json:"authentication_id"`
	Username         string `bson:"username,omitempty"         json:"username,omitempty"` // empty for client-only grants
	ClientID         string `bson:"client_id"                  json:"client_id"`
	RefreshTokenID   string `bson:"refresh_token_id,omitempty" json:"refresh_token_id,omitempty"`
}

// FieldValue returns the value of an indexed field. Absent optional fields
// report false.
func (r *AccessTokenRecord) FieldValue(field string) (string, bool) {
	switch field {
	case FieldTokenID:
		return r.TokenID, true
	case FieldAuthenticationID:
		return r.AuthenticationID, true
	case FieldUsername:
		return r.Username, r.Username != ""
	case FieldClientID:
		return r.ClientID, true
	case FieldRefreshTokenID:
		return r.RefreshTokenID, r.RefreshTokenID != ""
	default:
		return "", false
	}
}

// RefreshTokenRecord is a persisted refresh token.
type RefreshTokenRecord struct {
	TokenRecord `bson:",inline"`
}

// FieldValue returns the value of an indexed field. Only the token id is
// indexed.
func (r *RefreshTokenRecord) FieldValue(field string) (string, bool) {
	if field == FieldTokenID {
		return r.TokenID, true
	}
	return "", false
}
