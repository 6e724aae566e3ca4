package tokenstore

import (
	"crypto/md5" //nolint:gosec // fingerprint, not a secret
	"encoding/hex"
	"slices"
	"strings"

	"go.pilab.hu/tokenstore/domain"
)

// AuthenticationKeyGenerator derives the fingerprint an access token is
// indexed under. Two authentications with the same fingerprint share one
// canonical access token.
type AuthenticationKeyGenerator interface {
	ExtractKey(auth *domain.Authentication) string
}

// AuthenticationKeyGeneratorFunc adapts a function to AuthenticationKeyGenerator.
type AuthenticationKeyGeneratorFunc func(auth *domain.Authentication) string

// ExtractKey calls f(auth).
func (f AuthenticationKeyGeneratorFunc) ExtractKey(auth *domain.Authentication) string {
	return f(auth)
}

// DefaultAuthenticationKeyGenerator fingerprints the user name, client id and
// requested scope. Scope order and duplicates do not affect the key.
//
// The canonical form is "{username=alice, client_id=app, scope=read write}",
// with username left out for client-only grants and scope left out when
// empty. The key is its MD5 digest as 32 hex characters.
type DefaultAuthenticationKeyGenerator struct{}

// ExtractKey implements AuthenticationKeyGenerator.
func (DefaultAuthenticationKeyGenerator) ExtractKey(auth *domain.Authentication) string {
	if auth == nil {
		return ""
	}

	parts := make([]string, 0, 3)
	if !auth.IsClientOnly() {
		parts = append(parts, "username="+auth.Name())
	}
	parts = append(parts, "client_id="+auth.ClientID())
	if scope := canonicalScope(auth.Request.Scope); scope != "" {
		parts = append(parts, "scope="+scope)
	}

	sum := md5.Sum([]byte("{" + strings.Join(parts, ", ") + "}")) //nolint:gosec
	return hex.EncodeToString(sum[:])
}

func canonicalScope(scope []string) string {
	if len(scope) == 0 {
		return ""
	}
	sorted := slices.Clone(scope)
	slices.Sort(sorted)
	return strings.Join(slices.Compact(sorted), " ")
}
