package tokenstore

import (
	"crypto"
	_ "crypto/md5" //nolint:gosec // legacy key format, not used for secrecy
	"crypto/sha256"
	_ "crypto/sha512"
	"encoding/hex"
	"fmt"
	"strings"

	_ "golang.org/x/crypto/blake2b" // registers crypto.BLAKE2b_256
)

// Supported token key algorithm names.
const (
	HashSHA256     = "sha256"
	HashSHA512     = "sha512"
	HashMD5        = "md5"
	HashBLAKE2b256 = "blake2b-256"
)

// ParseHashAlgorithm maps an algorithm name to its crypto.Hash.
func ParseHashAlgorithm(name string) (crypto.Hash, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", HashSHA256:
		return crypto.SHA256, nil
	case HashSHA512:
		return crypto.SHA512, nil
	case HashMD5:
		return crypto.MD5, nil
	case HashBLAKE2b256:
		return crypto.BLAKE2b_256, nil
	default:
		return 0, fmt.Errorf("unknown token hash algorithm %q", name)
	}
}

// TokenHasher derives storage keys from token values. Keys are the lowercase
// hex digest of the value, so they have a fixed width per algorithm.
type TokenHasher struct {
	alg crypto.Hash
}

// NewTokenHasher returns a hasher for alg. It fails when the hash function is
// not linked into the binary.
func NewTokenHasher(alg crypto.Hash) (TokenHasher, error) {
	if !alg.Available() {
		return TokenHasher{}, fmt.Errorf("token hash algorithm %v is not available", alg)
	}
	return TokenHasher{alg: alg}, nil
}

// MustTokenHasher is like NewTokenHasher but panics on error.
func MustTokenHasher(alg crypto.Hash) TokenHasher {
	h, err := NewTokenHasher(alg)
	if err != nil {
		panic(err)
	}
	return h
}

// Algorithm returns the underlying hash.
func (h TokenHasher) Algorithm() crypto.Hash {
	if h.alg == 0 {
		return crypto.SHA256
	}
	return h.alg
}

// Key returns the storage key for value. An empty value has no key.
func (h TokenHasher) Key(value string) string {
	if value == "" {
		return ""
	}
	hasher := h.Algorithm().New()
	hasher.Write([]byte(value))
	return hex.EncodeToString(hasher.Sum(nil))
}

// HashToken returns the SHA-256 storage key of a token value.
func HashToken(token string) string {
	if token == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
