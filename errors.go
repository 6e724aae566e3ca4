package tokenstore

import (
	"errors"

	serrors "go.pilab.hu/tokenstore/errors"
)

var (
	// ErrTokenRequired is returned when a nil token or a token without a
	// value is stored.
	ErrTokenRequired = errors.New("token value is required")
	// ErrAuthenticationRequired is returned when a token is stored without
	// an authentication.
	ErrAuthenticationRequired = errors.New("authentication is required")
	// ErrClientIDRequired is returned when a token is stored for an
	// authentication without a client id.
	ErrClientIDRequired = errors.New("authentication client id is required")

	// Storage error kinds (re-exported from the errors package).
	ErrNotFound    error = serrors.ErrNotFound
	ErrUnavailable error = serrors.ErrUnavailable
	ErrCorrupt     error = serrors.ErrCorrupt
)
