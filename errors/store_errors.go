// Package errors defines the error kinds reported by the token store and its
// persistence backends.
//
// Callers branch on the kind, never on the underlying driver error:
//
//	if errors.Is(err, serrors.ErrNotFound) { ... }
//
// The driver error is kept for the message only. Unwrap exposes the kind
// sentinel and nothing else, so mongo, bbolt or redis error types never leak
// past the store boundary.
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a store failure.
type Kind int

const (
	KindUnknown Kind = iota
	// KindNotFound means the requested record does not exist. It is a normal
	// outcome, not a failure.
	KindNotFound
	// KindUnavailable means the backing storage could not serve the call.
	KindUnavailable
	// KindCorrupt means a stored record or blob could not be decoded.
	KindCorrupt
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindUnavailable:
		return "storage unavailable"
	case KindCorrupt:
		return "corrupt record"
	default:
		return "unknown"
	}
}

// Kind sentinels, usable with errors.Is.
var (
	ErrNotFound    = &kindError{kind: KindNotFound}
	ErrUnavailable = &kindError{kind: KindUnavailable}
	ErrCorrupt     = &kindError{kind: KindCorrupt}
)

type kindError struct {
	kind Kind
}

func (e *kindError) Error() string { return e.kind.String() }

func sentinel(k Kind) error {
	switch k {
	case KindNotFound:
		return ErrNotFound
	case KindUnavailable:
		return ErrUnavailable
	case KindCorrupt:
		return ErrCorrupt
	default:
		return nil
	}
}

// Error is a classified store error.
type Error struct {
	Kind Kind
	// Op is the operation that failed, e.g. "mongodb.Get".
	Op  string
	Msg string

	cause error
}

func (e *Error) Error() string {
	var msg string
	var inner *Error
	switch {
	case e.Msg != "":
		msg = e.Msg
	case errors.As(e.cause, &inner):
		// the inner error already names its kind
	default:
		msg = e.Kind.String()
	}
	if e.cause != nil {
		if msg != "" {
			msg += ": "
		}
		msg += e.cause.Error()
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	return msg
}

// Unwrap returns the kind sentinel. The cause is deliberately not exposed.
func (e *Error) Unwrap() error {
	return sentinel(e.Kind)
}

// New returns a classified error without a cause.
func New(kind Kind, op, msg string) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg}
}

// Wrap classifies err under kind. A nil err yields nil. An err that already
// carries a kind keeps it and only gains the op prefix.
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return &Error{Kind: se.Kind, Op: op, cause: se}
	}
	return &Error{Kind: kind, Op: op, cause: err}
}

// NotFound reports a missing record.
func NotFound(op, format string, args ...any) *Error {
	return New(KindNotFound, op, fmt.Sprintf(format, args...))
}

// Unavailable classifies a storage failure.
func Unavailable(op string, err error) error {
	return Wrap(KindUnavailable, op, err)
}

// Corrupt classifies a decoding failure.
func Corrupt(op string, err error) error {
	return Wrap(KindCorrupt, op, err)
}

// KindOf returns the kind carried by err, or KindUnknown.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	var ke *kindError
	if errors.As(err, &ke) {
		return ke.kind
	}
	return KindUnknown
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsCorrupt reports whether err is a decoding error.
func IsCorrupt(err error) bool { return errors.Is(err, ErrCorrupt) }
