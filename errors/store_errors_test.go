package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type driverError struct{ code int }

func (e *driverError) Error() string { return fmt.Sprintf("driver failure %d", e.code) }

func TestWrap_ClassifiesByKind(t *testing.T) {
	cause := &driverError{code: 11000}
	err := Unavailable("mongodb.Save", cause)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, KindUnavailable, KindOf(err))
	assert.Equal(t, "mongodb.Save: storage unavailable: driver failure 11000", err.Error())
}

func TestWrap_HidesDriverErrorType(t *testing.T) {
	err := Unavailable("boltdb.Get", &driverError{code: 1})

	var de *driverError
	assert.False(t, errors.As(err, &de), "driver error type must not be reachable")
}

func TestWrap_KeepsExistingKind(t *testing.T) {
	inner := Corrupt("boltdb.Get", errors.New("invalid character"))
	outer := Wrap(KindUnavailable, "tokenstore.ReadAccessToken", inner)

	assert.Equal(t, KindCorrupt, KindOf(outer))
	assert.True(t, IsCorrupt(outer))
	assert.Equal(t, "tokenstore.ReadAccessToken: boltdb.Get: corrupt record: invalid character", outer.Error())
}

func TestWrap_Nil(t *testing.T) {
	assert.NoError(t, Wrap(KindCorrupt, "op", nil))
	assert.NoError(t, Unavailable("op", nil))
}

func TestNotFound(t *testing.T) {
	err := NotFound("memory.Get", "no entity %q", "abc")

	assert.True(t, IsNotFound(err))
	assert.Equal(t, `memory.Get: no entity "abc"`, err.Error())
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindUnknown, KindOf(nil))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, KindNotFound, KindOf(ErrNotFound))
	assert.Equal(t, KindCorrupt, KindOf(fmt.Errorf("wrapped: %w", ErrCorrupt)))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "not found", KindNotFound.String())
	assert.Equal(t, "storage unavailable", KindUnavailable.String())
	assert.Equal(t, "corrupt record", KindCorrupt.String())
	assert.Equal(t, "unknown", Kind(42).String())
}
