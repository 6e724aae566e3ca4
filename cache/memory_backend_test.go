package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBackend(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend(time.Minute)
	defer b.Close()

	_, ok, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, b.Set(ctx, "k", []byte("v")))
	data, ok, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), data)
	assert.Equal(t, 1, b.Count(ctx))

	require.NoError(t, b.Delete(ctx, "k"))
	_, ok, _ = b.Get(ctx, "k")
	assert.False(t, ok)

	require.NoError(t, b.Set(ctx, "a", nil))
	require.NoError(t, b.Set(ctx, "b", nil))
	require.NoError(t, b.Clear(ctx))
	assert.Zero(t, b.Count(ctx))
}

func TestMemoryBackend_Expires(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend(20 * time.Millisecond)
	defer b.Close()

	require.NoError(t, b.Set(ctx, "k", []byte("v")))
	assert.Eventually(t, func() bool {
		_, ok, _ := b.Get(ctx, "k")
		return !ok
	}, time.Second, 10*time.Millisecond)
}
