package cache

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// MemoryBackend implements Backend using ttlcache.
type MemoryBackend struct {
	cache *ttlcache.Cache[string, []byte]
}

// NewMemoryBackend creates an in-process backend whose entries live for
// ttl. Expired entries are evicted by a background goroutine until Close.
func NewMemoryBackend(ttl time.Duration) *MemoryBackend {
	cache := ttlcache.New(
		ttlcache.WithTTL[string, []byte](ttl),
		ttlcache.WithDisableTouchOnHit[string, []byte](),
	)

	go cache.Start()

	return &MemoryBackend{cache: cache}
}

var _ Backend = (*MemoryBackend)(nil)

// Get implements Backend.
func (b *MemoryBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	item := b.cache.Get(key)
	if item == nil {
		return nil, false, nil
	}
	return item.Value(), true, nil
}

// Set implements Backend.
func (b *MemoryBackend) Set(_ context.Context, key string, value []byte) error {
	b.cache.Set(key, value, ttlcache.DefaultTTL)
	return nil
}

// Delete implements Backend.
func (b *MemoryBackend) Delete(_ context.Context, key string) error {
	b.cache.Delete(key)
	return nil
}

// Clear implements Backend.
func (b *MemoryBackend) Clear(_ context.Context) error {
	b.cache.DeleteAll()
	return nil
}

// Count implements Backend.
func (b *MemoryBackend) Count(_ context.Context) int {
	return b.cache.Len()
}

// Close stops the eviction goroutine.
func (b *MemoryBackend) Close() error {
	b.cache.Stop()
	return nil
}
