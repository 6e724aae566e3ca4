// Package redis implements the cache backend on Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"go.pilab.hu/tokenstore/cache"
)

const scanCount = 100

// Backend implements cache.Backend using Redis strings with an expiry.
type Backend struct {
	client *redis.Client
	prefix string // Optional prefix for keys
	ttl    time.Duration
}

// NewBackend creates a new Backend. Entries expire after ttl; zero keeps
// them until they are deleted.
func NewBackend(client *redis.Client, prefix string, ttl time.Duration) *Backend {
	return &Backend{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

var _ cache.Backend = (*Backend)(nil)

// redisKey returns the Redis key for a cache key.
func (b *Backend) redisKey(key string) string {
	return fmt.Sprintf("%s:cache:%s", b.prefix, key)
}

// Get implements cache.Backend.
func (b *Backend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := b.client.Get(ctx, b.redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get cache entry from Redis: %w", err)
	}
	return data, true, nil
}

// Set implements cache.Backend.
func (b *Backend) Set(ctx context.Context, key string, value []byte) error {
	if err := b.client.Set(ctx, b.redisKey(key), value, b.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache entry in Redis: %w", err)
	}
	return nil
}

// Delete implements cache.Backend.
func (b *Backend) Delete(ctx context.Context, key string) error {
	if err := b.client.Del(ctx, b.redisKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete cache entry from Redis: %w", err)
	}
	return nil
}

// scan calls fn with every batch of keys owned by this backend.
func (b *Backend) scan(ctx context.Context, fn func(keys []string) error) error {
	pattern := b.redisKey("*")
	var cursor uint64

	for {
		keys, next, err := b.client.Scan(ctx, cursor, pattern, scanCount).Result()
		if err != nil {
			return fmt.Errorf("failed to scan Redis keys: %w", err)
		}
		if len(keys) > 0 {
			if err := fn(keys); err != nil {
				return err
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

// Clear implements cache.Backend.
func (b *Backend) Clear(ctx context.Context) error {
	return b.scan(ctx, func(keys []string) error {
		if err := b.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("failed to delete keys: %w", err)
		}
		return nil
	})
}

// Count implements cache.Backend. Scan failures are logged and yield the
// count seen so far.
func (b *Backend) Count(ctx context.Context) int {
	var count int
	err := b.scan(ctx, func(keys []string) error {
		count += len(keys)
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Msg("Error counting cache entries")
	}
	return count
}

// Close closes the Redis client.
func (b *Backend) Close() error {
	return b.client.Close()
}
