// Package cache provides a read-through cache in front of a
// persistence.Repository, with in-memory and Redis backends.
package cache

import "context"

// Backend stores cached entries as opaque bytes. Entries expire after the
// backend's TTL.
type Backend interface {
	// Get returns the entry for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error

	// Clear removes every entry owned by this backend.
	Clear(ctx context.Context) error
	// Count returns the number of live entries.
	Count(ctx context.Context) int

	Close() error
}
