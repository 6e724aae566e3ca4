// Package memory is an in-process persistence backend. Entities are kept as
// JSON snapshots so callers never share memory with the store.
package memory

import (
	"context"
	"encoding/json"
	"sync"

	serrors "go.pilab.hu/tokenstore/errors"
	"go.pilab.hu/tokenstore/persistence"
)

// Repository is a mutex-guarded map implementation of
// persistence.Repository.
type Repository[T persistence.Entity] struct {
	mu      sync.RWMutex
	entries map[string][]byte
	newFn   func() T
}

// NewRepository returns an empty repository. newFn allocates the value
// entities are decoded into.
func NewRepository[T persistence.Entity](newFn func() T) *Repository[T] {
	return &Repository[T]{
		entries: make(map[string][]byte),
		newFn:   newFn,
	}
}

var _ persistence.Repository[persistence.Entity] = (*Repository[persistence.Entity])(nil)

// Get implements persistence.Repository.
func (r *Repository[T]) Get(_ context.Context, id string) (T, error) {
	r.mu.RLock()
	data, ok := r.entries[id]
	r.mu.RUnlock()

	if !ok {
		var zero T
		return zero, serrors.NotFound("memory.Get", "no entity %q", id)
	}

	return r.decode("memory.Get", data)
}

// Query implements persistence.Repository.
func (r *Repository[T]) Query(_ context.Context, filter persistence.Filter) ([]T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []T
	for _, data := range r.entries {
		e, err := r.decode("memory.Query", data)
		if err != nil {
			return nil, err
		}
		if filter.Matches(e) {
			out = append(out, e)
		}
	}

	return out, nil
}

// Save implements persistence.Repository.
func (r *Repository[T]) Save(_ context.Context, entity T) error {
	data, err := json.Marshal(entity)
	if err != nil {
		return serrors.Unavailable("memory.Save", err)
	}

	r.mu.Lock()
	r.entries[entity.EntityID()] = data
	r.mu.Unlock()

	return nil
}

// DeleteWhere implements persistence.Repository.
func (r *Repository[T]) DeleteWhere(_ context.Context, filter persistence.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := filter.ID(); ok {
		if _, found := r.entries[id]; !found {
			return 0, nil
		}
		delete(r.entries, id)
		return 1, nil
	}

	var n int64
	for id, data := range r.entries {
		e, err := r.decode("memory.DeleteWhere", data)
		if err != nil {
			return n, err
		}
		if filter.Matches(e) {
			delete(r.entries, id)
			n++
		}
	}

	return n, nil
}

// Len returns the number of stored entities.
func (r *Repository[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

func (r *Repository[T]) decode(op string, data []byte) (T, error) {
	e := r.newFn()
	if err := json.Unmarshal(data, e); err != nil {
		var zero T
		return zero, serrors.Corrupt(op, err)
	}
	return e, nil
}
