package cache

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"go.pilab.hu/tokenstore/persistence"
)

// Repository is a read-through cache in front of another repository.
//
// Only Get is cached. Save and DeleteWhere write through and then drop the
// affected entries. Concurrent misses for the same id share one load.
// Backend failures are logged and never fail the call.
//
// A load that races a concurrent DeleteWhere can populate the cache after
// the invalidation, so a deleted record may still be served from the cache
// until its entry expires.
type Repository[T persistence.Entity] struct {
	next      persistence.Repository[T]
	backend   Backend
	namespace string
	newFn     func() T

	group singleflight.Group
}

// NewRepository wraps next. namespace separates entity kinds sharing one
// backend. newFn allocates the value cached entries are decoded into.
func NewRepository[T persistence.Entity](next persistence.Repository[T], backend Backend, namespace string, newFn func() T) *Repository[T] {
	return &Repository[T]{
		next:      next,
		backend:   backend,
		namespace: namespace,
		newFn:     newFn,
	}
}

var _ persistence.Repository[persistence.Entity] = (*Repository[persistence.Entity])(nil)

func (r *Repository[T]) key(id string) string {
	return r.namespace + ":" + id
}

// Get implements persistence.Repository.
func (r *Repository[T]) Get(ctx context.Context, id string) (T, error) {
	key := r.key(id)

	if e, ok := r.cached(ctx, key); ok {
		return e, nil
	}

	v, err, _ := r.group.Do(key, func() (interface{}, error) {
		e, err := r.next.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		r.store(ctx, key, e)
		return e, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}

	return v.(T), nil
}

// Query implements persistence.Repository. Queries are not cached.
func (r *Repository[T]) Query(ctx context.Context, filter persistence.Filter) ([]T, error) {
	return r.next.Query(ctx, filter)
}

// Save implements persistence.Repository.
func (r *Repository[T]) Save(ctx context.Context, entity T) error {
	err := r.next.Save(ctx, entity)
	r.invalidate(ctx, entity.EntityID())
	return err
}

// DeleteWhere implements persistence.Repository.
func (r *Repository[T]) DeleteWhere(ctx context.Context, filter persistence.Filter) (int64, error) {
	if id, ok := filter.ID(); ok {
		n, err := r.next.DeleteWhere(ctx, filter)
		r.invalidate(ctx, id)
		return n, err
	}

	matched, err := r.next.Query(ctx, filter)
	if err != nil {
		return 0, err
	}

	n, err := r.next.DeleteWhere(ctx, filter)
	for _, e := range matched {
		r.invalidate(ctx, e.EntityID())
	}
	return n, err
}

func (r *Repository[T]) cached(ctx context.Context, key string) (T, bool) {
	var zero T

	data, ok, err := r.backend.Get(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cache lookup failed")
		return zero, false
	}
	if !ok {
		return zero, false
	}

	e := r.newFn()
	if err := json.Unmarshal(data, e); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Dropping undecodable cache entry")
		_ = r.backend.Delete(ctx, key)
		return zero, false
	}
	return e, true
}

func (r *Repository[T]) store(ctx context.Context, key string, e T) {
	data, err := json.Marshal(e)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to encode cache entry")
		return
	}
	if err := r.backend.Set(ctx, key, data); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to populate cache")
	}
}

func (r *Repository[T]) invalidate(ctx context.Context, id string) {
	if err := r.backend.Delete(ctx, r.key(id)); err != nil {
		log.Error().Err(err).Str("key", r.key(id)).Msg("Failed to invalidate cache entry")
	}
}
