package boltdb

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"
	bolt "go.etcd.io/bbolt"

	serrors "go.pilab.hu/tokenstore/errors"
	"go.pilab.hu/tokenstore/persistence"
)

// Repository implements persistence.Repository on one bucket. Every call
// runs in its own bbolt transaction.
type Repository[T persistence.Entity] struct {
	db     *DB
	bucket []byte
	newFn  func() T
}

// NewRepository returns a repository on bucket, creating the bucket if
// needed. newFn allocates the value entities are decoded into.
func NewRepository[T persistence.Entity](db *DB, bucket string, newFn func() T) (*Repository[T], error) {
	if err := db.ensureBucket(bucket); err != nil {
		return nil, serrors.Unavailable("boltdb.NewRepository", err)
	}
	return &Repository[T]{db: db, bucket: []byte(bucket), newFn: newFn}, nil
}

// Get implements persistence.Repository.
func (r *Repository[T]) Get(_ context.Context, id string) (T, error) {
	var (
		out   T
		found bool
	)
	err := r.db.bolt.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(r.bucket).Get([]byte(id))
		if data == nil {
			return nil
		}
		found = true

		e := r.newFn()
		if err := json.Unmarshal(data, e); err != nil {
			return serrors.Corrupt("boltdb.Get", err)
		}
		out = e
		return nil
	})
	if err != nil {
		var zero T
		return zero, serrors.Unavailable("boltdb.Get", err)
	}
	if !found {
		var zero T
		return zero, serrors.NotFound("boltdb.Get", "no entity %q in %s", id, r.bucket)
	}

	return out, nil
}

// Query implements persistence.Repository. Entries that cannot be decoded
// are skipped.
func (r *Repository[T]) Query(_ context.Context, filter persistence.Filter) ([]T, error) {
	var out []T
	err := r.db.bolt.View(func(tx *bolt.Tx) error {
		return tx.Bucket(r.bucket).ForEach(func(k, v []byte) error {
			e := r.newFn()
			if err := json.Unmarshal(v, e); err != nil {
				log.Warn().Err(err).Str("bucket", string(r.bucket)).Str("id", string(k)).Msg("Skipping undecodable entry")
				return nil
			}
			if filter.Matches(e) {
				out = append(out, e)
			}
			return nil
		})
	})
	if err != nil {
		return nil, serrors.Unavailable("boltdb.Query", err)
	}

	return out, nil
}

// Save implements persistence.Repository.
func (r *Repository[T]) Save(_ context.Context, entity T) error {
	data, err := json.Marshal(entity)
	if err != nil {
		return serrors.Unavailable("boltdb.Save", err)
	}

	err = r.db.bolt.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(r.bucket).Put([]byte(entity.EntityID()), data)
	})
	if err != nil {
		log.Error().Err(err).Str("bucket", string(r.bucket)).Str("id", entity.EntityID()).Msg("Failed to save entity")
		return serrors.Unavailable("boltdb.Save", err)
	}

	return nil
}

// DeleteWhere implements persistence.Repository. A filter on the id alone
// deletes by key, so undecodable entries can still be removed.
func (r *Repository[T]) DeleteWhere(_ context.Context, filter persistence.Filter) (int64, error) {
	var n int64
	err := r.db.bolt.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(r.bucket)

		if id, ok := filter.ID(); ok {
			if b.Get([]byte(id)) == nil {
				return nil
			}
			n = 1
			return b.Delete([]byte(id))
		}

		var keys [][]byte
		err := b.ForEach(func(k, v []byte) error {
			e := r.newFn()
			if err := json.Unmarshal(v, e); err != nil {
				return nil
			}
			if filter.Matches(e) {
				keys = append(keys, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}

		for _, k := range keys {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		n = int64(len(keys))
		return nil
	})
	if err != nil {
		return 0, serrors.Unavailable("boltdb.DeleteWhere", err)
	}

	return n, nil
}
