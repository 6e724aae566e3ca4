// Package boltdb is a persistence backend on an embedded bbolt file. Each
// entity kind lives in its own bucket, keyed by entity id, with JSON
// encoded values.
package boltdb

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	bolt "go.etcd.io/bbolt"
)

// Bucket names of the token kinds.
const (
	BucketAccessTokens  = "oauth_access_tokens"
	BucketRefreshTokens = "oauth_refresh_tokens"
)

const (
	dirPerm     = 0o700
	filePerm    = 0o600
	openTimeout = 5 * time.Second
)

// DB is an open bbolt database.
type DB struct {
	bolt *bolt.DB
	path string
}

// Open opens or creates the database at path. The parent directory is
// created when missing. Open fails after a few seconds when another
// process holds the file lock.
func Open(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("create database directory %s: %w", dir, err)
	}

	db, err := bolt.Open(path, filePerm, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db at %s: %w", path, err)
	}

	log.Debug().Str("path", path).Msg("BBoltDB opened")
	return &DB{bolt: db, path: path}, nil
}

// Path returns the database file path.
func (d *DB) Path() string {
	return d.path
}

// Close closes the database file.
func (d *DB) Close() error {
	return d.bolt.Close()
}

func (d *DB) ensureBucket(name string) error {
	return d.bolt.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
			return fmt.Errorf("create bucket %s: %w", name, err)
		}
		return nil
	})
}
