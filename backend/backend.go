// Package backend wires the configured storage engine and cache into the
// token store.
package backend

import (
	"context"
	"fmt"

	multierror "github.com/hashicorp/go-multierror"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"go.pilab.hu/tokenstore"
	"go.pilab.hu/tokenstore/boltdb"
	"go.pilab.hu/tokenstore/cache"
	rediscache "go.pilab.hu/tokenstore/cache/redis"
	"go.pilab.hu/tokenstore/codec"
	"go.pilab.hu/tokenstore/config"
	"go.pilab.hu/tokenstore/domain"
	tslog "go.pilab.hu/tokenstore/log"
	"go.pilab.hu/tokenstore/mongodb"
	"go.pilab.hu/tokenstore/persistence"
	"go.pilab.hu/tokenstore/persistence/memory"
)

// Cache namespaces.
const (
	cacheNamespaceAccess  = "access"
	cacheNamespaceRefresh = "refresh"
)

// Backend holds the opened token repositories and the resources behind them.
type Backend struct {
	AccessTokens  persistence.Repository[*domain.AccessTokenRecord]
	RefreshTokens persistence.Repository[*domain.RefreshTokenRecord]

	closers []func(ctx context.Context) error
}

func newAccessRecord() *domain.AccessTokenRecord   { return new(domain.AccessTokenRecord) }
func newRefreshRecord() *domain.RefreshTokenRecord { return new(domain.RefreshTokenRecord) }

// Open opens the storage engine named by cfg.StoreBackend and wraps it with
// the configured cache. Resources opened before a failure are released.
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	b := &Backend{}

	if err := b.openStore(ctx, cfg); err != nil {
		_ = b.Close(ctx)
		return nil, err
	}

	if err := b.openCache(ctx, cfg); err != nil {
		_ = b.Close(ctx)
		return nil, err
	}

	log.Info().
		Str("store", cfg.StoreBackend).
		Str("cache", cfg.CacheBackend).
		Msg("Token storage backend opened")

	return b, nil
}

func (b *Backend) onClose(fn func(ctx context.Context) error) {
	b.closers = append(b.closers, fn)
}

func (b *Backend) openStore(ctx context.Context, cfg *config.Config) error {
	switch cfg.StoreBackend {
	case config.StoreMemory:
		b.AccessTokens = memory.NewRepository(newAccessRecord)
		b.RefreshTokens = memory.NewRepository(newRefreshRecord)

	case config.StoreBolt:
		db, err := boltdb.Open(cfg.BoltPath)
		if err != nil {
			return err
		}
		b.onClose(func(context.Context) error { return db.Close() })

		access, err := boltdb.NewRepository(db, boltdb.BucketAccessTokens, newAccessRecord)
		if err != nil {
			return err
		}
		refresh, err := boltdb.NewRepository(db, boltdb.BucketRefreshTokens, newRefreshRecord)
		if err != nil {
			return err
		}
		b.AccessTokens, b.RefreshTokens = access, refresh

	case config.StoreMongoDB:
		client, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			return err
		}
		b.onClose(client.Close)

		if err := mongodb.EnsureTokenIndexes(ctx, client.Database()); err != nil {
			return err
		}
		b.AccessTokens = mongodb.NewAccessTokenRepository(client.Database())
		b.RefreshTokens = mongodb.NewRefreshTokenRepository(client.Database())

	default:
		return fmt.Errorf("backend: unknown store %q", cfg.StoreBackend)
	}

	return nil
}

func (b *Backend) openCache(ctx context.Context, cfg *config.Config) error {
	var cb cache.Backend

	switch cfg.CacheBackend {
	case "", config.CacheNone:
		return nil

	case config.CacheMemory:
		cb = cache.NewMemoryBackend(cfg.CacheTTL)

	case config.CacheRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return fmt.Errorf("failed to connect to Redis at %s: %w", cfg.RedisAddr, err)
		}
		cb = rediscache.NewBackend(client, cfg.RedisPrefix, cfg.CacheTTL)

	default:
		return fmt.Errorf("backend: unknown cache %q", cfg.CacheBackend)
	}

	b.onClose(func(context.Context) error { return cb.Close() })

	b.AccessTokens = cache.NewRepository(b.AccessTokens, cb, cacheNamespaceAccess, newAccessRecord)
	b.RefreshTokens = cache.NewRepository(b.RefreshTokens, cb, cacheNamespaceRefresh, newRefreshRecord)

	return nil
}

// Close releases every resource in reverse opening order and returns all
// failures.
func (b *Backend) Close(ctx context.Context) error {
	var errs *multierror.Error
	for i := len(b.closers) - 1; i >= 0; i-- {
		errs = multierror.Append(errs, b.closers[i](ctx))
	}
	b.closers = nil
	return errs.ErrorOrNil()
}

// NewStore builds the token store on top of b with the hash algorithm and
// codec named in cfg. reg may be nil to skip metrics.
func NewStore(cfg *config.Config, b *Backend, logger tslog.Logger, reg prometheus.Registerer) (*tokenstore.Store, error) {
	alg, err := tokenstore.ParseHashAlgorithm(cfg.TokenHashAlgorithm)
	if err != nil {
		return nil, err
	}
	hasher, err := tokenstore.NewTokenHasher(alg)
	if err != nil {
		return nil, err
	}
	blobs, err := codec.ByName(cfg.BlobCodec)
	if err != nil {
		return nil, err
	}

	opts := []tokenstore.Option{
		tokenstore.WithTokenHasher(hasher),
		tokenstore.WithCodec(blobs),
	}
	if logger != nil {
		opts = append(opts, tokenstore.WithLogger(logger))
	}
	if reg != nil {
		opts = append(opts, tokenstore.WithMetrics(reg))
	}

	return tokenstore.New(
		tokenstore.NewAccessTokenRepository(b.AccessTokens),
		tokenstore.NewRefreshTokenRepository(b.RefreshTokens),
		opts...,
	), nil
}
