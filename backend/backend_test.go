package backend

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.pilab.hu/tokenstore/cache"
	"go.pilab.hu/tokenstore/config"
	"go.pilab.hu/tokenstore/domain"
	"go.pilab.hu/tokenstore/log"
)

func testConfig(store, cacheBackend string) *config.Config {
	return &config.Config{
		StoreBackend:       store,
		CacheBackend:       cacheBackend,
		CacheTTL:           time.Minute,
		TokenHashAlgorithm: "sha256",
		BlobCodec:          "json",
	}
}

func alice() *domain.Authentication {
	return &domain.Authentication{
		Request: domain.OAuth2Request{ClientID: "app", Scope: []string{"read"}},
		User:    &domain.UserAuthentication{Name: "alice"},
	}
}

func exercise(t *testing.T, cfg *config.Config, b *Backend) {
	t.Helper()
	ctx := context.Background()

	store, err := NewStore(cfg, b, log.NewNopLogger(), prometheus.NewRegistry())
	require.NoError(t, err)

	token := &domain.AccessToken{Value: "tok-1", TokenType: domain.TokenTypeBearer, RefreshToken: &domain.RefreshToken{Value: "ref-1"}}
	require.NoError(t, store.StoreAccessToken(ctx, token, alice()))
	require.NoError(t, store.StoreRefreshToken(ctx, token.RefreshToken, alice()))

	got, ok := store.GetAccessToken(ctx, alice())
	require.True(t, ok)
	assert.Equal(t, "tok-1", got.Value)

	// second read goes through the cache when one is configured
	got, ok = store.ReadAccessToken(ctx, "tok-1")
	require.True(t, ok)
	assert.Equal(t, "tok-1", got.Value)

	require.NoError(t, store.RemoveAccessToken(ctx, "tok-1"))
	_, ok = store.ReadAccessToken(ctx, "tok-1")
	assert.False(t, ok)

	_, ok = store.ReadRefreshToken(ctx, "ref-1")
	assert.True(t, ok)
}

func TestOpen_Memory(t *testing.T) {
	cfg := testConfig(config.StoreMemory, config.CacheNone)
	b, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer b.Close(context.Background())

	_, cached := b.AccessTokens.(*cache.Repository[*domain.AccessTokenRecord])
	assert.False(t, cached)

	exercise(t, cfg, b)
}

func TestOpen_MemoryWithCache(t *testing.T) {
	cfg := testConfig(config.StoreMemory, config.CacheMemory)
	b, err := Open(context.Background(), cfg)
	require.NoError(t, err)

	_, cached := b.AccessTokens.(*cache.Repository[*domain.AccessTokenRecord])
	assert.True(t, cached)
	_, cached = b.RefreshTokens.(*cache.Repository[*domain.RefreshTokenRecord])
	assert.True(t, cached)

	exercise(t, cfg, b)
	assert.NoError(t, b.Close(context.Background()))
}

func TestOpen_Bolt(t *testing.T) {
	cfg := testConfig(config.StoreBolt, config.CacheMemory)
	cfg.BoltPath = filepath.Join(t.TempDir(), "nested", "tokens.db")
	cfg.TokenHashAlgorithm = "blake2b-256"
	cfg.BlobCodec = "bson"

	b, err := Open(context.Background(), cfg)
	require.NoError(t, err)

	exercise(t, cfg, b)
	require.NoError(t, b.Close(context.Background()))

	_, err = os.Stat(cfg.BoltPath)
	assert.NoError(t, err)

	// the file lock is released on close
	b, err = Open(context.Background(), cfg)
	require.NoError(t, err)
	assert.NoError(t, b.Close(context.Background()))
}

func TestOpen_InvalidConfig(t *testing.T) {
	_, err := Open(context.Background(), testConfig("cassandra", config.CacheNone))
	assert.Error(t, err)
}

func TestOpen_RedisUnreachable(t *testing.T) {
	cfg := testConfig(config.StoreBolt, config.CacheRedis)
	cfg.BoltPath = filepath.Join(t.TempDir(), "tokens.db")
	cfg.RedisAddr = "127.0.0.1:1"

	_, err := Open(context.Background(), cfg)
	require.Error(t, err)

	// the bolt file opened before the failure was closed again
	b, err := Open(context.Background(), testConfigWithPath(cfg.BoltPath))
	require.NoError(t, err)
	assert.NoError(t, b.Close(context.Background()))
}

func testConfigWithPath(path string) *config.Config {
	cfg := testConfig(config.StoreBolt, config.CacheNone)
	cfg.BoltPath = path
	return cfg
}

func TestBackend_CloseAggregatesErrors(t *testing.T) {
	var order []string
	b := &Backend{}
	b.onClose(func(context.Context) error { order = append(order, "store"); return errors.New("store close failed") })
	b.onClose(func(context.Context) error { order = append(order, "cache"); return nil })
	b.onClose(func(context.Context) error { order = append(order, "redis"); return errors.New("redis close failed") })

	err := b.Close(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store close failed")
	assert.Contains(t, err.Error(), "redis close failed")
	assert.Equal(t, []string{"redis", "cache", "store"}, order)

	assert.NoError(t, b.Close(context.Background()))
}

func TestNewStore_InvalidOptions(t *testing.T) {
	b, err := Open(context.Background(), testConfig(config.StoreMemory, config.CacheNone))
	require.NoError(t, err)

	cfg := testConfig(config.StoreMemory, config.CacheNone)
	cfg.TokenHashAlgorithm = "crc32"
	_, err = NewStore(cfg, b, nil, nil)
	assert.Error(t, err)

	cfg = testConfig(config.StoreMemory, config.CacheNone)
	cfg.BlobCodec = "xml"
	_, err = NewStore(cfg, b, nil, nil)
	assert.Error(t, err)
}
