package boltdb

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"

	"go.pilab.hu/tokenstore/domain"
	serrors "go.pilab.hu/tokenstore/errors"
	"go.pilab.hu/tokenstore/persistence"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "tokens.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newAccessRepo(t *testing.T, db *DB) *Repository[*domain.AccessTokenRecord] {
	t.Helper()
	repo, err := NewRepository(db, BucketAccessTokens, func() *domain.AccessTokenRecord { return new(domain.AccessTokenRecord) })
	require.NoError(t, err)
	return repo
}

func record(id, client, user, refresh string) *domain.AccessTokenRecord {
	return &domain.AccessTokenRecord{
		TokenRecord: domain.TokenRecord{
			TokenID:        id,
			Token:          []byte(`{"value":"` + id + `"}`),
			Authentication: []byte(`{"request":{"client_id":"` + client + `"}}`),
		},
		AuthenticationID: "fp-" + id,
		ClientID:         client,
		Username:         user,
		RefreshTokenID:   refresh,
	}
}

func TestOpen_CreatesFileWithOwnerPermissions(t *testing.T) {
	db := testDB(t)

	info, err := os.Stat(db.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(filePerm), info.Mode().Perm())
}

func TestRepository_SaveGet(t *testing.T) {
	ctx := context.Background()
	repo := newAccessRepo(t, testDB(t))

	rec := record("a", "app", "alice", "r1")
	require.NoError(t, repo.Save(ctx, rec))

	got, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	_, err = repo.Get(ctx, "missing")
	assert.True(t, serrors.IsNotFound(err))
}

func TestRepository_SaveReplaces(t *testing.T) {
	ctx := context.Background()
	repo := newAccessRepo(t, testDB(t))

	require.NoError(t, repo.Save(ctx, record("a", "app", "alice", "")))
	require.NoError(t, repo.Save(ctx, record("a", "web", "bob", "")))

	all, err := repo.Query(ctx, persistence.All())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "web", all[0].ClientID)
}

func TestRepository_QueryDelete(t *testing.T) {
	ctx := context.Background()
	repo := newAccessRepo(t, testDB(t))

	require.NoError(t, repo.Save(ctx, record("a", "app", "alice", "r1")))
	require.NoError(t, repo.Save(ctx, record("b", "app", "bob", "r1")))
	require.NoError(t, repo.Save(ctx, record("c", "app", "", "r2")))
	require.NoError(t, repo.Save(ctx, record("d", "web", "alice", "")))

	got, err := repo.Query(ctx, persistence.Where(domain.FieldClientID, "app").And(domain.FieldUsername, "alice"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].TokenID)

	n, err := repo.DeleteWhere(ctx, persistence.Where(domain.FieldRefreshTokenID, "r1"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = repo.DeleteWhere(ctx, persistence.Where(domain.FieldTokenID, "c"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repo.DeleteWhere(ctx, persistence.Where(domain.FieldTokenID, "c"))
	require.NoError(t, err)
	assert.Zero(t, n)

	all, err := repo.Query(ctx, persistence.All())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "d", all[0].TokenID)
}

func TestRepository_CorruptEntry(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)
	repo := newAccessRepo(t, db)

	require.NoError(t, repo.Save(ctx, record("good", "app", "alice", "")))
	require.NoError(t, db.bolt.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(BucketAccessTokens)).Put([]byte("bad"), []byte("{truncated"))
	}))

	_, err := repo.Get(ctx, "bad")
	require.Error(t, err)
	assert.True(t, serrors.IsCorrupt(err))

	all, err := repo.Query(ctx, persistence.Where(domain.FieldClientID, "app"))
	require.NoError(t, err)
	assert.Len(t, all, 1, "undecodable entries are skipped")

	n, err := repo.DeleteWhere(ctx, persistence.Where(domain.FieldTokenID, "bad"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = repo.Get(ctx, "bad")
	assert.True(t, serrors.IsNotFound(err))
}

func TestRepository_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tokens.db")

	db, err := Open(path)
	require.NoError(t, err)
	repo := newAccessRepo(t, db)
	require.NoError(t, repo.Save(ctx, record("a", "app", "alice", "")))
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()

	got, err := newAccessRepo(t, db).Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
}

func TestRepository_ClosedDB(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "tokens.db"))
	require.NoError(t, err)
	repo := newAccessRepo(t, db)
	require.NoError(t, db.Close())

	err = repo.Save(context.Background(), record("a", "app", "alice", ""))
	require.Error(t, err)
	assert.Equal(t, serrors.KindUnavailable, serrors.KindOf(err))
}
