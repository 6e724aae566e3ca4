package mongodb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"go.pilab.hu/tokenstore/domain"
	serrors "go.pilab.hu/tokenstore/errors"
	"go.pilab.hu/tokenstore/mongodb/testutil"
	"go.pilab.hu/tokenstore/persistence"
)

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

func TestToBSON(t *testing.T) {
	assert.Equal(t, bson.D{}, toBSON(persistence.All()))
	assert.Equal(t,
		bson.D{{Key: "client_id", Value: "app"}, {Key: "username", Value: "alice"}},
		toBSON(persistence.Where(domain.FieldClientID, "app").And(domain.FieldUsername, "alice")),
	)
}

func TestRecordBSONLayout(t *testing.T) {
	data, err := bson.Marshal(record("a", "app", "", ""))
	require.NoError(t, err)

	raw := bson.Raw(data)
	assert.Equal(t, "a", raw.Lookup("_id").StringValue())
	assert.Equal(t, "app", raw.Lookup("client_id").StringValue())
	_, err = raw.LookupErr("username")
	assert.Error(t, err, "client-only records carry no username")
	_, err = raw.LookupErr("refresh_token_id")
	assert.Error(t, err)
}

func TestRepository_Integration(t *testing.T) {
	db := testutil.SetupTestMongoDB(t, "tokenstore_repo")
	ctx := context.Background()

	require.NoError(t, EnsureTokenIndexes(ctx, db))
	require.NoError(t, EnsureTokenIndexes(ctx, db), "index creation is idempotent")

	repo := NewAccessTokenRepository(db)

	require.NoError(t, repo.Save(ctx, record("a", "app", "alice", "r1")))
	require.NoError(t, repo.Save(ctx, record("b", "app", "bob", "r1")))
	require.NoError(t, repo.Save(ctx, record("c", "app", "", "")))
	require.NoError(t, repo.Save(ctx, record("a", "app", "alice", "r1")))

	got, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, record("a", "app", "alice", "r1"), got)

	_, err = repo.Get(ctx, "missing")
	assert.True(t, serrors.IsNotFound(err))

	all, err := repo.Query(ctx, persistence.Where(domain.FieldClientID, "app"))
	require.NoError(t, err)
	assert.Len(t, all, 3)

	users, err := repo.Query(ctx, persistence.Where(domain.FieldClientID, "app").And(domain.FieldUsername, ""))
	require.NoError(t, err)
	assert.Empty(t, users)

	n, err := repo.DeleteWhere(ctx, persistence.Where(domain.FieldRefreshTokenID, "r1"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	// undecodable document
	_, err = db.Collection(AccessTokensCollection).InsertOne(ctx, bson.D{{Key: "_id", Value: "bad"}, {Key: "token", Value: 42}})
	require.NoError(t, err)

	_, err = repo.Get(ctx, "bad")
	assert.True(t, serrors.IsCorrupt(err))

	all, err = repo.Query(ctx, persistence.All())
	require.NoError(t, err)
	assert.Len(t, all, 1)

	n, err = repo.DeleteWhere(ctx, persistence.Where(domain.FieldTokenID, "bad"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
