package tokenstore_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"go.pilab.hu/tokenstore"
	"go.pilab.hu/tokenstore/codec"
	"go.pilab.hu/tokenstore/domain"
	serrors "go.pilab.hu/tokenstore/errors"
	"go.pilab.hu/tokenstore/mocks/mock_tokenstore"
)

type driverError struct{}

func (driverError) Error() string { return "connection reset by peer" }

var errDown = serrors.Unavailable("mongodb.Query", driverError{})

func newMockStore(t *testing.T) (*tokenstore.Store, *mock_tokenstore.MockAccessTokenRepository, *mock_tokenstore.MockRefreshTokenRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	access := mock_tokenstore.NewMockAccessTokenRepository(ctrl)
	refresh := mock_tokenstore.NewMockRefreshTokenRepository(ctrl)
	return tokenstore.New(access, refresh), access, refresh
}

func encodedRecord(t *testing.T, value string, auth *domain.Authentication) *domain.AccessTokenRecord {
	t.Helper()
	tokenBlob, err := codec.JSON.Marshal(accessToken(value, ""))
	require.NoError(t, err)
	authBlob, err := codec.JSON.Marshal(auth)
	require.NoError(t, err)

	return &domain.AccessTokenRecord{
		TokenRecord: domain.TokenRecord{
			TokenID:        tokenstore.HashToken(value),
			Token:          tokenBlob,
			Authentication: authBlob,
		},
		AuthenticationID: tokenstore.DefaultAuthenticationKeyGenerator{}.ExtractKey(auth),
		ClientID:         auth.ClientID(),
		Username:         auth.Username(),
	}
}

func TestStore_GetAccessTokenStorageFailure(t *testing.T) {
	store, access, _ := newMockStore(t)
	access.EXPECT().FindByAuthenticationID(gomock.Any(), gomock.Any()).Return(nil, errDown)

	_, ok := store.GetAccessToken(context.Background(), userAuthentication("app", "alice"))
	assert.False(t, ok)
}

func TestStore_ReadAccessTokenStorageFailure(t *testing.T) {
	store, access, _ := newMockStore(t)
	access.EXPECT().FindByTokenID(gomock.Any(), tokenstore.HashToken("tok-1")).Return(nil, errDown)

	// no self-heal delete on a storage failure
	_, ok := store.ReadAccessToken(context.Background(), "tok-1")
	assert.False(t, ok)
}

func TestStore_ReadAccessTokenCorruptEnvelope(t *testing.T) {
	store, access, _ := newMockStore(t)
	id := tokenstore.HashToken("tok-1")

	gomock.InOrder(
		access.EXPECT().FindByTokenID(gomock.Any(), id).
			Return(nil, serrors.Corrupt("boltdb.Get", errors.New("invalid character"))),
		access.EXPECT().DeleteByTokenID(gomock.Any(), id).Return(int64(1), nil),
	)

	_, ok := store.ReadAccessToken(context.Background(), "tok-1")
	assert.False(t, ok)
}

func TestStore_ReadRefreshTokenNotFound(t *testing.T) {
	store, _, refresh := newMockStore(t)
	refresh.EXPECT().FindByTokenID(gomock.Any(), tokenstore.HashToken("ref-1")).
		Return(nil, serrors.NotFound("memory.Get", "no entity"))

	_, ok := store.ReadRefreshToken(context.Background(), "ref-1")
	assert.False(t, ok)
}

func TestStore_StoreAccessTokenDeleteFails(t *testing.T) {
	store, access, _ := newMockStore(t)
	access.EXPECT().DeleteByTokenID(gomock.Any(), tokenstore.HashToken("tok-1")).Return(int64(0), errDown)

	err := store.StoreAccessToken(context.Background(), accessToken("tok-1", ""), userAuthentication("app", "alice"))
	require.Error(t, err)
	assert.ErrorIs(t, err, tokenstore.ErrUnavailable)

	var de driverError
	assert.False(t, errors.As(err, &de), "driver error must not leak")
}

func TestStore_StoreAccessTokenSaveFails(t *testing.T) {
	store, access, _ := newMockStore(t)
	gomock.InOrder(
		access.EXPECT().DeleteByTokenID(gomock.Any(), gomock.Any()).Return(int64(0), nil),
		access.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errDown),
	)

	err := store.StoreAccessToken(context.Background(), accessToken("tok-1", ""), userAuthentication("app", "alice"))
	assert.ErrorIs(t, err, tokenstore.ErrUnavailable)
	assert.Equal(t, serrors.KindUnavailable, serrors.KindOf(err))
}

func TestStore_StoreRefreshTokenSaveFails(t *testing.T) {
	store, _, refresh := newMockStore(t)
	refresh.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errDown)

	err := store.StoreRefreshToken(context.Background(), &domain.RefreshToken{Value: "ref-1"}, userAuthentication("app", "alice"))
	assert.ErrorIs(t, err, tokenstore.ErrUnavailable)
}

func TestStore_RemoveFailures(t *testing.T) {
	ctx := context.Background()
	store, access, refresh := newMockStore(t)

	access.EXPECT().DeleteByTokenID(gomock.Any(), gomock.Any()).Return(int64(0), errDown)
	access.EXPECT().DeleteByRefreshTokenID(gomock.Any(), tokenstore.HashToken("ref-1")).Return(int64(0), errDown)
	refresh.EXPECT().DeleteByTokenID(gomock.Any(), gomock.Any()).Return(int64(0), errDown)

	assert.ErrorIs(t, store.RemoveAccessToken(ctx, "tok-1"), tokenstore.ErrUnavailable)
	assert.ErrorIs(t, store.RemoveAccessTokenUsingRefreshToken(ctx, "ref-1"), tokenstore.ErrUnavailable)
	assert.ErrorIs(t, store.RemoveRefreshToken(ctx, "ref-1"), tokenstore.ErrUnavailable)
}

func TestStore_BulkReadFailures(t *testing.T) {
	ctx := context.Background()
	store, access, refresh := newMockStore(t)

	access.EXPECT().FindByClientID(gomock.Any(), "app").Return(nil, errDown)
	access.EXPECT().FindByUsernameAndClientID(gomock.Any(), "alice", "app").Return(nil, errDown)
	access.EXPECT().FindAll(gomock.Any()).Return(nil, errDown)
	refresh.EXPECT().FindAll(gomock.Any()).Return(nil, errDown)

	assert.Empty(t, store.FindTokensByClientID(ctx, "app"))
	assert.Empty(t, store.FindTokensByClientIDAndUserName(ctx, "app", "alice"))
	assert.Empty(t, store.FindAllAccessTokens(ctx))
	assert.Empty(t, store.FindAllRefreshTokens(ctx))
}

func TestStore_BulkReadSkipsNilRecords(t *testing.T) {
	store, access, _ := newMockStore(t)
	alice := userAuthentication("app", "alice")

	access.EXPECT().FindByClientID(gomock.Any(), "app").
		Return([]*domain.AccessTokenRecord{nil, encodedRecord(t, "tok-1", alice), nil}, nil)

	assert.Equal(t, []string{"tok-1"}, values(store.FindTokensByClientID(context.Background(), "app")))
}

func TestStore_ReconciliationStoreFailureStillReturnsToken(t *testing.T) {
	store, access, _ := newMockStore(t)
	alice := userAuthentication("app", "alice")

	rec := encodedRecord(t, "tok-1", userAuthentication("app", "mallory"))
	rec.AuthenticationID = tokenstore.DefaultAuthenticationKeyGenerator{}.ExtractKey(alice)

	access.EXPECT().FindByAuthenticationID(gomock.Any(), rec.AuthenticationID).Return(rec, nil)
	access.EXPECT().DeleteByTokenID(gomock.Any(), rec.TokenID).Return(int64(1), nil).Times(2)
	access.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errDown)

	got, ok := store.GetAccessToken(context.Background(), alice)
	require.True(t, ok)
	assert.Equal(t, "tok-1", got.Value)
}

func TestStore_ReconciliationSavesFreshLinkage(t *testing.T) {
	store, access, _ := newMockStore(t)
	alice := userAuthentication("app", "alice")

	rec := encodedRecord(t, "tok-1", userAuthentication("app", "mallory"))
	rec.AuthenticationID = tokenstore.DefaultAuthenticationKeyGenerator{}.ExtractKey(alice)

	access.EXPECT().FindByAuthenticationID(gomock.Any(), rec.AuthenticationID).Return(rec, nil)
	access.EXPECT().DeleteByTokenID(gomock.Any(), rec.TokenID).Return(int64(1), nil).Times(2)
	access.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, saved *domain.AccessTokenRecord) error {
			assert.Equal(t, rec.TokenID, saved.TokenID)
			assert.Equal(t, rec.AuthenticationID, saved.AuthenticationID)
			assert.Equal(t, "alice", saved.Username)
			return nil
		})

	_, ok := store.GetAccessToken(context.Background(), alice)
	assert.True(t, ok)
}
