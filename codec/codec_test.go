package codec

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.pilab.hu/tokenstore/domain"
)

func TestByName(t *testing.T) {
	c, err := ByName("")
	require.NoError(t, err)
	assert.Equal(t, NameJSON, c.Name())

	c, err = ByName("bson")
	require.NoError(t, err)
	assert.Equal(t, NameBSON, c.Name())

	_, err = ByName("gob")
	assert.Error(t, err)
}

func TestCodecs_Authentication(t *testing.T) {
	auth := &domain.Authentication{
		Request: domain.OAuth2Request{ClientID: "app", Scope: []string{"read"}, Approved: true},
		User:    &domain.UserAuthentication{Name: "alice", Authenticated: true},
	}

	for _, c := range []Codec{JSON, BSON} {
		t.Run(c.Name(), func(t *testing.T) {
			data, err := c.Marshal(auth)
			require.NoError(t, err)

			var got domain.Authentication
			require.NoError(t, c.Unmarshal(data, &got))
			assert.Equal(t, auth.Request.ClientID, got.Request.ClientID)
			assert.Equal(t, auth.Request.Scope, got.Request.Scope)
			require.NotNil(t, got.User)
			assert.Equal(t, "alice", got.User.Name)
		})
	}
}

func TestCodecs_TokenExpiration(t *testing.T) {
	exp := time.Date(2031, 5, 1, 12, 0, 0, 0, time.UTC)
	tok := &domain.AccessToken{Value: "tok-1", Expiration: exp}

	for _, c := range []Codec{JSON, BSON} {
		t.Run(c.Name(), func(t *testing.T) {
			data, err := c.Marshal(tok)
			require.NoError(t, err)

			var got domain.AccessToken
			require.NoError(t, c.Unmarshal(data, &got))
			assert.Equal(t, "tok-1", got.Value)
			assert.True(t, exp.Equal(got.Expiration))
		})
	}
}

func TestCodecs_RejectGarbage(t *testing.T) {
	for _, c := range []Codec{JSON, BSON} {
		var got domain.AccessToken
		assert.Error(t, c.Unmarshal([]byte("not a blob"), &got), c.Name())
	}
}

func TestJSON_KeepsIntegers(t *testing.T) {
	tok := &domain.AccessToken{
		Value:                 "tok-1",
		AdditionalInformation: map[string]any{"n": 5, "big": int64(1) << 60},
	}

	data, err := JSON.Marshal(tok)
	require.NoError(t, err)

	var got domain.AccessToken
	require.NoError(t, JSON.Unmarshal(data, &got))

	require.IsType(t, json.Number(""), got.AdditionalInformation["n"])
	n, err := got.AdditionalInformation["n"].(json.Number).Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	big, err := got.AdditionalInformation["big"].(json.Number).Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(1)<<60, big)
}

func TestJSON_RejectsTrailingData(t *testing.T) {
	var got domain.AccessToken
	assert.Error(t, JSON.Unmarshal([]byte(`{"value":"tok-1"} {}`), &got))
	assert.NoError(t, JSON.Unmarshal([]byte(`{"value":"tok-1"}`+"\n"), &got))
}
