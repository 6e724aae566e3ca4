package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type entity map[string]string

func (e entity) EntityID() string { return e["id"] }

func (e entity) FieldValue(field string) (string, bool) {
	v, ok := e[field]
	return v, ok
}

func TestFilter_Matches(t *testing.T) {
	e := entity{"id": "1", "client_id": "app", "username": "alice"}

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"empty filter", All(), true},
		{"single match", Where("client_id", "app"), true},
		{"conjunction", Where("client_id", "app").And("username", "alice"), true},
		{"one condition fails", Where("client_id", "app").And("username", "bob"), false},
		{"case sensitive", Where("client_id", "APP"), false},
		{"absent field", Where("refresh_token_id", ""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(e))
		})
	}
}

func TestFilter_AndDoesNotAlias(t *testing.T) {
	base := Where("client_id", "app")
	a := base.And("username", "alice")
	b := base.And("username", "bob")

	assert.Len(t, base.Conditions, 1)
	assert.Equal(t, "alice", a.Conditions[1].Value)
	assert.Equal(t, "bob", b.Conditions[1].Value)
	assert.True(t, All().IsEmpty())
	assert.False(t, base.IsEmpty())
}

func TestFilter_ID(t *testing.T) {
	id, ok := Where(FieldID, "abc").ID()
	assert.True(t, ok)
	assert.Equal(t, "abc", id)

	_, ok = Where(FieldID, "abc").And("client_id", "app").ID()
	assert.False(t, ok)

	_, ok = Where("client_id", "app").ID()
	assert.False(t, ok)

	_, ok = All().ID()
	assert.False(t, ok)
}
