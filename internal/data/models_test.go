package data

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestPairKeyIsOrderIndependent(t *testing.T) {
	a := bson.NewObjectID().Hex()
	b := bson.NewObjectID().Hex()

	assert.Equal(t, PairKey(a, b), PairKey(b, a))
	assert.NotEqual(t, PairKey(a, a), PairKey(a, b))
}

func TestUserFindFriend(t *testing.T) {
	u := &User{Friends: []FriendEdge{
		{Username: "bob@example.com", Accepted: true},
		{Username: "carol@example.com"},
	}}

	edge, ok := u.FindFriend("bob@example.com")
	require.True(t, ok)
	assert.True(t, edge.Accepted)

	edge, ok = u.FindFriend("carol@example.com")
	require.True(t, ok)
	assert.False(t, edge.Accepted)

	_, ok = u.FindFriend("dave@example.com")
	assert.False(t, ok)
}

func TestUserJSONHidesSecrets(t *testing.T) {
	u := User{
		ID:           bson.NewObjectID(),
		Email:        "a@example.com",
		Password:     "$2a$10$hash",
		RefreshToken: "refresh",
		Friends:      []FriendEdge{},
	}

	raw, err := json.Marshal(u)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))

	assert.Equal(t, u.ID.Hex(), out["_id"])
	assert.NotContains(t, out, "password")
	assert.NotContains(t, out, "refresh")
	assert.NotContains(t, string(raw), "$2a$10$hash")
	assert.Equal(t, []any{}, out["friends"])
}
