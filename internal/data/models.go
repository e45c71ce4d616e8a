package data

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User maps to the users collection. Password and refresh token never leave
// the server.
type User struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	Email        string        `bson:"email" json:"email"`
	Password     string        `bson:"password" json:"-"`
	Username     string        `bson:"username" json:"username"`
	Info         string        `bson:"info" json:"info"`
	Age          int           `bson:"age" json:"age"`
	RefreshToken string        `bson:"refresh,omitempty" json:"-"`
	Friends      []FriendEdge  `bson:"friends" json:"friends"`
	CreatedAt    time.Time     `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time     `bson:"updated_at" json:"updatedAt"`
}

// FriendEdge is one user's view of a relationship, keyed by the other
// party's email.
type FriendEdge struct {
	Username string `bson:"username" json:"username"`
	Accepted bool   `bson:"accepted" json:"accepted"`
}

// FindFriend returns the edge pointing at email, if any.
func (u *User) FindFriend(email string) (FriendEdge, bool) {
	for _, f := range u.Friends {
		if f.Username == email {
			return f, true
		}
	}
	return FriendEdge{}, false
}

// UserSummary is the public projection returned by user search.
type UserSummary struct {
	Email    string `bson:"email" json:"email"`
	Username string `bson:"username" json:"username"`
	Info     string `bson:"info" json:"info"`
	Age      int    `bson:"age" json:"age"`
}

// Chat maps to the chats collection; one document per unordered member pair.
type Chat struct {
	ID         bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	MembersID  []string      `bson:"membersId" json:"membersId"`
	MessagesID []string      `bson:"messagesId" json:"messagesId"`
	PairKey    string        `bson:"pair_key" json:"-"`
	CreatedAt  time.Time     `bson:"created_at" json:"createdAt"`
}

// PairKey identifies an unordered pair of member ids.
func PairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + ":" + b
}

// Message maps to the messages collection (sender, recipient, text).
type Message struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	From      string        `bson:"from" json:"from"`
	To        string        `bson:"to" json:"to"`
	Message   string        `bson:"message" json:"message"`
	CreatedAt time.Time     `bson:"created_at" json:"createdAt"`
}
