// Package service implements the account, social graph and conversation
// use cases on top of the data stores.
package service

import (
	"context"
	"time"

	"github.com/PaulBabatuyi/chatapp-rest/internal/apperr"
	"github.com/PaulBabatuyi/chatapp-rest/internal/data"
	"github.com/PaulBabatuyi/chatapp-rest/internal/normalize"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// UserStore is the persistence surface the services need for users.
type UserStore interface {
	CreateUser(ctx context.Context, user *data.User) (*data.User, error)
	UserExists(ctx context.Context, email string) (bool, error)
	GetUserByEmail(ctx context.Context, email string) (*data.User, error)
	GetUserByID(ctx context.Context, id bson.ObjectID) (*data.User, error)
	SetRefreshToken(ctx context.Context, id bson.ObjectID, token string) error
	FindByEmailSubstring(ctx context.Context, pattern string) ([]data.UserSummary, error)
	AddPendingFriend(ctx context.Context, ownerID bson.ObjectID, friendEmail string) (bool, error)
	AcceptFriend(ctx context.Context, ownerID bson.ObjectID, friendEmail string) (bool, error)
	EnsureAcceptedFriend(ctx context.Context, ownerID bson.ObjectID, friendEmail string) error
}

type ChatStore interface {
	CreateChat(ctx context.Context, a, b string) (bool, error)
}

type MessageStore interface {
	SaveMessage(ctx context.Context, from, to, text string) (*data.Message, error)
	GetMessages(ctx context.Context, a, b string) ([]*data.Message, error)
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	GenerateToken(userID bson.ObjectID, email string) (string, time.Time, error)
}

// Transactor runs fn atomically when the backing store supports it.
type Transactor interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

var (
	ErrUserExists         = apperr.Conflict("Email already registered")
	ErrInvalidCredentials = apperr.InvalidCredentials("Invalid email or password")
	ErrUserNotFound       = apperr.NotFound("User not found")
	ErrUnknownEmail       = apperr.Validation("User doesn't exist.")
	ErrPasswordTooLong    = apperr.Validation("Password must be at most 72 bytes long")
	ErrAlreadyPending     = apperr.Conflict("Friend request already pending")
	ErrAlreadyAccepted    = apperr.Conflict("Friend request already accepted")
	ErrSelfRequest        = apperr.Validation("Cannot send a friend request to yourself")
	ErrInvalidID          = apperr.Validation("Invalid id")
	ErrInvalidMembers     = apperr.Validation("membersId must contain exactly two ids")
	ErrInvalidMessage     = apperr.Validation("Message must be between 1 and 140 characters")
)

// MaxMessageLength is the longest message text accepted, in characters.
const MaxMessageLength = 140

// parseID turns a client supplied id, possibly JSON-quoted, into an ObjectID.
func parseID(raw string) (bson.ObjectID, error) {
	id, err := bson.ObjectIDFromHex(normalize.ID(raw))
	if err != nil {
		return bson.ObjectID{}, ErrInvalidID.Wrap(err)
	}
	return id, nil
}
