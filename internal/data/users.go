// Package data provides DB models and stores.
package data

import (
	"context" // Used for cancellation and timeouts
	"errors"  // Error handling
	"fmt"     // Error wrapping
	"regexp"  // Quoting search patterns
	"time"    // Timestamps

	"github.com/PaulBabatuyi/chatapp-rest/internal/normalize"

	"go.mongodb.org/mongo-driver/v2/bson"          // MongoDB document queries
	"go.mongodb.org/mongo-driver/v2/mongo"         // MongoDB driver
	"go.mongodb.org/mongo-driver/v2/mongo/options" // Find/Count options
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("user already exists")
)

// UsersStore performs user DB operations.
type UsersStore struct {
	// coll is reference to "users" collection in MongoDB
	// Set via NewUsersStore() and used in all methods below
	coll *mongo.Collection
}

// NewUsersStore returns a UsersStore using the provided collection.
func NewUsersStore(coll *mongo.Collection) *UsersStore {
	return &UsersStore{coll: coll} // Store reference to MongoDB collection
}

// CreateUser inserts a new user document. Password must already be hashed.
func (u *UsersStore) CreateUser(ctx context.Context, user *User) (*User, error) {
	// BSON dates keep milliseconds only
	now := time.Now().UTC().Truncate(time.Millisecond)

	// Work on a copy so the caller's struct is left untouched
	doc := *user
	doc.ID = bson.ObjectID{}                // Let MongoDB assign the _id
	doc.Email = normalize.Email(user.Email) // Stored lowercase + trimmed
	doc.Friends = []FriendEdge{}            // New users start with no edges
	doc.CreatedAt = now                     // Set current server time
	doc.UpdatedAt = now                     // Initially same as CreatedAt

	// InsertOne adds the document to MongoDB "users" collection
	result, err := u.coll.InsertOne(ctx, &doc)
	if err != nil {
		// unique index on email rejects a concurrent duplicate signup
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateEmail
		}
		// Other database errors (connection, timeout, etc)
		return nil, err
	}

	// MongoDB auto-generates the _id field; extract it and set on the copy
	doc.ID = result.InsertedID.(bson.ObjectID)

	// Return the created user with ID populated
	return &doc, nil
}

// GetUserByEmail finds a user by email.
func (u *UsersStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	// Emails are stored normalized, so normalize the lookup key too
	return u.findOne(ctx, bson.M{"email": normalize.Email(email)})
}

// GetUserByID finds a user by ObjectID.
func (u *UsersStore) GetUserByID(ctx context.Context, id bson.ObjectID) (*User, error) {
	return u.findOne(ctx, bson.M{"_id": id})
}

func (u *UsersStore) findOne(ctx context.Context, filter bson.M) (*User, error) {
	// Initialize empty User struct to hold query result
	var user User

	// FindOne queries the collection for the first matching document
	err := u.coll.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		// No document found (user doesn't exist)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		// Other database errors
		return nil, err
	}

	// Documents written before friends existed decode as nil; clients expect []
	if user.Friends == nil {
		user.Friends = []FriendEdge{}
	}
	return &user, nil
}

// UserExists checks if a user exists by email.
func (u *UsersStore) UserExists(ctx context.Context, email string) (bool, error) {
	// CountDocuments with limit 1 is enough to answer existence
	count, err := u.coll.CountDocuments(ctx, bson.M{"email": normalize.Email(email)}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// SetRefreshToken stores a new refresh token on the user.
func (u *UsersStore) SetRefreshToken(ctx context.Context, id bson.ObjectID, token string) error {
	// $set replaces the previous token; only the latest login's token is kept
	res, err := u.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"refresh": token, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return err // Database error
	}
	// Nothing matched: the user was deleted in the meantime
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// FindByEmailSubstring returns summaries of users whose email contains
// pattern. The pattern is matched literally, not as a regular expression.
func (u *UsersStore) FindByEmailSubstring(ctx context.Context, pattern string) ([]UserSummary, error) {
	// Unanchored regex = substring match; QuoteMeta makes "." or "+" literal
	filter := bson.M{"email": bson.Regex{Pattern: regexp.QuoteMeta(normalize.Email(pattern))}}

	// Only public fields leave the database; sort for a stable listing
	opts := options.Find().
		SetProjection(bson.M{"_id": 0, "email": 1, "username": 1, "info": 1, "age": 1}).
		SetSort(bson.D{{Key: "email", Value: 1}})

	// Execute the query; Find returns a cursor to iterate results
	cursor, err := u.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err // Database error
	}
	// Ensure cursor is closed when done (cleanup)
	defer cursor.Close(ctx)

	// Non-nil so no matches encodes as []
	users := []UserSummary{}

	// All() reads all documents from cursor and decodes into users slice
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err // Error decoding documents
	}
	return users, nil
}

// AddPendingFriend appends {friendEmail, accepted:false} to owner's friend
// list unless an edge for friendEmail already exists. The check and the push
// are one atomic update, so concurrent requests cannot add two edges. It
// reports whether the edge was added.
func (u *UsersStore) AddPendingFriend(ctx context.Context, ownerID bson.ObjectID, friendEmail string) (bool, error) {
	return u.pushFriend(ctx, ownerID, FriendEdge{Username: normalize.Email(friendEmail), Accepted: false})
}

// AcceptFriend marks owner's edge for friendEmail as accepted. It reports
// whether such an edge existed.
func (u *UsersStore) AcceptFriend(ctx context.Context, ownerID bson.ObjectID, friendEmail string) (bool, error) {
	// Match the owner only if it holds an edge for friendEmail;
	// the positional $ then points at that edge
	res, err := u.coll.UpdateOne(ctx,
		bson.M{"_id": ownerID, "friends.username": normalize.Email(friendEmail)},
		bson.M{"$set": bson.M{"friends.$.accepted": true, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return false, fmt.Errorf("accept friend edge: %w", err)
	}
	// MatchedCount (not ModifiedCount): an already accepted edge still counts
	return res.MatchedCount > 0, nil
}

// EnsureAcceptedFriend leaves owner with exactly one accepted edge for
// friendEmail: an existing edge is flipped, otherwise a new one is appended.
func (u *UsersStore) EnsureAcceptedFriend(ctx context.Context, ownerID bson.ObjectID, friendEmail string) error {
	email := normalize.Email(friendEmail)

	// two rounds: a concurrent writer may add the edge between accept and push
	for range 2 {
		accepted, err := u.AcceptFriend(ctx, ownerID, email)
		if err != nil {
			return err
		}
		if accepted {
			return nil
		}

		added, err := u.pushFriend(ctx, ownerID, FriendEdge{Username: email, Accepted: true})
		if err != nil {
			return err
		}
		if added {
			return nil
		}
	}

	// Both rounds lost: tell a missing owner apart from a persistent race
	exists, err := u.coll.CountDocuments(ctx, bson.M{"_id": ownerID}, options.Count().SetLimit(1))
	if err != nil {
		return err
	}
	if exists == 0 {
		return ErrUserNotFound
	}
	return fmt.Errorf("could not settle friend edge for %s", email)
}

func (u *UsersStore) pushFriend(ctx context.Context, ownerID bson.ObjectID, edge FriendEdge) (bool, error) {
	// The $ne guard makes check-and-push a single atomic document update
	res, err := u.coll.UpdateOne(ctx,
		bson.M{"_id": ownerID, "friends.username": bson.M{"$ne": edge.Username}},
		bson.M{
			"$push": bson.M{"friends": edge},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return false, fmt.Errorf("push friend edge: %w", err)
	}
	// No match: owner missing or edge already present
	return res.MatchedCount > 0, nil
}
