package data

import (
	"context" // Used for cancellation and timeouts
	"time"    // Timestamps

	"go.mongodb.org/mongo-driver/v2/bson"          // MongoDB document queries
	"go.mongodb.org/mongo-driver/v2/mongo"         // MongoDB driver
	"go.mongodb.org/mongo-driver/v2/mongo/options" // Upsert option
)

// ChatsStore provides chat database operations.
type ChatsStore struct {
	// coll is reference to "chats" collection in MongoDB
	coll *mongo.Collection
}

// NewChatsStore returns a ChatsStore using given collection.
func NewChatsStore(coll *mongo.Collection) *ChatsStore {
	return &ChatsStore{coll: coll} // Store reference to MongoDB collection
}

// CreateChat makes sure a chat exists for the unordered pair (a, b). It
// reports whether this call created it.
func (s *ChatsStore) CreateChat(ctx context.Context, a, b string) (bool, error) {
	// Same key for (a, b) and (b, a)
	key := PairKey(a, b)

	// the equality filter seeds pair_key on insert; $setOnInsert leaves an
	// existing chat untouched and the unique index turns a lost upsert race
	// into a duplicate key error
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"pair_key": key},
		bson.M{"$setOnInsert": bson.M{
			"membersId":  []string{a, b},   // Order of the first request
			"messagesId": []string{},       // Empty, never null
			"created_at": time.Now().UTC(), // Server-side creation time
		}},
		options.UpdateOne().SetUpsert(true), // Insert when no chat matches
	)
	if err != nil {
		// Another request created the chat first; that is still success
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, err // Other database errors
	}

	// UpsertedCount is 1 only when this call inserted the document
	return res.UpsertedCount > 0, nil
}
