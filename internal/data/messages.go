package data

import (
	"context" // Used for cancellation and timeouts
	"time"    // Timestamps

	"go.mongodb.org/mongo-driver/v2/bson"          // MongoDB document queries
	"go.mongodb.org/mongo-driver/v2/mongo"         // MongoDB driver
	"go.mongodb.org/mongo-driver/v2/mongo/options" // Find options (sort)
)

// MessagesStore provides message database operations.
type MessagesStore struct {
	// coll is reference to "messages" collection in MongoDB
	// Set via NewMessagesStore() and used in all methods below
	coll *mongo.Collection
}

// NewMessagesStore returns a MessagesStore using given collection.
func NewMessagesStore(coll *mongo.Collection) *MessagesStore {
	return &MessagesStore{coll: coll} // Store reference to MongoDB collection
}

// SaveMessage inserts a message document and returns the saved record.
func (m *MessagesStore) SaveMessage(ctx context.Context, from, to, text string) (*Message, error) {
	// Create Message struct matching the domain model in models.go
	msg := &Message{
		From:    from, // Sender user id (hex)
		To:      to,   // Recipient user id (hex)
		Message: text, // Already trimmed and escaped by the service
		// BSON dates carry milliseconds; truncate so the returned value
		// matches what a later read yields
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}

	// InsertOne adds the message document to MongoDB collection
	result, err := m.coll.InsertOne(ctx, msg)
	if err != nil {
		return nil, err // Database error (connection, timeout, etc)
	}

	// Extract MongoDB's auto-generated _id and populate in struct
	msg.ID = result.InsertedID.(bson.ObjectID)

	// Return the saved message with ID; handler writes it back to the client
	return msg, nil
}

// GetMessages returns every message exchanged between a and b, in either
// direction, oldest first.
func (m *MessagesStore) GetMessages(ctx context.Context, a, b string) ([]*Message, error) {
	// Both sender and recipient must be one of the pair, which covers
	// both directions in a single filter
	members := bson.A{a, b}
	filter := bson.M{
		"from": bson.M{"$in": members},
		"to":   bson.M{"$in": members},
	}

	// Sort ascending by creation time (oldest first);
	// _id breaks ties between messages created in the same millisecond
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})

	// Execute the query; Find returns a cursor to iterate results
	cursor, err := m.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err // Database error
	}
	// Ensure cursor is closed when done (cleanup)
	defer cursor.Close(ctx)

	// Non-nil so an empty history encodes as [] rather than null
	messages := []*Message{}

	// All() reads all documents from cursor and decodes into messages slice
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, err // Error decoding documents
	}

	// Already chronological; no reversal needed
	return messages, nil
}
