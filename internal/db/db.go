// Package db manages MongoDB connections and collections.
package db

import (
	"context" // For connection timeout/cancellation
	"fmt"     // Error formatting
	"time"    // Duration for timeouts

	"go.mongodb.org/mongo-driver/v2/bson"           // Index key documents
	"go.mongodb.org/mongo-driver/v2/mongo"          // MongoDB driver
	"go.mongodb.org/mongo-driver/v2/mongo/options"  // MongoDB options
	"go.mongodb.org/mongo-driver/v2/mongo/readpref" // MongoDB read preference
)

// Collection names.
const (
	UsersCollectionName    = "users"
	ChatsCollectionName    = "chats"
	MessagesCollectionName = "messages"
)

// Options tunes a Client.
type Options struct {
	Database       string
	ConnectTimeout time.Duration
	// Transactions makes RunInTransaction use multi-document transactions.
	// Standalone servers do not support them.
	Transactions bool
}

// Client wraps mongo.Client and exposes collections.
type Client struct {
	// client is the underlying MongoDB connection (safe for concurrent use)
	client *mongo.Client

	// db is the application database; "users", "chats" and "messages"
	// are accessed through it
	db *mongo.Database

	// transactions is copied from Options.Transactions
	transactions bool
}

// New connects to MongoDB and returns a Client.
func New(ctx context.Context, mongoURI string, o Options) (*Client, error) {
	// Fill in defaults for anything the caller left empty
	if o.Database == "" {
		o.Database = "chat_db"
	}
	if o.ConnectTimeout <= 0 {
		o.ConnectTimeout = 10 * time.Second
	}

	// Create MongoDB client options from connection URI
	opts := options.Client().
		ApplyURI(mongoURI).                 // Parse connection string
		SetConnectTimeout(o.ConnectTimeout) // Max time to connect

	// Connect only creates the client; the ping below is the real check
	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Bound the ping so an unreachable server fails fast
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel() // Release the timer

	// Ping MongoDB to verify connection is working
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background()) // Drop the half-open pool
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	// Return wrapped client; the database is created lazily on first write
	return &Client{
		client:       client,                      // Keep reference to close connection later
		db:           client.Database(o.Database), // Use this to access collections
		transactions: o.Transactions,
	}, nil
}

// UsersCollection returns the users collection.
func (c *Client) UsersCollection() *mongo.Collection {
	// Created if it doesn't exist (MongoDB creates on first write)
	return c.db.Collection(UsersCollectionName)
}

// ChatsCollection returns the chats collection.
func (c *Client) ChatsCollection() *mongo.Collection {
	// One document per unordered member pair
	return c.db.Collection(ChatsCollectionName)
}

// MessagesCollection returns the messages collection.
func (c *Client) MessagesCollection() *mongo.Collection {
	// Created if it doesn't exist (MongoDB creates on first write)
	return c.db.Collection(MessagesCollectionName)
}

// Ping checks that the primary is reachable.
func (c *Client) Ping(ctx context.Context) error {
	// Used by /healthz; ctx carries the probe timeout
	return c.client.Ping(ctx, readpref.Primary())
}

// Close disconnects from MongoDB.
func (c *Client) Close(ctx context.Context) error {
	// ctx can carry a timeout to force shutdown after N seconds
	return c.client.Disconnect(ctx)
}

// RunInTransaction runs fn inside a multi-document transaction when
// transactions are enabled. Otherwise fn runs directly and each write is
// atomic only for its own document.
func (c *Client) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	// Standalone servers reject transactions, so they are opt-in
	if !c.transactions {
		return fn(ctx)
	}

	// A session scopes the transaction
	session, err := c.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx) // Aborts anything left open

	// WithTransaction commits on success and retries fn on transient errors
	_, err = session.WithTransaction(ctx, func(ctx context.Context) (interface{}, error) {
		return nil, fn(ctx) // ctx here is bound to the session
	})
	return err
}

// CreateIndexes creates necessary indexes for users, chats and messages.
func (c *Client) CreateIndexes(ctx context.Context) error {
	// ===== USERS COLLECTION INDEX =====
	// Unique email: prevents duplicate registration even under concurrent signups
	// Used by: GetUserByEmail(), UserExists()
	usersIndexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}}, // 1 = ascending order
		Options: options.Index().SetUnique(true),  // Reject a second document with the same email
	}

	// Create the index (no-op if it already exists)
	if _, err := c.UsersCollection().Indexes().CreateOne(ctx, usersIndexModel); err != nil {
		return fmt.Errorf("failed to create users index: %w", err)
	}

	// ===== CHATS COLLECTION INDEX =====
	// Unique unordered member pair: one chat per two users
	// Used by: ChatsStore.CreateChat() upsert
	chatsIndexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "pair_key", Value: 1}},
		Options: options.Index().SetUnique(true), // A lost upsert race surfaces as a duplicate key
	}

	if _, err := c.ChatsCollection().Indexes().CreateOne(ctx, chatsIndexModel); err != nil {
		return fmt.Errorf("failed to create chats index: %w", err)
	}

	// ===== MESSAGES COLLECTION INDEXES =====
	messageIndexes := []mongo.IndexModel{
		{
			// Serves GetMessages(): both members filtered, ascending time
			Keys: bson.D{{Key: "from", Value: 1}, {Key: "to", Value: 1}, {Key: "created_at", Value: 1}},
		},
		{
			// Time-ordered scans across all conversations
			Keys: bson.D{{Key: "created_at", Value: 1}},
		},
	}

	// CreateMany builds both indexes in one round trip
	if _, err := c.MessagesCollection().Indexes().CreateMany(ctx, messageIndexes); err != nil {
		return fmt.Errorf("failed to create message indexes: %w", err)
	}

	return nil
}
