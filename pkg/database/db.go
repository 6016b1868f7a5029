// Package database opens the MongoDB record store.
package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names.
const (
	Products = "products"
	Orders   = "orders"
	Users    = "users"
)

// Mongo holds the connected client and the selected database.
type Mongo struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// Connect opens the client, verifies it with a ping and selects dbName.
// Returns an error instead of calling log.Fatal so the caller can
// shut down gracefully.
func Connect(ctx context.Context, uri, dbName string) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Client().ApplyURI(uri).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(25).
		SetMaxConnIdleTime(2 * time.Minute)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("database: connect: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("database: ping: %w", err)
	}

	return &Mongo{Client: client, DB: client.Database(dbName)}, nil
}

// Ping reports whether the primary is reachable.
func (m *Mongo) Ping(ctx context.Context) error {
	return m.Client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (m *Mongo) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}

// EnsureIndexes creates the lookup indexes used by the resolvers. Username
// is indexed but not unique: uniqueness is left to whoever owns the data.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	indexes := map[string]mongo.IndexModel{
		Users: {
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetName("username_1"),
		},
		Orders: {
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetName("userId_1"),
		},
	}

	for coll, model := range indexes {
		if _, err := m.DB.Collection(coll).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("database: index %s: %w", coll, err)
		}
	}
	return nil
}
