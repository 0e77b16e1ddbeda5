// Package mongo owns the document store connection lifecycle: connect with a
// ping at startup, index bootstrap, health checks and disconnect on shutdown.
package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"gesclient/internal/platform/config"
)

// Collection names.
const (
	CollectionClient       = "client"
	CollectionNumeroClient = "numeroClient"
	CollectionDemande      = "demande"
	CollectionLog          = "log"
)

// Client wraps the driver client together with the application database.
type Client struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect dials the store and verifies it answers a primary ping.
func Connect(ctx context.Context, cfg config.MongoConfig) (*Client, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(cfg.Timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping failed: %w", err)
	}

	return &Client{client: client, db: client.Database(cfg.Database)}, nil
}

// Database returns the application database handle injected into stores.
func (c *Client) Database() *mongo.Database {
	return c.db
}

// Health pings the primary.
func (c *Client) Health(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

// Close disconnects from the store.
func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

// EnsureIndexes creates the unique and ordering indexes the stores rely on.
// The unique indexes back the create-time uniqueness checks, which are not
// atomic on their own.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		CollectionClient: {
			{Keys: bson.D{{Key: "cni", Value: 1}}, Options: options.Index().SetUnique(true).SetName("client_cni_key")},
		},
		CollectionNumeroClient: {
			{Keys: bson.D{{Key: "phoneNumber", Value: 1}}, Options: options.Index().SetUnique(true).SetName("numeroClient_phoneNumber_key")},
			{Keys: bson.D{{Key: "cni", Value: 1}}, Options: options.Index().SetUnique(true).SetName("numeroClient_cni_key")},
			{Keys: bson.D{{Key: "clientId", Value: 1}}, Options: options.Index().SetName("numeroClient_clientId_idx")},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}, Options: options.Index().SetName("numeroClient_createdAt_idx")},
		},
		CollectionDemande: {
			{Keys: bson.D{{Key: "account", Value: 1}, {Key: "date", Value: -1}}, Options: options.Index().SetName("demande_account_date_idx")},
		},
		CollectionLog: {
			{Keys: bson.D{{Key: "demandeId", Value: 1}}, Options: options.Index().SetName("log_demandeId_idx")},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}, Options: options.Index().SetName("log_createdAt_idx")},
		},
	}

	for coll, models := range specs {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}
