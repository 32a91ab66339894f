package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"snapgram/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Connect dials MongoDB, retrying cfg.Retries times, and returns the client
// together with the configured database.
func Connect(cfg config.MongoConfig) (*mongo.Client, *mongo.Database, error) {
	retries := cfg.Retries
	if retries < 1 {
		retries = 1
	}
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	var lastErr error
	for i := 1; i <= retries; i++ {
		client, err := connectOnce(cfg.URI, timeout)
		if err == nil {
			log.Println("✅ MongoDB connected successfully")
			return client, client.Database(cfg.Database), nil
		}
		lastErr = err
		log.Printf("❌ MongoDB connection attempt %d failed: %v", i, err)
		if i < retries {
			time.Sleep(2 * time.Second)
		}
	}
	return nil, nil, fmt.Errorf("connect mongodb: %w", lastErr)
}

func connectOnce(uri string, timeout time.Duration) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

// EnsureIndexes creates the indexes the repositories rely on. Creating an
// index that already exists is a no-op.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		"users": {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "accountname", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		"posts": {
			{Keys: bson.D{{Key: "authorId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		"comments": {
			{Keys: bson.D{{Key: "postId", Value: 1}, {Key: "createdAt", Value: 1}}},
		},
		"images": {
			{Keys: bson.D{{Key: "filename", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		"push_subscriptions": {
			{Keys: bson.D{{Key: "endpoint", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "userId", Value: 1}}},
		},
	}

	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}

func Disconnect(client *mongo.Client) error {
	if client == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.Disconnect(ctx); err != nil {
		return err
	}

	log.Println("Disconnected from MongoDB")
	return nil
}
