// internal/database/mongodb.go
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoKV stores each collection as one document in the "kv" collection.
type MongoKV struct {
	Client *mongo.Client
	KV     *mongo.Collection
}

type kvDocument struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func NewMongoKV(ctx context.Context, uri string, database string) (*MongoKV, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %v", err)
	}

	// Ping the database to verify connection
	if err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %v", err)
	}

	log.WithField("database", database).Info("Successfully connected to MongoDB!")

	return &MongoKV{
		Client: client,
		KV:     client.Database(database).Collection("kv"),
	}, nil
}

func (m *MongoKV) Load(ctx context.Context, key string) ([]byte, error) {
	var doc kvDocument
	err := m.KV.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s from MongoDB: %w", key, err)
	}
	return []byte(doc.Value), nil
}

func (m *MongoKV) Save(ctx context.Context, key string, value []byte) error {
	update := bson.M{
		"$set": bson.M{
			"value":     string(value),
			"updatedAt": time.Now().UTC(),
		},
	}
	_, err := m.KV.UpdateOne(ctx, bson.M{"_id": key}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save %s to MongoDB: %w", key, err)
	}
	return nil
}

func (m *MongoKV) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}
