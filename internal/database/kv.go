package database

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"hemp-commons/internal/config"
)

var log = logrus.WithField("component", "database")

// KVStore is the durable namespace behind the data store. Each key holds one
// JSON-encoded collection.
type KVStore interface {
	// Load returns nil, nil when the key has never been saved.
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
	Close(ctx context.Context) error
}

// Open builds the backend selected by cfg.
func Open(ctx context.Context, cfg *config.StorageConfig) (KVStore, error) {
	if cfg == nil {
		cfg = config.DefaultStorageConfig()
	}
	log.WithField("backend", cfg.Backend).Info("opening key-value store")

	switch cfg.Backend {
	case config.BackendMemory, "":
		return NewMemoryKV(), nil
	case config.BackendFile:
		return NewFileKV(cfg.FilePath)
	case config.BackendMongo:
		return NewMongoKV(ctx, cfg.MongoURI, cfg.MongoDatabase)
	case config.BackendPostgres:
		kv, err := NewPostgresKV(cfg.PostgresURI)
		if err != nil {
			return nil, err
		}
		if err := kv.InitializeTables(ctx); err != nil {
			closeAfterFailure(ctx, kv)
			return nil, err
		}
		return kv, nil
	case config.BackendDynamo:
		return NewDynamoKV(ctx, cfg.DynamoTable)
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.Backend)
	}
}

// closeAfterFailure releases a backend whose setup failed. The close error is
// logged so the setup error stays the one returned.
func closeAfterFailure(ctx context.Context, kv KVStore) {
	if err := kv.Close(ctx); err != nil {
		log.WithError(err).Warn("Failed to close storage after setup error")
	}
}
