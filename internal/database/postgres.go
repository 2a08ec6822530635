// internal/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const kvStoreSchema = `
	CREATE TABLE IF NOT EXISTS kv_store (
		key TEXT PRIMARY KEY,
		value JSONB NOT NULL,
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)
`

// PostgresKV keeps collections in a single kv_store table.
type PostgresKV struct {
	DB *sqlx.DB
}

// NewPostgresKV creates a new PostgreSQL database connection
func NewPostgresKV(connectionString string) (*PostgresKV, error) {
	db, err := sqlx.Connect("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %v", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping PostgreSQL: %v", err)
	}

	log.Info("Successfully connected to PostgreSQL!")

	return &PostgresKV{DB: db}, nil
}

// InitializeTables creates the kv_store table if it doesn't exist
func (p *PostgresKV) InitializeTables(ctx context.Context) error {
	_, err := p.DB.ExecContext(ctx, kvStoreSchema)
	if err != nil {
		return fmt.Errorf("failed to create kv_store table: %v", err)
	}
	return nil
}

func (p *PostgresKV) Load(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := p.DB.GetContext(ctx, &value, `SELECT value::text FROM kv_store WHERE key = $1`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, describePQError("load", key, err)
	}
	return []byte(value), nil
}

func (p *PostgresKV) Save(ctx context.Context, key string, value []byte) error {
	_, err := p.DB.ExecContext(ctx, `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2::jsonb, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`, key, string(value))
	if err != nil {
		return describePQError("save", key, err)
	}
	return nil
}

// Close closes the database connection
func (p *PostgresKV) Close(ctx context.Context) error {
	log.Info("Closing PostgreSQL connection...")
	return p.DB.Close()
}

func describePQError(op, key string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return fmt.Errorf("postgres %s %s failed (%s): %w", op, key, pqErr.Code.Name(), err)
	}
	return fmt.Errorf("postgres %s %s failed: %w", op, key, err)
}
