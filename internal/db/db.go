package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type DB struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

func (db *DB) Close() {
	db.pool.Close()
}

// RunMigrations runs database migrations
func (db *DB) RunMigrations(ctx context.Context) error {
	// Split history table: the full result object as jsonb plus the columns
	// worth querying directly.
	_, err := db.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS session_splits (
			id BIGSERIAL PRIMARY KEY,
			success BOOLEAN NOT NULL,
			net_profit BIGINT NOT NULL DEFAULT 0,
			player_count INT NOT NULL DEFAULT 0,
			result JSONB NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_session_splits_created_at ON session_splits(created_at);
	`)
	return err
}
