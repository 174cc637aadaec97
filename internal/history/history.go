// Package history records delivered notifications in PostgreSQL. The log
// is an optional audit trail: the notifier runs fine without it, and the
// driver treats every recording failure as non-fatal.
package history

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Log wraps a PostgreSQL connection pool for delivery records.
type Log struct {
	pool *pgxpool.Pool
}

// NewLog connects to the database and ensures the history table exists.
func NewLog(ctx context.Context, databaseURL string) (*Log, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS delivery_history (
			id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			run_id       UUID NOT NULL,
			repo         TEXT NOT NULL,
			tag          TEXT NOT NULL,
			delivered_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ensure history table: %w", err)
	}

	return &Log{pool: pool}, nil
}

// Record stores one delivered release notification.
func (l *Log) Record(ctx context.Context, runID uuid.UUID, repo, tag string) error {
	_, err := l.pool.Exec(ctx,
		`INSERT INTO delivery_history (run_id, repo, tag) VALUES ($1, $2, $3)`,
		runID, repo, tag,
	)
	if err != nil {
		return fmt.Errorf("failed to record delivery for %s: %w", repo, err)
	}
	return nil
}

// Close closes the connection pool.
func (l *Log) Close() {
	if l != nil && l.pool != nil {
		l.pool.Close()
	}
}
