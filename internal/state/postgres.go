package state

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps one cursor row per repository in a release_cursors
// table, created on open if missing.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore establishes a connection pool and ensures the cursor
// table exists.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL is required for the postgres state backend")
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &PostgresStore{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx,
		`CREATE TABLE IF NOT EXISTS release_cursors (
			repo       TEXT PRIMARY KEY,
			tag        TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("failed to ensure release_cursors table: %w", err)
	}
	return nil
}

// Load reads all cursor rows into a record.
func (s *PostgresStore) Load(ctx context.Context) (Record, error) {
	rows, err := s.pool.Query(ctx, `SELECT repo, tag FROM release_cursors`)
	if err != nil {
		return nil, fmt.Errorf("failed to load cursors: %w", err)
	}
	defer rows.Close()

	rec := Record{}
	for rows.Next() {
		var repo, tag string
		if err := rows.Scan(&repo, &tag); err != nil {
			return nil, fmt.Errorf("failed to scan cursor row: %w", err)
		}
		rec[repo] = tag
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cursors: %w", err)
	}
	return rec, nil
}

// Persist upserts every entry of the record in one transaction. Rows for
// repositories absent from rec are left untouched, matching the
// never-prune policy of the cursor model.
func (s *PostgresStore) Persist(ctx context.Context, rec Record) error {
	if len(rec) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin state transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for repo, tag := range rec {
		_, err := tx.Exec(ctx,
			`INSERT INTO release_cursors (repo, tag)
			 VALUES ($1, $2)
			 ON CONFLICT (repo) DO UPDATE SET tag = $2, updated_at = NOW()`,
			repo, tag,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert cursor for %s: %w", repo, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit state transaction: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}
