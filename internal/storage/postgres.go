package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// PostgresStore persists key blobs in a single kv_blobs table. Each Set
// replaces the whole value for its key, matching the read-modify-write
// model of the repositories.
type PostgresStore struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgresStore creates a PostgresStore backed by the given pool.
func NewPostgresStore(db *pgxpool.Pool, logger *zap.Logger) *PostgresStore {
	return &PostgresStore{
		db:     db,
		logger: logger,
	}
}

// EnsureSchema creates the kv_blobs table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS kv_blobs (
			key TEXT PRIMARY KEY,
			value BYTEA NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`

	if _, err := s.db.Exec(ctx, query); err != nil {
		s.logger.Error("failed to ensure kv_blobs schema", zap.Error(err))
		return fmt.Errorf("ensure schema: %w: %w", ErrUnavailable, err)
	}

	return nil
}

// Get reads the blob stored under key. A missing row is not an error; it
// returns a nil blob.
func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT value FROM kv_blobs WHERE key = $1`

	var value []byte
	err := s.db.QueryRow(ctx, query, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		s.logger.Error("failed to read key",
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, fmt.Errorf("read %s: %w: %w", key, ErrUnavailable, err)
	}

	return value, nil
}

// Set upserts the blob under key.
func (s *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO kv_blobs (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`

	if _, err := s.db.Exec(ctx, query, key, value); err != nil {
		s.logger.Error("failed to write key",
			zap.String("key", key),
			zap.Error(err),
		)
		return fmt.Errorf("write %s: %w: %w", key, ErrUnavailable, err)
	}

	return nil
}
