package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

const driverName = "sqlite"

// schema lists the forward-only schema steps; the index+1 of each entry is
// recorded in PRAGMA user_version once applied.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS local_storage (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
}

// Storage is a persistence.KeyValueStore backed by a single SQLite table.
type Storage struct {
	db    *sqlx.DB
	now   func() time.Time
	retry RetryConfig
}

// Open creates the database file if needed, applies the configured pragmas
// and returns a Storage. Call Migrate before first use.
func Open(cfg Config) (*Storage, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid SQLite configuration: %w", err)
	}
	if err := ensureDatabaseDir(cfg); err != nil {
		return nil, err
	}

	db, err := sqlx.Open(driverName, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	// Pragmas are per connection; a single connection keeps them in force.
	db.SetMaxOpenConns(1)

	for _, pragma := range cfg.pragmas() {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	return New(db, time.Now), nil
}

// New wraps an already opened database handle.
func New(db *sqlx.DB, now func() time.Time) *Storage {
	if now == nil {
		now = time.Now
	}
	return &Storage{db: db, now: now, retry: DefaultRetryConfig()}
}

// WithRetry replaces the retry settings used for writes.
func (s *Storage) WithRetry(cfg RetryConfig) *Storage {
	s.retry = cfg
	return s
}

// Close releases the underlying database handle.
func (s *Storage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Migrate applies any schema steps newer than the database's user_version.
func (s *Storage) Migrate(ctx context.Context) error {
	var version int
	if err := s.db.GetContext(ctx, &version, `PRAGMA user_version`); err != nil {
		return fmt.Errorf("read schema version: %w", mapError(err))
	}

	for i := version; i < len(schema); i++ {
		tx, err := s.db.BeginTxx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin schema step %d: %w", i+1, mapError(err))
		}
		if _, err := tx.ExecContext(ctx, schema[i]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply schema step %d: %w", i+1, mapError(err))
		}
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", i+1)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record schema step %d: %w", i+1, mapError(err))
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit schema step %d: %w", i+1, mapError(err))
		}
	}
	return nil
}

// GetItem returns the value stored under key.
func (s *Storage) GetItem(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.GetContext(ctx, &value, `SELECT value FROM local_storage WHERE key = ?`, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, mapError(err)
	}
	return value, true, nil
}

// SetItem stores value under key, replacing any previous value. Writes that
// find the database locked are retried.
func (s *Storage) SetItem(ctx context.Context, key, value string) error {
	updatedAt := s.now().UTC().Format(time.RFC3339Nano)
	return s.retry.withRetry(ctx, func() error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO local_storage (key, value, updated_at)
			VALUES (?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
		`, key, value, updatedAt)
		return err
	})
}

// RemoveItem deletes key. Removing a missing key is not an error.
func (s *Storage) RemoveItem(ctx context.Context, key string) error {
	return s.retry.withRetry(ctx, func() error {
		_, err := s.db.ExecContext(ctx, `DELETE FROM local_storage WHERE key = ?`, key)
		return err
	})
}

func ensureDatabaseDir(cfg Config) error {
	if cfg.inMemory() {
		return nil
	}
	path := strings.TrimPrefix(cfg.DSN, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create database directory %s: %w", dir, err)
	}
	return nil
}
