package testfixtures

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/example/frontdesk-log/internal/persistence"
	"github.com/example/frontdesk-log/internal/persistence/sqlite"
)

// SQLiteHarness provides a persistence.Store backed by a temporary SQLite
// file for integration-style tests.
type SQLiteHarness struct {
	Storage *sqlite.Storage
	Store   *persistence.Store
	Path    string

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness opens and migrates a temporary database. The harness
// registers its own cleanup with tb; calling Close early is also safe.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "frontdesk.db")
	cfg := sqlite.DefaultConfig(path)
	cfg.JournalMode = "DELETE"

	storage, err := sqlite.Open(cfg)
	if err != nil {
		tb.Fatalf("failed to open storage: %v", err)
	}
	if err := storage.Migrate(context.Background()); err != nil {
		_ = storage.Close()
		tb.Fatalf("failed to migrate storage: %v", err)
	}

	clock := NewClock(ReferenceTime())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	harness := &SQLiteHarness{
		Storage: storage,
		Store:   persistence.NewStore(storage, clock.NowFunc(), logger),
		Path:    path,
		cleanup: func() {
			_ = storage.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}
