package sqlite

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/example/frontdesk-log/internal/persistence"
)

func openTestStorage(t *testing.T) (*Storage, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "nested", "frontdesk.db")
	cfg := DefaultConfig(path)
	cfg.JournalMode = "DELETE"

	storage, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { _ = storage.Close() })

	if err := storage.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate returned error: %v", err)
	}
	return storage, path
}

func TestStorage_ItemLifecycle(t *testing.T) {
	storage, _ := openTestStorage(t)
	ctx := context.Background()

	if _, ok, err := storage.GetItem(ctx, persistence.RememberedUserKey); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}

	if err := storage.SetItem(ctx, persistence.RememberedUserKey, "Alice"); err != nil {
		t.Fatalf("SetItem returned error: %v", err)
	}
	if err := storage.SetItem(ctx, persistence.RememberedUserKey, "Bob"); err != nil {
		t.Fatalf("SetItem overwrite returned error: %v", err)
	}

	value, ok, err := storage.GetItem(ctx, persistence.RememberedUserKey)
	if err != nil || !ok || value != "Bob" {
		t.Fatalf("expected Bob, got %q ok=%v err=%v", value, ok, err)
	}

	if err := storage.RemoveItem(ctx, persistence.RememberedUserKey); err != nil {
		t.Fatalf("RemoveItem returned error: %v", err)
	}
	if err := storage.RemoveItem(ctx, persistence.RememberedUserKey); err != nil {
		t.Fatalf("RemoveItem on missing key returned error: %v", err)
	}
	if _, ok, _ := storage.GetItem(ctx, persistence.RememberedUserKey); ok {
		t.Fatalf("expected key to be removed")
	}
}

func TestStorage_MigrateIsIdempotent(t *testing.T) {
	storage, _ := openTestStorage(t)

	if err := storage.Migrate(context.Background()); err != nil {
		t.Fatalf("second Migrate returned error: %v", err)
	}

	var version int
	if err := storage.db.Get(&version, `PRAGMA user_version`); err != nil {
		t.Fatalf("read user_version: %v", err)
	}
	if version != len(schema) {
		t.Fatalf("expected user_version %d, got %d", len(schema), version)
	}
}

func TestStorage_PersistsAcrossReopen(t *testing.T) {
	storage, path := openTestStorage(t)
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	now := func() time.Time { return time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC) }

	store := persistence.NewStore(storage, now, logger)
	want := []persistence.User{{Name: "Sarah Miller", PIN: "2468"}}
	if err := store.SaveUsers(ctx, want); err != nil {
		t.Fatalf("SaveUsers returned error: %v", err)
	}
	if err := storage.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	cfg := DefaultConfig(path)
	cfg.JournalMode = "DELETE"
	reopened, err := Open(cfg)
	if err != nil {
		t.Fatalf("reopen returned error: %v", err)
	}
	defer reopened.Close()
	if err := reopened.Migrate(ctx); err != nil {
		t.Fatalf("Migrate after reopen returned error: %v", err)
	}

	got := persistence.NewStore(reopened, now, logger).LoadUsers(ctx)
	if len(got) != 1 || got[0] != want[0] {
		t.Fatalf("expected %+v after reopen, got %+v", want, got)
	}
}

func TestOpen_RejectsInvalidConfig(t *testing.T) {
	cases := []Config{
		{DSN: ""},
		{DSN: "x.db", BusyTimeout: -time.Second},
		{DSN: "x.db", JournalMode: "SIDEWAYS"},
		{DSN: "x.db", Synchronous: "SOMETIMES"},
	}
	for _, cfg := range cases {
		if _, err := Open(cfg); err == nil {
			t.Fatalf("expected error for config %+v", cfg)
		}
	}
}

func newMockStorage(t *testing.T) (*Storage, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	now := func() time.Time { return time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC) }
	storage := New(sqlx.NewDb(db, driverName), now).WithRetry(RetryConfig{
		MaxRetries:    2,
		InitialDelay:  time.Millisecond,
		MaxDelay:      time.Millisecond,
		BackoffFactor: 1,
	})
	return storage, mock
}

func TestStorage_MapsDriverErrors(t *testing.T) {
	t.Run("busy database on write", func(t *testing.T) {
		storage, mock := newMockStorage(t)
		for i := 0; i < 3; i++ {
			mock.ExpectExec(regexp.QuoteMeta("INSERT INTO local_storage")).
				WithArgs(persistence.LogsKey, "[]", "2024-03-10T12:00:00Z").
				WillReturnError(errors.New("database is locked (5) (SQLITE_BUSY)"))
		}

		err := storage.SetItem(context.Background(), persistence.LogsKey, "[]")
		if !errors.Is(err, persistence.ErrStorageBusy) {
			t.Fatalf("expected ErrStorageBusy, got %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet expectations: %v", err)
		}
	})

	t.Run("busy database recovers on retry", func(t *testing.T) {
		storage, mock := newMockStorage(t)
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM local_storage")).
			WithArgs(persistence.RememberedUserKey).
			WillReturnError(errors.New("database is locked"))
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM local_storage")).
			WithArgs(persistence.RememberedUserKey).
			WillReturnResult(sqlmock.NewResult(0, 1))

		if err := storage.RemoveItem(context.Background(), persistence.RememberedUserKey); err != nil {
			t.Fatalf("expected retry to succeed, got %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet expectations: %v", err)
		}
	})

	t.Run("constraint failure on write", func(t *testing.T) {
		storage, mock := newMockStorage(t)
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO local_storage")).
			WillReturnError(errors.New("NOT NULL constraint failed: local_storage.value"))

		err := storage.SetItem(context.Background(), persistence.UsersKey, "")
		if !errors.Is(err, persistence.ErrConstraintViolation) {
			t.Fatalf("expected ErrConstraintViolation, got %v", err)
		}
	})

	t.Run("read failure", func(t *testing.T) {
		storage, mock := newMockStorage(t)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM local_storage WHERE key = ?")).
			WithArgs(persistence.LogsKey).
			WillReturnError(errors.New("disk I/O error"))

		_, ok, err := storage.GetItem(context.Background(), persistence.LogsKey)
		if err == nil || ok {
			t.Fatalf("expected read error, got ok=%v err=%v", ok, err)
		}
	})

	t.Run("read hit", func(t *testing.T) {
		storage, mock := newMockStorage(t)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM local_storage WHERE key = ?")).
			WithArgs(persistence.RememberedUserKey).
			WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("Alice"))

		value, ok, err := storage.GetItem(context.Background(), persistence.RememberedUserKey)
		if err != nil || !ok || value != "Alice" {
			t.Fatalf("expected Alice, got %q ok=%v err=%v", value, ok, err)
		}
	})

	t.Run("store falls back to seed when reads fail", func(t *testing.T) {
		storage, mock := newMockStorage(t)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM local_storage WHERE key = ?")).
			WithArgs(persistence.UsersKey).
			WillReturnError(errors.New("file is not a database"))

		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		users := persistence.NewStore(storage, nil, logger).LoadUsers(context.Background())
		if len(users) != len(persistence.SeedUsers()) {
			t.Fatalf("expected seed users, got %+v", users)
		}
	})
}
