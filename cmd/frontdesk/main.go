package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/frontdesk-log/internal/application"
	"github.com/example/frontdesk-log/internal/config"
	"github.com/example/frontdesk-log/internal/logging"
	"github.com/example/frontdesk-log/internal/persistence"
	"github.com/example/frontdesk-log/internal/persistence/sqlite"
)

func main() {
	os.Exit(realMain(os.Args[1:]))
}

func realMain(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, "frontdesk:", err)
		return 1
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "frontdesk:", err)
		return 1
	}

	logger := logging.New(os.Stderr, cfg.LogFormat, cfg.LogLevel)
	ctx = logging.ContextWithLogger(ctx, logger)

	kv, closeKV, err := openKeyValueStore(ctx, cfg)
	if err != nil {
		logger.Error("failed to open storage", "error", err, "storage", cfg.Storage)
		return 1
	}
	defer func() {
		if cerr := closeKV(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	store := persistence.NewStore(kv, time.Now, logger)
	a := newApp(store, appOptions{
		Now:        time.Now,
		Logger:     logger,
		Stdin:      os.Stdin,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		ReportDays: application.ReportWindow(cfg.ReportDays),
	})
	return a.exit(a.run(ctx, args))
}

// openKeyValueStore returns the configured backend and its close function.
func openKeyValueStore(ctx context.Context, cfg config.Config) (persistence.KeyValueStore, func() error, error) {
	if cfg.Storage == config.StorageMemory {
		return persistence.NewMemoryStore(), func() error { return nil }, nil
	}

	sqlCfg := sqlite.DefaultConfig(cfg.SQLiteDSN)
	sqlCfg.BusyTimeout = cfg.SQLiteBusyTimeout
	sqlCfg.JournalMode = cfg.SQLiteJournalMode

	storage, err := sqlite.Open(sqlCfg)
	if err != nil {
		return nil, nil, err
	}
	if err := storage.Migrate(ctx); err != nil {
		_ = storage.Close()
		return nil, nil, fmt.Errorf("failed to apply migrations: %w", err)
	}
	return storage, storage.Close, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
