package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends selectable through FRONTDESK_STORAGE.
const (
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

// Log output formats selectable through FRONTDESK_LOG_FORMAT.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config captures environment driven configuration values for the shift log.
type Config struct {
	Storage           string
	SQLiteDSN         string
	SQLiteBusyTimeout time.Duration
	SQLiteJournalMode string
	LogLevel          slog.Level
	LogFormat         string
	ReportDays        int
}

// Default returns the configuration used when no variables are set.
func Default() Config {
	return Config{
		Storage:           StorageSQLite,
		SQLiteDSN:         "frontdesk.db",
		SQLiteBusyTimeout: 5 * time.Second,
		SQLiteJournalMode: "WAL",
		LogLevel:          slog.LevelWarn,
		LogFormat:         LogFormatText,
		ReportDays:        30,
	}
}

// LoadDotEnv reads KEY=value pairs from the given files into the process
// environment without overriding variables that are already set. Missing
// files are skipped. With no paths, ".env" in the working directory is used.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

// Load parses configuration values from the current process environment.
//
// Optional fields fall back to Default. Every invalid value is collected and
// reported in a single error.
func Load() (Config, error) {
	cfg := Default()
	invalid := make([]string, 0, 2)

	if storage := strings.ToLower(strings.TrimSpace(os.Getenv("FRONTDESK_STORAGE"))); storage != "" {
		switch storage {
		case StorageSQLite, StorageMemory:
			cfg.Storage = storage
		default:
			invalid = append(invalid, "FRONTDESK_STORAGE")
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("FRONTDESK_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if timeoutValue := strings.TrimSpace(os.Getenv("FRONTDESK_SQLITE_BUSY_TIMEOUT")); timeoutValue != "" {
		timeout, err := time.ParseDuration(timeoutValue)
		if err != nil || timeout < 0 {
			invalid = append(invalid, "FRONTDESK_SQLITE_BUSY_TIMEOUT")
		} else {
			cfg.SQLiteBusyTimeout = timeout
		}
	}

	if mode := strings.TrimSpace(os.Getenv("FRONTDESK_SQLITE_JOURNAL_MODE")); mode != "" {
		cfg.SQLiteJournalMode = strings.ToUpper(mode)
	}

	if levelValue := strings.TrimSpace(os.Getenv("FRONTDESK_LOG_LEVEL")); levelValue != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(levelValue)); err != nil {
			invalid = append(invalid, "FRONTDESK_LOG_LEVEL")
		} else {
			cfg.LogLevel = level
		}
	}

	if format := strings.ToLower(strings.TrimSpace(os.Getenv("FRONTDESK_LOG_FORMAT"))); format != "" {
		switch format {
		case LogFormatText, LogFormatJSON:
			cfg.LogFormat = format
		default:
			invalid = append(invalid, "FRONTDESK_LOG_FORMAT")
		}
	}

	if daysValue := strings.TrimSpace(os.Getenv("FRONTDESK_REPORT_DAYS")); daysValue != "" {
		days, err := strconv.Atoi(daysValue)
		if err != nil || (days != 7 && days != 30 && days != 90) {
			invalid = append(invalid, "FRONTDESK_REPORT_DAYS")
		} else {
			cfg.ReportDays = days
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
