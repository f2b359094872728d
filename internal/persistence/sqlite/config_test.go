package sqlite

import (
	"testing"
	"time"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{name: "defaults", config: DefaultConfig("frontdesk.db")},
		{name: "lowercase modes", config: Config{DSN: "x.db", JournalMode: "wal", Synchronous: "full"}},
		{name: "in memory", config: Config{DSN: ":memory:"}},
		{name: "blank dsn", config: Config{DSN: "  "}, wantErr: true},
		{name: "negative timeout", config: Config{DSN: "x.db", BusyTimeout: -time.Millisecond}, wantErr: true},
		{name: "unknown journal mode", config: Config{DSN: "x.db", JournalMode: "FAST"}, wantErr: true},
		{name: "unknown synchronous mode", config: Config{DSN: "x.db", Synchronous: "MAYBE"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Pragmas(t *testing.T) {
	got := DefaultConfig("frontdesk.db").pragmas()
	want := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d pragmas, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("pragma %d = %q, want %q", i, got[i], want[i])
		}
	}
}
