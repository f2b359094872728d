package testfixtures

import (
	"context"
	"sync"

	"github.com/example/frontdesk-log/internal/application"
)

// LogStore is an in-memory application.LogStore that records every save.
type LogStore struct {
	mu      sync.Mutex
	entries []application.LogEntry
	saves   int
	SaveErr error
}

// NewLogStore returns a store preloaded with entries.
func NewLogStore(entries ...application.LogEntry) *LogStore {
	return &LogStore{entries: append([]application.LogEntry(nil), entries...)}
}

// LoadLogs returns the stored entries.
func (s *LogStore) LoadLogs(ctx context.Context) []application.LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]application.LogEntry(nil), s.entries...)
}

// SaveLogs replaces the stored entries unless SaveErr is set.
func (s *LogStore) SaveLogs(ctx context.Context, entries []application.LogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.entries = append([]application.LogEntry(nil), entries...)
	return nil
}

// Saved returns the last successfully saved entries.
func (s *LogStore) Saved() []application.LogEntry {
	return s.LoadLogs(context.Background())
}

// Saves reports how many times SaveLogs was called.
func (s *LogStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// UserStore is an in-memory application.UserStore.
type UserStore struct {
	mu         sync.Mutex
	users      []application.User
	remembered string
	saves      int
	SaveErr    error
}

// NewUserStore returns a store preloaded with users. With no users it holds
// the seed staff list.
func NewUserStore(users ...application.User) *UserStore {
	if len(users) == 0 {
		users = SeedStaff()
	}
	return &UserStore{users: append([]application.User(nil), users...)}
}

// LoadUsers returns the stored users.
func (s *UserStore) LoadUsers(ctx context.Context) []application.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]application.User(nil), s.users...)
}

// SaveUsers replaces the stored users unless SaveErr is set.
func (s *UserStore) SaveUsers(ctx context.Context, users []application.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.users = append([]application.User(nil), users...)
	return nil
}

// Saves reports how many times SaveUsers was called.
func (s *UserStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// RememberedUser returns the remembered name, if any.
func (s *UserStore) RememberedUser(ctx context.Context) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remembered, s.remembered != ""
}

// SetRememberedUser stores name.
func (s *UserStore) SetRememberedUser(ctx context.Context, name string) error {
	s.mu.Lock()
	s.remembered = name
	s.mu.Unlock()
	return nil
}

// ClearRememberedUser forgets the remembered name.
func (s *UserStore) ClearRememberedUser(ctx context.Context) error {
	s.mu.Lock()
	s.remembered = ""
	s.mu.Unlock()
	return nil
}
