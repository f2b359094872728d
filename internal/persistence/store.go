package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const defaultPriority = "Medium"

var (
	_ LogRepository            = (*Store)(nil)
	_ UserRepository           = (*Store)(nil)
	_ RememberedUserRepository = (*Store)(nil)
)

// Store serializes the shift log and staff list into a KeyValueStore.
//
// Loads never fail: unreadable or malformed data is logged and replaced by the
// built-in seed data so the application always starts. Saves report errors to
// the caller, which decides whether to keep going.
type Store struct {
	kv     KeyValueStore
	now    func() time.Time
	logger *slog.Logger
}

// NewStore wraps a key/value backend.
func NewStore(kv KeyValueStore, now func() time.Time, logger *slog.Logger) *Store {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{kv: kv, now: now, logger: logger.With("component", "persistence.Store")}
}

// LoadLogs reads and migrates the stored log collection.
func (s *Store) LoadLogs(ctx context.Context) []Log {
	raw, ok, err := s.get(ctx, LogsKey)
	if err != nil {
		s.logger.WarnContext(ctx, "could not load logs, using seed data", "error", err)
		return SeedLogs(s.now())
	}
	if !ok {
		return SeedLogs(s.now())
	}

	logs, err := DecodeLogs([]byte(raw))
	if err != nil {
		s.logger.WarnContext(ctx, "could not parse stored logs, using seed data", "error", err)
		return SeedLogs(s.now())
	}
	return logs
}

// SaveLogs replaces the stored log collection.
func (s *Store) SaveLogs(ctx context.Context, logs []Log) error {
	if logs == nil {
		logs = []Log{}
	}
	data, err := json.Marshal(logs)
	if err != nil {
		return fmt.Errorf("encode logs: %w", err)
	}
	return s.set(ctx, LogsKey, string(data))
}

// LoadUsers reads the stored staff list.
func (s *Store) LoadUsers(ctx context.Context) []User {
	raw, ok, err := s.get(ctx, UsersKey)
	if err != nil {
		s.logger.WarnContext(ctx, "could not load users, using seed data", "error", err)
		return SeedUsers()
	}
	if !ok {
		return SeedUsers()
	}

	var users []User
	if err := json.Unmarshal([]byte(raw), &users); err != nil {
		s.logger.WarnContext(ctx, "could not parse stored users, using seed data", "error", err)
		return SeedUsers()
	}
	if users == nil {
		return SeedUsers()
	}
	return users
}

// SaveUsers replaces the stored staff list.
func (s *Store) SaveUsers(ctx context.Context, users []User) error {
	if users == nil {
		users = []User{}
	}
	data, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}
	return s.set(ctx, UsersKey, string(data))
}

// RememberedUser returns the staff name remembered at the last login.
func (s *Store) RememberedUser(ctx context.Context) (string, bool) {
	name, ok, err := s.get(ctx, RememberedUserKey)
	if err != nil {
		s.logger.WarnContext(ctx, "could not read remembered user", "error", err)
		return "", false
	}
	if !ok || name == "" {
		return "", false
	}
	return name, true
}

// SetRememberedUser stores the name for auto-selection at the next login.
func (s *Store) SetRememberedUser(ctx context.Context, name string) error {
	return s.set(ctx, RememberedUserKey, name)
}

// ClearRememberedUser forgets any remembered name.
func (s *Store) ClearRememberedUser(ctx context.Context) error {
	if s == nil || s.kv == nil {
		return errors.New("persistence: store not configured")
	}
	if err := s.kv.RemoveItem(ctx, RememberedUserKey); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("remove %s: %w", RememberedUserKey, err)
	}
	return nil
}

func (s *Store) get(ctx context.Context, key string) (string, bool, error) {
	if s == nil || s.kv == nil {
		return "", false, errors.New("persistence: store not configured")
	}
	value, ok, err := s.kv.GetItem(ctx, key)
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, ok, nil
}

func (s *Store) set(ctx context.Context, key, value string) error {
	if s == nil || s.kv == nil {
		return errors.New("persistence: store not configured")
	}
	if err := s.kv.SetItem(ctx, key, value); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// DecodeLogs parses a serialized log collection, migrating records written by
// older versions of the application.
func DecodeLogs(data []byte) ([]Log, error) {
	var records []storedLog
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode logs: %w", err)
	}
	if records == nil {
		return nil, errors.New("decode logs: not an array")
	}

	logs := make([]Log, 0, len(records))
	for i, record := range records {
		log, err := migrateLog(record)
		if err != nil {
			return nil, fmt.Errorf("decode logs: record %d: %w", i, err)
		}
		logs = append(logs, log)
	}
	return logs, nil
}

func migrateLog(record storedLog) (Log, error) {
	first := stringOrEmpty(record.GuestFirstName)
	last := stringOrEmpty(record.GuestLastName)
	if legacy := stringOrEmpty(record.GuestName); legacy != "" && first == "" && last == "" {
		first, last = splitLegacyName(legacy)
	}

	priority := stringOrEmpty(record.Priority)
	if priority == "" {
		priority = defaultPriority
	}

	timestamp, err := parseInstant(record.Timestamp)
	if err != nil {
		return Log{}, fmt.Errorf("timestamp: %w", err)
	}

	var followUp *time.Time
	if raw := stringOrEmpty(record.FollowUpDate); raw != "" {
		parsed, err := parseInstant(raw)
		if err != nil {
			return Log{}, fmt.Errorf("followUpDate: %w", err)
		}
		followUp = &parsed
	}

	return Log{
		ID:               record.ID,
		Timestamp:        timestamp,
		RoomNumber:       record.RoomNumber,
		GuestFirstName:   first,
		GuestLastName:    last,
		GuestPhoneNumber: stringOrEmpty(record.GuestPhoneNumber),
		GuestEmail:       stringOrEmpty(record.GuestEmail),
		GuestNotes:       stringOrEmpty(record.GuestNotes),
		Category:         record.Category,
		Description:      record.Description,
		Status:           record.Status,
		Staff:            record.Staff,
		ManagerFollowUp:  record.ManagerFollowUp != nil && *record.ManagerFollowUp,
		Priority:         priority,
		FollowUpDate:     followUp,
	}, nil
}

// splitLegacyName splits a single-field guest name on its first whitespace
// run: the first token is the first name, the rest the last name.
func splitLegacyName(name string) (string, string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// Timestamps without a zone are read the way browsers read them: a date and
// time is local, a bare date is UTC midnight.
var (
	localInstantLayouts = []string{"2006-01-02T15:04:05.999999999", "2006-01-02T15:04"}
	dateOnlyLayout      = "2006-01-02"
)

func parseInstant(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.New("empty value")
	}
	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err == nil {
		return parsed, nil
	}
	for _, layout := range localInstantLayouts {
		if local, lErr := time.ParseInLocation(layout, value, time.Local); lErr == nil {
			return local, nil
		}
	}
	if date, dErr := time.Parse(dateOnlyLayout, value); dErr == nil {
		return date, nil
	}
	return time.Time{}, err
}

func stringOrEmpty(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
