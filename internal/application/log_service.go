package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

const (
	directoryRoom        = "Directory"
	directoryDescription = "Guest profile created manually in the directory."
)

// LogStore captures the persistence operations needed by the log service.
// LoadLogs never fails; implementations fall back to seed data.
type LogStore interface {
	LoadLogs(ctx context.Context) []LogEntry
	SaveLogs(ctx context.Context, entries []LogEntry) error
}

// LogService owns the in-memory shift log and writes every change through to
// the store. A failed write is logged and the in-memory change is kept.
//
// saveMu is held from a mutation until its snapshot is saved, so snapshots
// reach the store in the order the mutations happened.
type LogService struct {
	saveMu  sync.Mutex
	mu      sync.Mutex
	store   LogStore
	entries []LogEntry
	now     func() time.Time
	logger  *slog.Logger
}

// NewLogService constructs a log service with the provided dependencies.
func NewLogService(store LogStore, now func() time.Time) *LogService {
	return NewLogServiceWithLogger(store, now, nil)
}

// NewLogServiceWithLogger constructs a log service with a specified logger.
func NewLogServiceWithLogger(store LogStore, now func() time.Time, logger *slog.Logger) *LogService {
	if now == nil {
		now = time.Now
	}
	return &LogService{store: store, now: now, logger: defaultLogger(logger)}
}

func (s *LogService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "LogService", operation, attrs...)
}

// Load replaces the in-memory collection with the stored one.
func (s *LogService) Load(ctx context.Context) {
	if s == nil || s.store == nil {
		return
	}
	loaded := s.store.LoadLogs(ctx)

	s.mu.Lock()
	s.entries = cloneEntries(loaded)
	count := len(s.entries)
	s.mu.Unlock()

	s.loggerWith(ctx, "Load").DebugContext(ctx, "log entries loaded", "count", count)
}

// Entries returns a copy of the collection, most recently added first.
func (s *LogService) Entries() []LogEntry {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneEntries(s.entries)
}

// Get returns a copy of the entry with the given id.
func (s *LogService) Get(id int64) (LogEntry, bool) {
	if s == nil {
		return LogEntry{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.entries[i].clone(), true
	}
	return LogEntry{}, false
}

// Append validates input and prepends a new Open entry attributed to staff.
func (s *LogService) Append(ctx context.Context, staff string, input LogInput) (entry LogEntry, err error) {
	if s == nil {
		err = fmt.Errorf("LogService is nil")
		return
	}

	logger := s.loggerWith(ctx, "Append", "staff", staff)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to append log entry", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("log_id", entry.ID).InfoContext(ctx, "log entry appended")
	}()

	input = normalizeLogInput(input)
	vErr := validateLogInput(input)
	vErr.merge(validateStaff(staff))
	if vErr.HasErrors() {
		err = vErr
		return
	}

	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	var snapshot []LogEntry
	entry, snapshot = s.insert(LogEntry{
		RoomNumber:       input.RoomNumber,
		GuestFirstName:   input.GuestFirstName,
		GuestLastName:    input.GuestLastName,
		GuestPhoneNumber: input.GuestPhoneNumber,
		GuestEmail:       input.GuestEmail,
		GuestNotes:       input.GuestNotes,
		Category:         input.Category,
		Description:      input.Description,
		Status:           StatusOpen,
		Staff:            strings.TrimSpace(staff),
		ManagerFollowUp:  input.ManagerFollowUp,
		Priority:         input.Priority,
		FollowUpDate:     copyTime(input.FollowUpDate),
	})
	s.persist(ctx, logger, snapshot)
	return
}

// UpdateFields applies patch to the entry with the given id. It reports
// whether an entry was changed; an unknown id is a silent no-op.
func (s *LogService) UpdateFields(ctx context.Context, id int64, patch LogPatch) (updated bool, err error) {
	if s == nil {
		err = fmt.Errorf("LogService is nil")
		return
	}

	logger := s.loggerWith(ctx, "UpdateFields", "log_id", id)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update log entry", "error", err, "error_kind", ErrorKind(err))
			return
		}
		if updated {
			logger.InfoContext(ctx, "log entry updated")
		}
	}()

	if vErr := validateLogPatch(patch); vErr.HasErrors() {
		err = vErr
		return
	}

	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		logger.DebugContext(ctx, "no log entry with that id")
		return
	}
	s.entries[i] = applyPatch(s.entries[i], patch)
	snapshot := cloneEntries(s.entries)
	s.mu.Unlock()

	updated = true
	s.persist(ctx, logger, snapshot)
	return
}

// SetStatus changes only the status of the entry with the given id.
func (s *LogService) SetStatus(ctx context.Context, id int64, status Status) (bool, error) {
	return s.UpdateFields(ctx, id, LogPatch{Status: &status})
}

// AddGuest makes a guest visible in the directory by logging a resolved
// directory note carrying their profile.
func (s *LogService) AddGuest(ctx context.Context, staff string, profile GuestProfile) (entry LogEntry, err error) {
	if s == nil {
		err = fmt.Errorf("LogService is nil")
		return
	}

	logger := s.loggerWith(ctx, "AddGuest", "staff", staff)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to add guest", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("log_id", entry.ID).InfoContext(ctx, "guest added", "guest", entry.GuestKey())
	}()

	profile = normalizeProfile(profile)
	vErr := validateGuestName(profile.Name())
	vErr.merge(validateStaff(staff))
	if vErr.HasErrors() {
		err = vErr
		return
	}

	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	var snapshot []LogEntry
	entry, snapshot = s.insert(LogEntry{
		RoomNumber:       directoryRoom,
		GuestFirstName:   profile.FirstName,
		GuestLastName:    profile.LastName,
		GuestPhoneNumber: profile.PhoneNumber,
		GuestEmail:       profile.Email,
		GuestNotes:       profile.Notes,
		Category:         CategoryNote,
		Description:      directoryDescription,
		Status:           StatusResolved,
		Staff:            strings.TrimSpace(staff),
		Priority:         PriorityLow,
	})
	s.persist(ctx, logger, snapshot)
	return
}

// RenameGuest rewrites the name and contact details on every entry keyed
// under from. It returns the number of rewritten entries. Renaming onto an
// existing guest merges both histories.
func (s *LogService) RenameGuest(ctx context.Context, from GuestName, to GuestProfile) (count int, err error) {
	if s == nil {
		err = fmt.Errorf("LogService is nil")
		return
	}

	logger := s.loggerWith(ctx, "RenameGuest", "guest", from.Key())
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to rename guest", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "guest renamed", "entries", count)
	}()

	to = normalizeProfile(to)
	vErr := validateGuestName(to.Name())
	if from.Key() == "" {
		vErr.add("guest", "guest to rename is required")
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	key := from.Key()
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	s.mu.Lock()
	for i := range s.entries {
		if s.entries[i].GuestKey() != key {
			continue
		}
		s.entries[i].GuestFirstName = to.FirstName
		s.entries[i].GuestLastName = to.LastName
		s.entries[i].GuestPhoneNumber = to.PhoneNumber
		s.entries[i].GuestEmail = to.Email
		s.entries[i].GuestNotes = to.Notes
		count++
	}
	snapshot := cloneEntries(s.entries)
	s.mu.Unlock()

	if count > 0 {
		s.persist(ctx, logger, snapshot)
	}
	return
}

// DeleteGuest removes every entry keyed under name. The deletion cannot be
// undone, so it is refused unless confirmed.
func (s *LogService) DeleteGuest(ctx context.Context, name GuestName, confirmed bool) (count int, err error) {
	if s == nil {
		err = fmt.Errorf("LogService is nil")
		return
	}

	logger := s.loggerWith(ctx, "DeleteGuest", "guest", name.Key())
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to delete guest", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "guest deleted", "entries", count)
	}()

	key := name.Key()
	if key == "" {
		vErr := &ValidationError{}
		vErr.add("guest", "guest to delete is required")
		err = vErr
		return
	}
	if !confirmed {
		err = ErrConfirmationRequired
		return
	}

	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	s.mu.Lock()
	kept := s.entries[:0:0]
	for _, entry := range s.entries {
		if entry.GuestKey() == key {
			count++
			continue
		}
		kept = append(kept, entry)
	}
	s.entries = kept
	snapshot := cloneEntries(s.entries)
	s.mu.Unlock()

	if count > 0 {
		s.persist(ctx, logger, snapshot)
	}
	return
}

// insert stamps entry with a fresh id and timestamp and prepends it. It
// returns a copy of the entry and a snapshot of the collection to persist.
// Callers hold saveMu until the snapshot is persisted.
func (s *LogService) insert(entry LogEntry) (LogEntry, []LogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	entry.ID = s.nextID(now)
	entry.Timestamp = now
	s.entries = append([]LogEntry{entry}, s.entries...)
	return entry.clone(), cloneEntries(s.entries)
}

func (s *LogService) persist(ctx context.Context, logger *slog.Logger, snapshot []LogEntry) {
	if s.store == nil {
		return
	}
	if err := s.store.SaveLogs(ctx, snapshot); err != nil {
		logger.ErrorContext(ctx, "failed to save log entries, keeping in-memory changes",
			"error", err, "error_kind", ErrorKind(err))
	}
}

// indexOf must be called with mu held.
func (s *LogService) indexOf(id int64) int {
	for i := range s.entries {
		if s.entries[i].ID == id {
			return i
		}
	}
	return -1
}

// nextID uses the creation instant in milliseconds, stepping past any id
// already present. Must be called with mu held.
func (s *LogService) nextID(now time.Time) int64 {
	id := now.UnixMilli()
	for s.indexOf(id) >= 0 {
		id++
	}
	return id
}

func applyPatch(entry LogEntry, patch LogPatch) LogEntry {
	if patch.RoomNumber != nil {
		entry.RoomNumber = strings.TrimSpace(*patch.RoomNumber)
	}
	if patch.GuestFirstName != nil {
		entry.GuestFirstName = strings.TrimSpace(*patch.GuestFirstName)
	}
	if patch.GuestLastName != nil {
		entry.GuestLastName = strings.TrimSpace(*patch.GuestLastName)
	}
	if patch.GuestPhoneNumber != nil {
		entry.GuestPhoneNumber = strings.TrimSpace(*patch.GuestPhoneNumber)
	}
	if patch.GuestEmail != nil {
		entry.GuestEmail = strings.TrimSpace(*patch.GuestEmail)
	}
	if patch.GuestNotes != nil {
		entry.GuestNotes = *patch.GuestNotes
	}
	if patch.Category != nil {
		entry.Category = *patch.Category
	}
	if patch.Description != nil {
		entry.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Status != nil {
		entry.Status = *patch.Status
	}
	if patch.Staff != nil {
		entry.Staff = strings.TrimSpace(*patch.Staff)
	}
	if patch.ManagerFollowUp != nil {
		entry.ManagerFollowUp = *patch.ManagerFollowUp
	}
	if patch.Priority != nil {
		entry.Priority = *patch.Priority
	}
	switch {
	case patch.ClearFollowUpDate:
		entry.FollowUpDate = nil
	case patch.FollowUpDate != nil:
		entry.FollowUpDate = copyTime(patch.FollowUpDate)
	}
	return entry
}

func normalizeLogInput(input LogInput) LogInput {
	input.RoomNumber = strings.TrimSpace(input.RoomNumber)
	input.GuestFirstName = strings.TrimSpace(input.GuestFirstName)
	input.GuestLastName = strings.TrimSpace(input.GuestLastName)
	input.GuestPhoneNumber = strings.TrimSpace(input.GuestPhoneNumber)
	input.GuestEmail = strings.TrimSpace(input.GuestEmail)
	input.Description = strings.TrimSpace(input.Description)
	if input.Category == "" {
		input.Category = CategoryRequest
	}
	if input.Priority == "" {
		input.Priority = PriorityMedium
	}
	return input
}

func normalizeProfile(profile GuestProfile) GuestProfile {
	profile.FirstName = strings.TrimSpace(profile.FirstName)
	profile.LastName = strings.TrimSpace(profile.LastName)
	profile.PhoneNumber = strings.TrimSpace(profile.PhoneNumber)
	profile.Email = strings.TrimSpace(profile.Email)
	return profile
}

func validateLogInput(input LogInput) *ValidationError {
	vErr := &ValidationError{}
	if input.RoomNumber == "" {
		vErr.add("roomNumber", "room number is required")
	}
	if input.Description == "" {
		vErr.add("description", "description is required")
	}
	if !input.Category.Valid() {
		vErr.add("category", fmt.Sprintf("unknown category %q", input.Category))
	}
	if !input.Priority.Valid() {
		vErr.add("priority", fmt.Sprintf("unknown priority %q", input.Priority))
	}
	return vErr
}

func validateLogPatch(patch LogPatch) *ValidationError {
	vErr := &ValidationError{}
	if patch.RoomNumber != nil && strings.TrimSpace(*patch.RoomNumber) == "" {
		vErr.add("roomNumber", "room number is required")
	}
	if patch.Description != nil && strings.TrimSpace(*patch.Description) == "" {
		vErr.add("description", "description is required")
	}
	if patch.Category != nil && !patch.Category.Valid() {
		vErr.add("category", fmt.Sprintf("unknown category %q", *patch.Category))
	}
	if patch.Status != nil && !patch.Status.Valid() {
		vErr.add("status", fmt.Sprintf("unknown status %q", *patch.Status))
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		vErr.add("priority", fmt.Sprintf("unknown priority %q", *patch.Priority))
	}
	if patch.Staff != nil && strings.TrimSpace(*patch.Staff) == "" {
		vErr.add("staff", "staff is required")
	}
	return vErr
}

func validateStaff(staff string) *ValidationError {
	vErr := &ValidationError{}
	if strings.TrimSpace(staff) == "" {
		vErr.add("staff", "a signed-in staff member is required")
	}
	return vErr
}

func validateGuestName(name GuestName) *ValidationError {
	vErr := &ValidationError{}
	if strings.TrimSpace(name.FirstName) == "" {
		vErr.add("firstName", "first name is required")
	}
	if strings.TrimSpace(name.LastName) == "" {
		vErr.add("lastName", "last name is required")
	}
	return vErr
}

func cloneEntries(entries []LogEntry) []LogEntry {
	if entries == nil {
		return nil
	}
	out := make([]LogEntry, len(entries))
	for i, entry := range entries {
		out[i] = entry.clone()
	}
	return out
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
