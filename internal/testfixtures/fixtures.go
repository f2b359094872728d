package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/frontdesk-log/internal/application"
)

var entryCounter uint64

var referenceTime = time.Date(2024, time.March, 10, 14, 30, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures,
// mid-afternoon on a shift day.
func ReferenceTime() time.Time {
	return referenceTime
}

// ----------------------------- Log fixtures ------------------------------

// LogEntryOption configures the generated log entry.
type LogEntryOption func(*application.LogEntry)

// NewLogEntry returns a deterministic Open request logged at ReferenceTime
// with optional overrides. Each call yields a distinct id and room.
func NewLogEntry(opts ...LogEntryOption) application.LogEntry {
	idx := atomic.AddUint64(&entryCounter, 1)
	entry := application.LogEntry{
		ID:          referenceTime.UnixMilli() + int64(idx),
		Timestamp:   referenceTime,
		RoomNumber:  fmt.Sprintf("%d", 100+idx),
		Category:    application.CategoryRequest,
		Description: fmt.Sprintf("Request %03d", idx),
		Status:      application.StatusOpen,
		Staff:       "Alice",
		Priority:    application.PriorityMedium,
	}
	for _, opt := range opts {
		opt(&entry)
	}
	return entry
}

// WithID overrides the generated id.
func WithID(id int64) LogEntryOption {
	return func(e *application.LogEntry) {
		e.ID = id
	}
}

// WithTimestamp overrides the creation instant.
func WithTimestamp(ts time.Time) LogEntryOption {
	return func(e *application.LogEntry) {
		e.Timestamp = ts
	}
}

// WithRoom overrides the room number.
func WithRoom(room string) LogEntryOption {
	return func(e *application.LogEntry) {
		e.RoomNumber = room
	}
}

// WithGuest attaches a guest name.
func WithGuest(first, last string) LogEntryOption {
	return func(e *application.LogEntry) {
		e.GuestFirstName = first
		e.GuestLastName = last
	}
}

// WithGuestContact sets the guest's phone, email and notes.
func WithGuestContact(phone, email, notes string) LogEntryOption {
	return func(e *application.LogEntry) {
		e.GuestPhoneNumber = phone
		e.GuestEmail = email
		e.GuestNotes = notes
	}
}

// WithCategory overrides the category.
func WithCategory(category application.Category) LogEntryOption {
	return func(e *application.LogEntry) {
		e.Category = category
	}
}

// WithDescription overrides the description.
func WithDescription(description string) LogEntryOption {
	return func(e *application.LogEntry) {
		e.Description = description
	}
}

// WithStatus overrides the status.
func WithStatus(status application.Status) LogEntryOption {
	return func(e *application.LogEntry) {
		e.Status = status
	}
}

// WithPriority overrides the priority.
func WithPriority(priority application.Priority) LogEntryOption {
	return func(e *application.LogEntry) {
		e.Priority = priority
	}
}

// WithStaff overrides the attributed staff member.
func WithStaff(staff string) LogEntryOption {
	return func(e *application.LogEntry) {
		e.Staff = staff
	}
}

// WithManagerFollowUp flags the entry for manager review.
func WithManagerFollowUp() LogEntryOption {
	return func(e *application.LogEntry) {
		e.ManagerFollowUp = true
	}
}

// WithFollowUpDate schedules a follow-up.
func WithFollowUpDate(due time.Time) LogEntryOption {
	return func(e *application.LogEntry) {
		e.FollowUpDate = &due
	}
}

// ----------------------------- User fixtures -----------------------------

// SeedStaff mirrors the built-in staff list.
func SeedStaff() []application.User {
	return []application.User{
		{Name: "Alice", PIN: "1234"},
		{Name: "Bob", PIN: "5678"},
		{Name: "Charlie", PIN: "9876"},
		{Name: "Manager Dave", PIN: "0000"},
	}
}
