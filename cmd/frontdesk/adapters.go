package main

import (
	"context"
	"time"

	"github.com/example/frontdesk-log/internal/application"
	"github.com/example/frontdesk-log/internal/persistence"
)

type logStoreAdapter struct {
	store persistence.LogRepository
}

func newLogStoreAdapter(store persistence.LogRepository) *logStoreAdapter {
	return &logStoreAdapter{store: store}
}

func (a *logStoreAdapter) LoadLogs(ctx context.Context) []application.LogEntry {
	models := a.store.LoadLogs(ctx)
	entries := make([]application.LogEntry, 0, len(models))
	for _, model := range models {
		entries = append(entries, toApplicationLog(model))
	}
	return entries
}

func (a *logStoreAdapter) SaveLogs(ctx context.Context, entries []application.LogEntry) error {
	models := make([]persistence.Log, 0, len(entries))
	for _, entry := range entries {
		models = append(models, toPersistenceLog(entry))
	}
	return a.store.SaveLogs(ctx, models)
}

// userStoreAdapter converts the staff list; the remembered-user calls are
// served by the embedded repository unchanged.
type userStoreAdapter struct {
	users persistence.UserRepository
	persistence.RememberedUserRepository
}

func newUserStoreAdapter(users persistence.UserRepository, remembered persistence.RememberedUserRepository) *userStoreAdapter {
	return &userStoreAdapter{users: users, RememberedUserRepository: remembered}
}

func (a *userStoreAdapter) LoadUsers(ctx context.Context) []application.User {
	models := a.users.LoadUsers(ctx)
	users := make([]application.User, 0, len(models))
	for _, model := range models {
		users = append(users, application.User{Name: model.Name, PIN: model.PIN})
	}
	return users
}

func (a *userStoreAdapter) SaveUsers(ctx context.Context, users []application.User) error {
	models := make([]persistence.User, 0, len(users))
	for _, user := range users {
		models = append(models, persistence.User{Name: user.Name, PIN: user.PIN})
	}
	return a.users.SaveUsers(ctx, models)
}

func toApplicationLog(model persistence.Log) application.LogEntry {
	return application.LogEntry{
		ID:               model.ID,
		Timestamp:        model.Timestamp,
		RoomNumber:       model.RoomNumber,
		GuestFirstName:   model.GuestFirstName,
		GuestLastName:    model.GuestLastName,
		GuestPhoneNumber: model.GuestPhoneNumber,
		GuestEmail:       model.GuestEmail,
		GuestNotes:       model.GuestNotes,
		Category:         application.Category(model.Category),
		Description:      model.Description,
		Status:           application.Status(model.Status),
		Staff:            model.Staff,
		ManagerFollowUp:  model.ManagerFollowUp,
		Priority:         application.Priority(model.Priority),
		FollowUpDate:     cloneTime(model.FollowUpDate),
	}
}

func toPersistenceLog(entry application.LogEntry) persistence.Log {
	return persistence.Log{
		ID:               entry.ID,
		Timestamp:        entry.Timestamp,
		RoomNumber:       entry.RoomNumber,
		GuestFirstName:   entry.GuestFirstName,
		GuestLastName:    entry.GuestLastName,
		GuestPhoneNumber: entry.GuestPhoneNumber,
		GuestEmail:       entry.GuestEmail,
		GuestNotes:       entry.GuestNotes,
		Category:         string(entry.Category),
		Description:      entry.Description,
		Status:           string(entry.Status),
		Staff:            entry.Staff,
		ManagerFollowUp:  entry.ManagerFollowUp,
		Priority:         string(entry.Priority),
		FollowUpDate:     cloneTime(entry.FollowUpDate),
	}
}

func cloneTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}
