package persistence

import "context"

// KeyValueStore is the local-device storage the shift log persists into.
// Values are opaque strings; GetItem reports ok=false for a missing key.
type KeyValueStore interface {
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// LogRepository loads and saves the complete log collection.
type LogRepository interface {
	LoadLogs(ctx context.Context) []Log
	SaveLogs(ctx context.Context, logs []Log) error
}

// UserRepository loads and saves the staff list.
type UserRepository interface {
	LoadUsers(ctx context.Context) []User
	SaveUsers(ctx context.Context, users []User) error
}

// RememberedUserRepository stores the name used for auto-selection at login.
type RememberedUserRepository interface {
	RememberedUser(ctx context.Context) (string, bool)
	SetRememberedUser(ctx context.Context, name string) error
	ClearRememberedUser(ctx context.Context) error
}
