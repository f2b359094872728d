package persistence

import "errors"

var (
	// ErrNotFound is returned when the requested key does not exist.
	ErrNotFound = errors.New("persistence: not found")
	// ErrStorageBusy is returned when the backing store is locked by another writer.
	ErrStorageBusy = errors.New("persistence: storage busy")
	// ErrConstraintViolation is returned when a write breaks a storage constraint.
	ErrConstraintViolation = errors.New("persistence: constraint violation")
)
