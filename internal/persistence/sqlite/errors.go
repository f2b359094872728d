package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/example/frontdesk-log/internal/persistence"
)

// mapError translates driver errors into persistence sentinel errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", persistence.ErrNotFound, err)
	}

	msg := err.Error()
	switch {
	case containsAny(msg, "database is locked", "database locked", "SQLITE_BUSY"):
		return fmt.Errorf("%w: %v", persistence.ErrStorageBusy, err)
	case containsAny(msg, "UNIQUE constraint failed", "NOT NULL constraint failed", "CHECK constraint failed"):
		return fmt.Errorf("%w: %v", persistence.ErrConstraintViolation, err)
	}
	return err
}

func containsAny(s string, substrings ...string) bool {
	for _, substr := range substrings {
		if strings.Contains(s, substr) {
			return true
		}
	}
	return false
}
