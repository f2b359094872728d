package application

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var pinPattern = regexp.MustCompile(`^\d{4}$`)

// UserStore exposes the staff list and remembered-user persistence required
// by the auth service. LoadUsers never fails; implementations fall back to
// seed users.
type UserStore interface {
	LoadUsers(ctx context.Context) []User
	SaveUsers(ctx context.Context, users []User) error
	RememberedUser(ctx context.Context) (string, bool)
	SetRememberedUser(ctx context.Context, name string) error
	ClearRememberedUser(ctx context.Context) error
}

// AuthService gates who is signed in at a shared terminal. PINs are compared
// in plain text; this attributes log entries to staff and is not a security
// boundary.
//
// saveMu serializes changes with their store writes so the store sees them
// in order.
type AuthService struct {
	saveMu      sync.Mutex
	mu          sync.Mutex
	users       UserStore
	staff       []User
	current     *Session
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewAuthService constructs an AuthService with the provided dependencies.
func NewAuthService(users UserStore, idGenerator func() string, now func() time.Time) *AuthService {
	return NewAuthServiceWithLogger(users, idGenerator, now, nil)
}

// NewAuthServiceWithLogger constructs an AuthService with a specified logger.
func NewAuthServiceWithLogger(users UserStore, idGenerator func() string, now func() time.Time, logger *slog.Logger) *AuthService {
	if idGenerator == nil {
		idGenerator = uuid.NewString
	}
	if now == nil {
		now = time.Now
	}
	return &AuthService{users: users, idGenerator: idGenerator, now: now, logger: defaultLogger(logger)}
}

func (s *AuthService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AuthService", operation, attrs...)
}

// Load reads the staff list from the store.
func (s *AuthService) Load(ctx context.Context) {
	if s == nil || s.users == nil {
		return
	}
	loaded := s.users.LoadUsers(ctx)

	s.mu.Lock()
	s.staff = append([]User(nil), loaded...)
	s.mu.Unlock()
}

// Users returns a copy of the staff list.
func (s *AuthService) Users() []User {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]User(nil), s.staff...)
}

// Current returns the signed-in session, if any.
func (s *AuthService) Current() (Session, bool) {
	if s == nil {
		return Session{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Session{}, false
	}
	return *s.current, true
}

// Login signs in the staff member whose name matches exactly and whose PIN
// equals the one given. Every failure is reported as ErrInvalidPIN and
// changes nothing. On success the remembered user is set when requested and
// cleared otherwise.
func (s *AuthService) Login(ctx context.Context, params LoginParams) (session Session, err error) {
	if s == nil {
		err = fmt.Errorf("AuthService is nil")
		return
	}

	logger := s.loggerWith(ctx, "Login", "user", params.Name)
	defer func() {
		if err != nil {
			logger.WarnContext(ctx, "login failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("session_id", session.ID).InfoContext(ctx, "login succeeded")
	}()

	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	user, ok := s.findExact(params.Name)
	if !ok || subtle.ConstantTimeCompare([]byte(user.PIN), []byte(params.PIN)) != 1 {
		s.mu.Unlock()
		err = ErrInvalidPIN
		return
	}
	session = Session{ID: s.idGenerator(), UserName: user.Name, StartedAt: s.now()}
	current := session
	s.current = &current
	s.mu.Unlock()

	if s.users == nil {
		return
	}
	if params.Remember {
		if rErr := s.users.SetRememberedUser(ctx, user.Name); rErr != nil {
			logger.ErrorContext(ctx, "failed to remember user", "error", rErr, "error_kind", ErrorKind(rErr))
		}
		return
	}
	if rErr := s.users.ClearRememberedUser(ctx); rErr != nil {
		logger.ErrorContext(ctx, "failed to clear remembered user", "error", rErr, "error_kind", ErrorKind(rErr))
	}
	return
}

// Logout ends the current session and forgets the remembered user.
func (s *AuthService) Logout(ctx context.Context) error {
	if s == nil {
		return fmt.Errorf("AuthService is nil")
	}

	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	var user string
	if s.current != nil {
		user = s.current.UserName
	}
	s.current = nil
	s.mu.Unlock()

	logger := s.loggerWith(ctx, "Logout", "user", user)
	if s.users != nil {
		if err := s.users.ClearRememberedUser(ctx); err != nil {
			logger.ErrorContext(ctx, "failed to clear remembered user", "error", err, "error_kind", ErrorKind(err))
			return err
		}
	}
	logger.InfoContext(ctx, "logged out")
	return nil
}

// RememberedUser returns the name to preselect at the next sign-in.
func (s *AuthService) RememberedUser(ctx context.Context) (string, bool) {
	if s == nil || s.users == nil {
		return "", false
	}
	return s.users.RememberedUser(ctx)
}

// AddUser validates input and adds a staff member.
func (s *AuthService) AddUser(ctx context.Context, input UserInput) (user User, err error) {
	if s == nil {
		err = fmt.Errorf("AuthService is nil")
		return
	}

	name := strings.TrimSpace(input.Name)
	logger := s.loggerWith(ctx, "AddUser", "user", name)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to add user", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "user added")
	}()

	if vErr := validateUserInput(input); vErr.HasErrors() {
		err = vErr
		return
	}

	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	for _, existing := range s.staff {
		if strings.EqualFold(existing.Name, name) {
			s.mu.Unlock()
			err = fmt.Errorf("%w: staff member %q", ErrAlreadyExists, existing.Name)
			return
		}
	}
	user = User{Name: name, PIN: input.PIN}
	s.staff = append(s.staff, user)
	snapshot := append([]User(nil), s.staff...)
	s.mu.Unlock()

	if s.users != nil {
		if sErr := s.users.SaveUsers(ctx, snapshot); sErr != nil {
			logger.ErrorContext(ctx, "failed to save users, keeping in-memory changes",
				"error", sErr, "error_kind", ErrorKind(sErr))
		}
	}
	return
}

// findExact must be called with mu held.
func (s *AuthService) findExact(name string) (User, bool) {
	for _, user := range s.staff {
		if user.Name == name {
			return user, true
		}
	}
	return User{}, false
}

func validateUserInput(input UserInput) *ValidationError {
	vErr := &ValidationError{}
	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "name is required")
	}
	if !pinPattern.MatchString(input.PIN) {
		vErr.add("pin", "PIN must be exactly 4 digits")
	}
	if input.PIN != input.ConfirmPIN {
		vErr.add("confirmPin", "PINs do not match")
	}
	return vErr
}
