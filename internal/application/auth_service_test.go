package application_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/example/frontdesk-log/internal/application"
	"github.com/example/frontdesk-log/internal/testfixtures"
)

func newAuth(t *testing.T, store *testfixtures.UserStore) *application.AuthService {
	t.Helper()
	return testfixtures.NewServiceFactory().NewAuthService(store, nil)
}

func TestAuthService_Login(t *testing.T) {
	t.Parallel()

	t.Run("remembers the user when asked", func(t *testing.T) {
		t.Parallel()

		store := testfixtures.NewUserStore()
		svc := newAuth(t, store)

		session, err := svc.Login(context.Background(), application.LoginParams{Name: "Alice", PIN: "1234", Remember: true})
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if session.UserName != "Alice" || session.ID != "session-1" || !session.StartedAt.Equal(testfixtures.ReferenceTime()) {
			t.Fatalf("unexpected session %+v", session)
		}
		if name, ok := store.RememberedUser(context.Background()); !ok || name != "Alice" {
			t.Fatalf("expected remembered user Alice, got %q (%v)", name, ok)
		}
		if current, ok := svc.Current(); !ok || current != session {
			t.Fatalf("expected current session to match login")
		}
	})

	t.Run("clears a previously remembered user when not asked", func(t *testing.T) {
		t.Parallel()

		store := testfixtures.NewUserStore()
		_ = store.SetRememberedUser(context.Background(), "Bob")
		svc := newAuth(t, store)

		if _, err := svc.Login(context.Background(), application.LoginParams{Name: "Alice", PIN: "1234"}); err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if _, ok := store.RememberedUser(context.Background()); ok {
			t.Fatalf("expected remembered user to be cleared")
		}
	})

	t.Run("wrong pin changes nothing", func(t *testing.T) {
		t.Parallel()

		for _, remembered := range []string{"", "Bob"} {
			store := testfixtures.NewUserStore()
			if remembered != "" {
				_ = store.SetRememberedUser(context.Background(), remembered)
			}
			svc := newAuth(t, store)

			_, err := svc.Login(context.Background(), application.LoginParams{Name: "Alice", PIN: "0000", Remember: true})
			if !errors.Is(err, application.ErrInvalidPIN) {
				t.Fatalf("expected ErrInvalidPIN, got %v", err)
			}
			name, ok := store.RememberedUser(context.Background())
			if name != remembered || ok != (remembered != "") {
				t.Fatalf("expected remembered user %q to be untouched, got %q (%v)", remembered, name, ok)
			}
			if _, ok := svc.Current(); ok {
				t.Fatalf("expected no session after failed login")
			}
		}
	})

	t.Run("name must match exactly", func(t *testing.T) {
		t.Parallel()

		svc := newAuth(t, testfixtures.NewUserStore())
		for _, name := range []string{"alice", " Alice", "Nobody"} {
			if _, err := svc.Login(context.Background(), application.LoginParams{Name: name, PIN: "1234"}); !errors.Is(err, application.ErrInvalidPIN) {
				t.Fatalf("expected ErrInvalidPIN for %q, got %v", name, err)
			}
		}
	})
}

func TestAuthService_Logout(t *testing.T) {
	t.Parallel()

	store := testfixtures.NewUserStore()
	svc := newAuth(t, store)
	ctx := context.Background()

	if _, err := svc.Login(ctx, application.LoginParams{Name: "Manager Dave", PIN: "0000", Remember: true}); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if name, ok := svc.RememberedUser(ctx); !ok || name != "Manager Dave" {
		t.Fatalf("expected remembered user, got %q", name)
	}
	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if _, ok := svc.Current(); ok {
		t.Fatalf("expected session to end")
	}
	if _, ok := svc.RememberedUser(ctx); ok {
		t.Fatalf("expected remembered user to be cleared")
	}
}

func TestAuthService_AddUser(t *testing.T) {
	t.Parallel()

	t.Run("validates input", func(t *testing.T) {
		t.Parallel()

		store := testfixtures.NewUserStore()
		svc := newAuth(t, store)

		cases := []struct {
			input application.UserInput
			field string
		}{
			{application.UserInput{Name: "  ", PIN: "1111", ConfirmPIN: "1111"}, "name"},
			{application.UserInput{Name: "Erin", PIN: "123", ConfirmPIN: "123"}, "pin"},
			{application.UserInput{Name: "Erin", PIN: "12a4", ConfirmPIN: "12a4"}, "pin"},
			{application.UserInput{Name: "Erin", PIN: "12345", ConfirmPIN: "12345"}, "pin"},
			{application.UserInput{Name: "Erin", PIN: "1111", ConfirmPIN: "2222"}, "confirmPin"},
		}
		for _, tc := range cases {
			_, err := svc.AddUser(context.Background(), tc.input)
			var vErr *application.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected validation error for %+v, got %v", tc.input, err)
			}
			if _, ok := vErr.FieldErrors[tc.field]; !ok {
				t.Fatalf("expected %s error for %+v, got %v", tc.field, tc.input, vErr.FieldErrors)
			}
		}
		if store.Saves() != 0 || len(svc.Users()) != 4 {
			t.Fatalf("expected rejected input to leave users untouched")
		}
	})

	t.Run("rejects duplicate names case-insensitively", func(t *testing.T) {
		t.Parallel()

		svc := newAuth(t, testfixtures.NewUserStore())
		_, err := svc.AddUser(context.Background(), application.UserInput{Name: " bob ", PIN: "1111", ConfirmPIN: "1111"})
		if !errors.Is(err, application.ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})

	t.Run("adds and persists a trimmed user", func(t *testing.T) {
		t.Parallel()

		store := testfixtures.NewUserStore()
		svc := newAuth(t, store)

		user, err := svc.AddUser(context.Background(), application.UserInput{Name: " Sarah Miller ", PIN: "2468", ConfirmPIN: "2468"})
		if err != nil {
			t.Fatalf("AddUser failed: %v", err)
		}
		if user.Name != "Sarah Miller" {
			t.Fatalf("expected trimmed name, got %q", user.Name)
		}
		saved := store.LoadUsers(context.Background())
		if len(saved) != 5 || saved[4] != user {
			t.Fatalf("expected user to be written through, got %+v", saved)
		}
		if _, err := svc.Login(context.Background(), application.LoginParams{Name: "Sarah Miller", PIN: "2468"}); err != nil {
			t.Fatalf("expected new user to log in: %v", err)
		}
	})

	t.Run("keeps the user when the write fails", func(t *testing.T) {
		t.Parallel()

		store := testfixtures.NewUserStore()
		store.SaveErr = errors.New("quota exceeded")
		svc := newAuth(t, store)

		if _, err := svc.AddUser(context.Background(), application.UserInput{Name: "Erin", PIN: "1357", ConfirmPIN: "1357"}); err != nil {
			t.Fatalf("expected write failure to be swallowed, got %v", err)
		}
		if len(svc.Users()) != 5 {
			t.Fatalf("expected in-memory user list to keep the new user")
		}
	})
}

// gatedUserStore holds its first save until release is closed.
type gatedUserStore struct {
	*testfixtures.UserStore
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (s *gatedUserStore) SaveUsers(ctx context.Context, users []application.User) error {
	first := false
	s.once.Do(func() { first = true })
	if first {
		close(s.entered)
		<-s.release
	}
	return s.UserStore.SaveUsers(ctx, users)
}

func TestAuthService_ConcurrentAddsKeepEveryUser(t *testing.T) {
	t.Parallel()

	store := &gatedUserStore{
		UserStore: testfixtures.NewUserStore(),
		entered:   make(chan struct{}),
		release:   make(chan struct{}),
	}
	svc := testfixtures.NewServiceFactory().NewAuthService(store, nil)

	done := make(chan error, 2)
	go func() {
		_, err := svc.AddUser(context.Background(), application.UserInput{Name: "Erin", PIN: "1111", ConfirmPIN: "1111"})
		done <- err
	}()
	<-store.entered

	go func() {
		_, err := svc.AddUser(context.Background(), application.UserInput{Name: "Finn", PIN: "2222", ConfirmPIN: "2222"})
		done <- err
	}()
	time.Sleep(20 * time.Millisecond)
	close(store.release)

	for i := 0; i < 2; i++ {
		if err := <-done; err != nil {
			t.Fatalf("AddUser failed: %v", err)
		}
	}
	if saved := store.LoadUsers(context.Background()); len(saved) != 6 {
		t.Fatalf("expected both users stored, got %+v", saved)
	}
}
