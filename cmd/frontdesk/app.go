package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/example/frontdesk-log/internal/application"
	"github.com/example/frontdesk-log/internal/persistence"
)

const usageText = `usage: frontdesk <command> [flags]

commands:
  login       sign in and optionally remember the staff member
  logout      forget the remembered staff member
  users       list | add
  log         add | edit | status | list
  dashboard   entries that need attention
  guests      list | add | rename | delete | history
  report      activity counts for the last 7, 30 or 90 days

Changes are attributed to --staff (default: the remembered staff member)
after the PIN is checked.`

// usageError marks mistakes in the command line itself.
type usageError struct {
	msg string
}

func (e usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}

type appOptions struct {
	Now        func() time.Time
	Logger     *slog.Logger
	Stdin      io.Reader
	Stdout     io.Writer
	Stderr     io.Writer
	ReportDays application.ReportWindow
	// IDGenerator produces session identifiers; defaults to random UUIDs.
	IDGenerator func() string
}

// app is one invocation of the CLI over a loaded shift log.
type app struct {
	now        func() time.Time
	logger     *slog.Logger
	stdin      io.Reader
	lines      *bufio.Reader
	stdout     io.Writer
	stderr     io.Writer
	reportDays application.ReportWindow
	ui         styles

	logs *application.LogService
	auth *application.AuthService
}

func newApp(store *persistence.Store, opts appOptions) *app {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = discardLogger()
	}
	if opts.Stdin == nil {
		opts.Stdin = strings.NewReader("")
	}
	if opts.Stdout == nil {
		opts.Stdout = io.Discard
	}
	if opts.Stderr == nil {
		opts.Stderr = io.Discard
	}
	if !opts.ReportDays.Valid() {
		opts.ReportDays = application.ReportLast30Days
	}
	if opts.IDGenerator == nil {
		opts.IDGenerator = uuid.NewString
	}

	ctx := context.Background()
	logs := application.NewLogServiceWithLogger(newLogStoreAdapter(store), opts.Now, opts.Logger)
	logs.Load(ctx)
	auth := application.NewAuthServiceWithLogger(newUserStoreAdapter(store, store), opts.IDGenerator, opts.Now, opts.Logger)
	auth.Load(ctx)

	return &app{
		now:        opts.Now,
		logger:     opts.Logger,
		stdin:      opts.Stdin,
		lines:      bufio.NewReader(opts.Stdin),
		stdout:     opts.Stdout,
		stderr:     opts.Stderr,
		reportDays: opts.ReportDays,
		ui:         newStyles(opts.Stdout),
		logs:       logs,
		auth:       auth,
	}
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usagef("missing command")
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "login":
		return a.login(ctx, rest)
	case "logout":
		return a.logout(ctx, rest)
	case "users":
		return a.subcommand(ctx, "users", rest, map[string]func(context.Context, []string) error{
			"list": a.usersList,
			"add":  a.usersAdd,
		})
	case "log":
		return a.subcommand(ctx, "log", rest, map[string]func(context.Context, []string) error{
			"add":    a.logAdd,
			"edit":   a.logEdit,
			"status": a.logStatus,
			"list":   a.logList,
		})
	case "dashboard":
		return a.dashboard(ctx, rest)
	case "guests":
		return a.subcommand(ctx, "guests", rest, map[string]func(context.Context, []string) error{
			"list":    a.guestsList,
			"add":     a.guestsAdd,
			"rename":  a.guestsRename,
			"delete":  a.guestsDelete,
			"history": a.guestsHistory,
		})
	case "report":
		return a.report(ctx, rest)
	case "help", "-h", "--help":
		fmt.Fprintln(a.stdout, usageText)
		return nil
	}
	return usagef("unknown command %q", cmd)
}

func (a *app) subcommand(ctx context.Context, name string, args []string, handlers map[string]func(context.Context, []string) error) error {
	if len(args) == 0 {
		return usagef("%s: missing subcommand (%s)", name, strings.Join(sortedKeys(handlers), ", "))
	}
	handler, ok := handlers[args[0]]
	if !ok {
		return usagef("%s: unknown subcommand %q", name, args[0])
	}
	return handler(ctx, args[1:])
}

// exit prints err and maps it to a process exit code.
func (a *app) exit(err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}

	var usage usageError
	if errors.As(err, &usage) {
		fmt.Fprintln(a.stderr, "frontdesk:", usage.msg)
		fmt.Fprintln(a.stderr, usageText)
		return 2
	}

	var vErr *application.ValidationError
	if errors.As(err, &vErr) {
		fmt.Fprintln(a.stderr, "frontdesk: please fix the following:")
		fields := make([]string, 0, len(vErr.FieldErrors))
		for field := range vErr.FieldErrors {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			fmt.Fprintf(a.stderr, "  %s: %s\n", field, vErr.FieldErrors[field])
		}
		return 1
	}

	switch {
	case errors.Is(err, application.ErrInvalidPIN):
		fmt.Fprintln(a.stderr, "frontdesk: invalid PIN")
	case errors.Is(err, application.ErrAlreadyExists):
		fmt.Fprintln(a.stderr, "frontdesk: a staff member with that name already exists")
	case errors.Is(err, application.ErrConfirmationRequired):
		fmt.Fprintln(a.stderr, "frontdesk: not deleted; confirm with --yes")
	default:
		fmt.Fprintln(a.stderr, "frontdesk:", err)
	}
	return 1
}

func (a *app) newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(a.stderr)
	fs.SortFlags = false
	return fs
}

// authFlags are shared by every command that changes the log.
type authFlags struct {
	staff string
	pin   string
}

func (a *app) addAuthFlags(fs *pflag.FlagSet) *authFlags {
	flags := &authFlags{}
	fs.StringVar(&flags.staff, "staff", "", "staff member making the change (default: remembered staff member)")
	fs.StringVar(&flags.pin, "pin", "", "staff PIN (prompted when omitted)")
	return flags
}

// signIn checks the staff member's PIN before a change is attributed to them.
// The remembered user survives only when it is the one signing in.
func (a *app) signIn(ctx context.Context, flags *authFlags) (application.Session, error) {
	name := strings.TrimSpace(flags.staff)
	remembered, hasRemembered := a.auth.RememberedUser(ctx)
	if name == "" {
		if !hasRemembered {
			return application.Session{}, usagef("--staff is required when no staff member is remembered")
		}
		name = remembered
	}

	pin := flags.pin
	if pin == "" {
		var err error
		if pin, err = a.readPIN(fmt.Sprintf("PIN for %s: ", name)); err != nil {
			return application.Session{}, err
		}
	}

	return a.auth.Login(ctx, application.LoginParams{
		Name:     name,
		PIN:      pin,
		Remember: hasRemembered && remembered == name,
	})
}

// readPIN prompts without echo on a terminal and reads a plain line otherwise.
func (a *app) readPIN(prompt string) (string, error) {
	if f, ok := a.stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(a.stderr, prompt)
		pin, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(a.stderr)
		if err != nil {
			return "", fmt.Errorf("reading PIN: %w", err)
		}
		return string(pin), nil
	}
	line, err := a.readLine()
	if err != nil {
		return "", fmt.Errorf("reading PIN: %w", err)
	}
	return line, nil
}

// confirm asks a yes/no question; anything but y or yes declines.
func (a *app) confirm(prompt string) bool {
	fmt.Fprintf(a.stderr, "%s [y/N]: ", prompt)
	line, err := a.readLine()
	if err != nil {
		return false
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return true
	}
	return false
}

func (a *app) readLine() (string, error) {
	line, err := a.lines.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
