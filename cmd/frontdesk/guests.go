package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/example/frontdesk-log/internal/application"
)

func bindGuestName(fs *pflag.FlagSet, prefix string) *application.GuestName {
	name := &application.GuestName{}
	fs.StringVar(&name.FirstName, prefix+"first", "", "guest first name")
	fs.StringVar(&name.LastName, prefix+"last", "", "guest last name")
	return name
}

func (a *app) guestsList(ctx context.Context, args []string) error {
	fs := a.newFlagSet("guests list")
	query := fs.StringP("query", "q", "", "search name, phone or email")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rows := application.SearchGuests(application.GuestDirectory(a.logs.Entries()), *query)
	if len(rows) == 0 {
		fmt.Fprintln(a.stdout, a.ui.muted.Render("No guests found."))
		return nil
	}

	table := make([][]string, 0, len(rows))
	for _, row := range rows {
		table = append(table, []string{
			strings.TrimSpace(row.FirstName + " " + row.LastName),
			row.PhoneNumber,
			row.Email,
			strconv.Itoa(row.LogCount),
			truncate(row.Notes, maxDescriptionWidth),
		})
	}
	fmt.Fprint(a.stdout, a.ui.table([]string{"Guest", "Phone", "Email", "Entries", "Notes"}, table))
	return nil
}

func (a *app) guestsAdd(ctx context.Context, args []string) error {
	fs := a.newFlagSet("guests add")
	auth := a.addAuthFlags(fs)
	name := bindGuestName(fs, "")
	phone := fs.String("phone", "", "guest phone number")
	email := fs.String("email", "", "guest email")
	notes := fs.String("notes", "", "guest notes")
	if err := fs.Parse(args); err != nil {
		return err
	}

	session, err := a.signIn(ctx, auth)
	if err != nil {
		return err
	}
	entry, err := a.logs.AddGuest(ctx, session.UserName, application.GuestProfile{
		FirstName:   name.FirstName,
		LastName:    name.LastName,
		PhoneNumber: *phone,
		Email:       *email,
		Notes:       *notes,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Added guest %s.\n", strings.TrimSpace(entry.GuestFullName()))
	return nil
}

// guestsRename starts from the guest's current profile so only the flags
// given are changed.
func (a *app) guestsRename(ctx context.Context, args []string) error {
	fs := a.newFlagSet("guests rename")
	auth := a.addAuthFlags(fs)
	from := bindGuestName(fs, "from-")
	first := fs.String("first", "", "new first name")
	last := fs.String("last", "", "new last name")
	phone := fs.String("phone", "", "new phone number")
	email := fs.String("email", "", "new email")
	notes := fs.String("notes", "", "new notes")
	if err := fs.Parse(args); err != nil {
		return err
	}

	current, ok := a.findGuest(*from)
	if !ok {
		return guestNotFound(*from)
	}
	profile := application.GuestProfile{
		FirstName:   current.FirstName,
		LastName:    current.LastName,
		PhoneNumber: current.PhoneNumber,
		Email:       current.Email,
		Notes:       current.Notes,
	}
	overrides := []struct {
		flag  string
		value string
		field *string
	}{
		{"first", *first, &profile.FirstName},
		{"last", *last, &profile.LastName},
		{"phone", *phone, &profile.PhoneNumber},
		{"email", *email, &profile.Email},
		{"notes", *notes, &profile.Notes},
	}
	for _, o := range overrides {
		if fs.Changed(o.flag) {
			*o.field = o.value
		}
	}

	if _, err := a.signIn(ctx, auth); err != nil {
		return err
	}
	count, err := a.logs.RenameGuest(ctx, current.Name(), profile)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Updated %d %s.\n", count, plural(count, "entry", "entries"))
	return nil
}

func (a *app) guestsDelete(ctx context.Context, args []string) error {
	fs := a.newFlagSet("guests delete")
	auth := a.addAuthFlags(fs)
	name := bindGuestName(fs, "")
	yes := fs.BoolP("yes", "y", false, "delete without asking")
	if err := fs.Parse(args); err != nil {
		return err
	}

	current, ok := a.findGuest(*name)
	if !ok {
		return guestNotFound(*name)
	}
	if _, err := a.signIn(ctx, auth); err != nil {
		return err
	}

	confirmed := *yes
	if !confirmed {
		confirmed = a.confirm(fmt.Sprintf("Delete %s and all %d %s? This cannot be undone.",
			strings.TrimSpace(current.FirstName+" "+current.LastName), current.LogCount, plural(current.LogCount, "entry", "entries")))
	}
	count, err := a.logs.DeleteGuest(ctx, current.Name(), confirmed)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Deleted %d %s.\n", count, plural(count, "entry", "entries"))
	return nil
}

func (a *app) guestsHistory(ctx context.Context, args []string) error {
	fs := a.newFlagSet("guests history")
	name := bindGuestName(fs, "")
	if err := fs.Parse(args); err != nil {
		return err
	}

	current, ok := a.findGuest(*name)
	if !ok {
		return guestNotFound(*name)
	}

	fmt.Fprintln(a.stdout, a.ui.title.Render(strings.TrimSpace(current.FirstName+" "+current.LastName)))
	for _, detail := range []string{current.PhoneNumber, current.Email, current.Notes} {
		if detail != "" {
			fmt.Fprintln(a.stdout, a.ui.muted.Render(detail))
		}
	}
	fmt.Fprintln(a.stdout)

	now := a.now()
	history := application.GuestHistory(a.logs.Entries(), current.Name())
	fmt.Fprint(a.stdout, a.ui.table(entryHeaders, a.ui.entryRows(history, now)))
	return nil
}

// findGuest looks a guest up in the directory by case-insensitive name.
func (a *app) findGuest(name application.GuestName) (application.GuestSummary, bool) {
	key := name.Key()
	if key == "" {
		return application.GuestSummary{}, false
	}
	for _, row := range application.GuestDirectory(a.logs.Entries()) {
		if row.Key == key {
			return row, true
		}
	}
	return application.GuestSummary{}, false
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func guestNotFound(name application.GuestName) error {
	return fmt.Errorf("no guest named %q: %w", strings.TrimSpace(name.FirstName+" "+name.LastName), application.ErrNotFound)
}
