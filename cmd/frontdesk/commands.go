package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/example/frontdesk-log/internal/application"
)

var followUpLayouts = []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02T15:04"}

func (a *app) login(ctx context.Context, args []string) error {
	fs := a.newFlagSet("login")
	name := fs.String("name", "", "staff member (default: remembered staff member)")
	pin := fs.String("pin", "", "staff PIN (prompted when omitted)")
	remember := fs.Bool("remember", false, "preselect this staff member next time")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if strings.TrimSpace(*name) == "" {
		remembered, ok := a.auth.RememberedUser(ctx)
		if !ok {
			return usagef("login: --name is required")
		}
		*name = remembered
	}
	if *pin == "" {
		var err error
		if *pin, err = a.readPIN(fmt.Sprintf("PIN for %s: ", *name)); err != nil {
			return err
		}
	}

	session, err := a.auth.Login(ctx, application.LoginParams{Name: *name, PIN: *pin, Remember: *remember})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Signed in as %s.\n", session.UserName)
	return nil
}

func (a *app) logout(ctx context.Context, args []string) error {
	fs := a.newFlagSet("logout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, "Signed out.")
	return nil
}

func (a *app) usersList(ctx context.Context, args []string) error {
	fs := a.newFlagSet("users list")
	if err := fs.Parse(args); err != nil {
		return err
	}

	remembered, _ := a.auth.RememberedUser(ctx)
	rows := make([][]string, 0)
	for _, user := range a.auth.Users() {
		mark := ""
		if user.Name == remembered {
			mark = a.ui.accent.Render("remembered")
		}
		rows = append(rows, []string{user.Name, mark})
	}
	fmt.Fprint(a.stdout, a.ui.table([]string{"Name", ""}, rows))
	return nil
}

func (a *app) usersAdd(ctx context.Context, args []string) error {
	fs := a.newFlagSet("users add")
	name := fs.String("name", "", "staff member name")
	pin := fs.String("pin", "", "4-digit PIN (prompted when omitted)")
	confirmPIN := fs.String("confirm-pin", "", "repeat the PIN (prompted when omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *pin == "" {
		var err error
		if *pin, err = a.readPIN("New PIN: "); err != nil {
			return err
		}
	}
	if *confirmPIN == "" {
		var err error
		if *confirmPIN, err = a.readPIN("Confirm PIN: "); err != nil {
			return err
		}
	}

	user, err := a.auth.AddUser(ctx, application.UserInput{Name: *name, PIN: *pin, ConfirmPIN: *confirmPIN})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Added staff member %s.\n", user.Name)
	return nil
}

// entryFlags binds the editable log entry fields to a flag set.
type entryFlags struct {
	room, first, last, phone, email, notes string
	category, description, priority        string
	status, staffName, followUp            string
	manager, clearFollowUp                 bool
}

func bindEntryFlags(fs *pflag.FlagSet, edit bool) *entryFlags {
	f := &entryFlags{}
	fs.StringVar(&f.room, "room", "", "room number")
	fs.StringVar(&f.first, "first", "", "guest first name")
	fs.StringVar(&f.last, "last", "", "guest last name")
	fs.StringVar(&f.phone, "phone", "", "guest phone number")
	fs.StringVar(&f.email, "email", "", "guest email")
	fs.StringVar(&f.notes, "notes", "", "guest notes")
	fs.StringVar(&f.category, "category", "", "Request, Complaint, Maintenance or Note")
	fs.StringVar(&f.description, "description", "", "what happened")
	fs.StringVar(&f.priority, "priority", "", "Low, Medium or High")
	fs.BoolVar(&f.manager, "manager", false, "flag for manager follow-up")
	fs.StringVar(&f.followUp, "follow-up", "", `follow-up time ("2006-01-02 15:04" or RFC 3339)`)
	if edit {
		fs.StringVar(&f.status, "status", "", "Open, In Progress or Resolved")
		fs.StringVar(&f.staffName, "set-staff", "", "reattribute the entry to another staff member")
		fs.BoolVar(&f.clearFollowUp, "clear-follow-up", false, "remove the scheduled follow-up")
	}
	return f
}

func (a *app) logAdd(ctx context.Context, args []string) error {
	fs := a.newFlagSet("log add")
	auth := a.addAuthFlags(fs)
	f := bindEntryFlags(fs, false)
	if err := fs.Parse(args); err != nil {
		return err
	}

	followUp, err := a.parseFollowUp(f.followUp)
	if err != nil {
		return err
	}
	session, err := a.signIn(ctx, auth)
	if err != nil {
		return err
	}

	entry, err := a.logs.Append(ctx, session.UserName, application.LogInput{
		RoomNumber:       f.room,
		GuestFirstName:   f.first,
		GuestLastName:    f.last,
		GuestPhoneNumber: f.phone,
		GuestEmail:       f.email,
		GuestNotes:       f.notes,
		Category:         application.Category(f.category),
		Description:      f.description,
		ManagerFollowUp:  f.manager,
		Priority:         application.Priority(f.priority),
		FollowUpDate:     followUp,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Logged entry %d for room %s.\n", entry.ID, entry.RoomNumber)
	return nil
}

func (a *app) logEdit(ctx context.Context, args []string) error {
	fs := a.newFlagSet("log edit")
	auth := a.addAuthFlags(fs)
	f := bindEntryFlags(fs, true)
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := entryID(fs.Args(), "log edit ID [flags]")
	if err != nil {
		return err
	}

	patch, err := a.buildPatch(fs, f)
	if err != nil {
		return err
	}
	if patch.IsEmpty() {
		return usagef("log edit: nothing to change")
	}
	if _, err := a.signIn(ctx, auth); err != nil {
		return err
	}

	updated, err := a.logs.UpdateFields(ctx, id, patch)
	if err != nil {
		return err
	}
	if !updated {
		fmt.Fprintf(a.stdout, "No entry %d; nothing changed.\n", id)
		return nil
	}
	fmt.Fprintf(a.stdout, "Updated entry %d.\n", id)
	return nil
}

// buildPatch turns the flags that were actually given into a LogPatch.
func (a *app) buildPatch(fs *pflag.FlagSet, f *entryFlags) (application.LogPatch, error) {
	var patch application.LogPatch
	str := func(name, value string) *string {
		if !fs.Changed(name) {
			return nil
		}
		return &value
	}
	patch.RoomNumber = str("room", f.room)
	patch.GuestFirstName = str("first", f.first)
	patch.GuestLastName = str("last", f.last)
	patch.GuestPhoneNumber = str("phone", f.phone)
	patch.GuestEmail = str("email", f.email)
	patch.GuestNotes = str("notes", f.notes)
	patch.Description = str("description", f.description)
	patch.Staff = str("set-staff", f.staffName)
	if fs.Changed("category") {
		category := application.Category(f.category)
		patch.Category = &category
	}
	if fs.Changed("priority") {
		priority := application.Priority(f.priority)
		patch.Priority = &priority
	}
	if fs.Changed("status") {
		status := application.Status(f.status)
		patch.Status = &status
	}
	if fs.Changed("manager") {
		manager := f.manager
		patch.ManagerFollowUp = &manager
	}
	if fs.Changed("follow-up") {
		due, err := a.parseFollowUp(f.followUp)
		if err != nil {
			return application.LogPatch{}, err
		}
		patch.FollowUpDate = due
		patch.ClearFollowUpDate = due == nil
	}
	if f.clearFollowUp {
		patch.ClearFollowUpDate = true
	}
	return patch, nil
}

func (a *app) logStatus(ctx context.Context, args []string) error {
	fs := a.newFlagSet("log status")
	auth := a.addAuthFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return usagef("usage: frontdesk log status ID STATUS")
	}
	id, err := entryID(fs.Args()[:1], "log status ID STATUS")
	if err != nil {
		return err
	}
	status := application.Status(strings.Join(fs.Args()[1:], " "))

	if _, err := a.signIn(ctx, auth); err != nil {
		return err
	}
	updated, err := a.logs.SetStatus(ctx, id, status)
	if err != nil {
		return err
	}
	if !updated {
		fmt.Fprintf(a.stdout, "No entry %d; nothing changed.\n", id)
		return nil
	}
	fmt.Fprintf(a.stdout, "Entry %d is now %s.\n", id, status)
	return nil
}

func (a *app) logList(ctx context.Context, args []string) error {
	fs := a.newFlagSet("log list")
	date := fs.String("date", "", "day to show as 2006-01-02 (default: today)")
	filter := fs.String("filter", string(application.FilterAll), "All, Open, In Progress, Resolved, Handover or Follow-Up")
	sortOrder := fs.String("sort", string(application.SortNewest), "newest or oldest")
	query := fs.StringP("query", "q", "", "search room, guest, description or staff")
	if err := fs.Parse(args); err != nil {
		return err
	}

	now := a.now()
	day := now
	if *date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", *date, now.Location())
		if err != nil {
			return usagef("log list: invalid --date %q", *date)
		}
		day = parsed
	}
	if !application.StatusFilter(*filter).Valid() {
		return usagef("log list: unknown --filter %q", *filter)
	}
	if order := application.SortOrder(*sortOrder); order != application.SortNewest && order != application.SortOldest {
		return usagef("log list: unknown --sort %q", *sortOrder)
	}

	view := application.DailyLog(a.logs.Entries(), application.DailyLogQuery{
		Date:   day,
		Filter: application.StatusFilter(*filter),
		Sort:   application.SortOrder(*sortOrder),
		Query:  *query,
	})

	c := view.Counts
	fmt.Fprintln(a.stdout, a.ui.title.Render("Shift log "+day.Format("Mon Jan 2, 2006")))
	fmt.Fprintf(a.stdout, "%d total  %s open  %s in progress  %s resolved  %d follow-up\n\n",
		c.Total,
		a.ui.danger.Render(strconv.Itoa(c.Open)),
		a.ui.warning.Render(strconv.Itoa(c.InProgress)),
		a.ui.success.Render(strconv.Itoa(c.Resolved)),
		c.FollowUp)
	if len(view.Entries) == 0 {
		fmt.Fprintln(a.stdout, a.ui.muted.Render("No entries match."))
		return nil
	}
	fmt.Fprint(a.stdout, a.ui.table(entryHeaders, a.ui.entryRows(view.Entries, now)))
	return nil
}

func (a *app) dashboard(ctx context.Context, args []string) error {
	fs := a.newFlagSet("dashboard")
	if err := fs.Parse(args); err != nil {
		return err
	}

	now := a.now()
	view := application.Dashboard(a.logs.Entries(), now)

	sections := []struct {
		title   string
		entries []application.LogEntry
	}{
		{fmt.Sprintf("Action required (%d)", len(view.ActionRequired)), view.ActionRequired},
		{fmt.Sprintf("Manager review (%d)", view.FollowUpCount), view.ManagerReview},
		{fmt.Sprintf("Follow-ups (%d overdue, %d due today)", view.OverdueFollowUps, view.UpcomingFollowUps), view.FollowUps},
	}
	for i, section := range sections {
		if i > 0 {
			fmt.Fprintln(a.stdout)
		}
		fmt.Fprintln(a.stdout, a.ui.title.Render(section.title))
		if len(section.entries) == 0 {
			fmt.Fprintln(a.stdout, a.ui.muted.Render("Nothing here."))
			continue
		}
		fmt.Fprint(a.stdout, a.ui.table(entryHeaders, a.ui.entryRows(section.entries, now)))
	}
	return nil
}

func (a *app) parseFollowUp(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	loc := a.now().Location()
	for _, layout := range followUpLayouts {
		if due, err := time.ParseInLocation(layout, value, loc); err == nil {
			return &due, nil
		}
	}
	return nil, usagef("invalid --follow-up %q (use \"2006-01-02 15:04\")", value)
}

func entryID(args []string, usage string) (int64, error) {
	if len(args) == 0 {
		return 0, usagef("usage: frontdesk %s", usage)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, usagef("invalid entry id %q", args[0])
	}
	return id, nil
}
