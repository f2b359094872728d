package application

import (
	"strings"
	"time"

	"github.com/example/frontdesk-log/internal/dateutil"
)

// Category classifies what a log entry is about.
type Category string

const (
	CategoryRequest     Category = "Request"
	CategoryComplaint   Category = "Complaint"
	CategoryMaintenance Category = "Maintenance"
	CategoryNote        Category = "Note"
)

// Categories lists every category in display order.
func Categories() []Category {
	return []Category{CategoryRequest, CategoryComplaint, CategoryMaintenance, CategoryNote}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryRequest, CategoryComplaint, CategoryMaintenance, CategoryNote:
		return true
	}
	return false
}

// Status tracks how far an entry is from being resolved. Any status may move
// to any other.
type Status string

const (
	StatusOpen       Status = "Open"
	StatusInProgress Status = "In Progress"
	StatusResolved   Status = "Resolved"
)

// Statuses lists every status in workflow order.
func Statuses() []Status {
	return []Status{StatusOpen, StatusInProgress, StatusResolved}
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

// Priority ranks how urgently an entry needs attention.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Priorities lists every priority from lowest to highest.
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	return p.rank() > 0
}

func (p Priority) rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	}
	return 0
}

// LogEntry is one recorded front-desk interaction.
type LogEntry struct {
	ID               int64
	Timestamp        time.Time
	RoomNumber       string
	GuestFirstName   string
	GuestLastName    string
	GuestPhoneNumber string
	GuestEmail       string
	GuestNotes       string
	Category         Category
	Description      string
	Status           Status
	Staff            string
	ManagerFollowUp  bool
	Priority         Priority
	FollowUpDate     *time.Time
}

// GuestFullName joins the stored first and last name with a single space.
func (e LogEntry) GuestFullName() string {
	return e.GuestFirstName + " " + e.GuestLastName
}

// GuestKey is the case-insensitive guest identity of the entry. It is empty
// when no guest is attached.
func (e LogEntry) GuestKey() string {
	return GuestName{FirstName: e.GuestFirstName, LastName: e.GuestLastName}.Key()
}

// FollowUpOverdue reports whether a scheduled follow-up has passed without
// the entry being resolved.
func (e LogEntry) FollowUpOverdue(now time.Time) bool {
	return e.FollowUpDate != nil && e.FollowUpDate.Before(now) && e.Status != StatusResolved
}

// FollowUpUpcoming reports whether an unresolved follow-up is still due later
// on now's calendar day.
func (e LogEntry) FollowUpUpcoming(now time.Time) bool {
	if e.FollowUpDate == nil || e.Status == StatusResolved || e.FollowUpOverdue(now) {
		return false
	}
	return dateutil.SameDay(*e.FollowUpDate, now)
}

// CarriedOver reports whether an unresolved entry was logged on an earlier
// shift day than now.
func (e LogEntry) CarriedOver(now time.Time) bool {
	return e.Status != StatusResolved && !dateutil.SameDay(e.Timestamp, now)
}

func (e LogEntry) clone() LogEntry {
	if e.FollowUpDate != nil {
		due := *e.FollowUpDate
		e.FollowUpDate = &due
	}
	return e
}

// LogInput captures the caller provided fields of a new log entry.
type LogInput struct {
	RoomNumber       string
	GuestFirstName   string
	GuestLastName    string
	GuestPhoneNumber string
	GuestEmail       string
	GuestNotes       string
	Category         Category
	Description      string
	ManagerFollowUp  bool
	Priority         Priority
	FollowUpDate     *time.Time
}

// LogPatch names the fields an edit changes. Nil fields are left untouched.
// ClearFollowUpDate removes a scheduled follow-up and wins over FollowUpDate.
type LogPatch struct {
	RoomNumber        *string
	GuestFirstName    *string
	GuestLastName     *string
	GuestPhoneNumber  *string
	GuestEmail        *string
	GuestNotes        *string
	Category          *Category
	Description       *string
	Status            *Status
	Staff             *string
	ManagerFollowUp   *bool
	Priority          *Priority
	FollowUpDate      *time.Time
	ClearFollowUpDate bool
}

// IsEmpty reports whether the patch changes nothing.
func (p LogPatch) IsEmpty() bool {
	return p.RoomNumber == nil && p.GuestFirstName == nil && p.GuestLastName == nil &&
		p.GuestPhoneNumber == nil && p.GuestEmail == nil && p.GuestNotes == nil &&
		p.Category == nil && p.Description == nil && p.Status == nil && p.Staff == nil &&
		p.ManagerFollowUp == nil && p.Priority == nil && p.FollowUpDate == nil && !p.ClearFollowUpDate
}

// GuestName identifies a guest by the names stored on their entries.
type GuestName struct {
	FirstName string
	LastName  string
}

// Key returns the lowercase, trimmed "first last" identity.
func (n GuestName) Key() string {
	return strings.ToLower(strings.TrimSpace(n.FirstName + " " + n.LastName))
}

// GuestProfile is the editable guest snapshot used by the directory.
type GuestProfile struct {
	FirstName   string
	LastName    string
	PhoneNumber string
	Email       string
	Notes       string
}

// Name returns the profile's identifying name.
func (p GuestProfile) Name() GuestName {
	return GuestName{FirstName: p.FirstName, LastName: p.LastName}
}

// GuestSummary is one row of the guest directory.
type GuestSummary struct {
	Key         string
	FirstName   string
	LastName    string
	PhoneNumber string
	Email       string
	Notes       string
	LogCount    int
}

// User is a staff member allowed to sign in.
type User struct {
	Name string
	PIN  string
}

// UserInput captures the add-user form.
type UserInput struct {
	Name       string
	PIN        string
	ConfirmPIN string
}

// LoginParams captures a sign-in attempt.
type LoginParams struct {
	Name     string
	PIN      string
	Remember bool
}

// Session represents a signed-in staff member.
type Session struct {
	ID        string
	UserName  string
	StartedAt time.Time
}

// StatusFilter selects which entries the daily log shows.
type StatusFilter string

const (
	FilterAll        StatusFilter = "All"
	FilterOpen       StatusFilter = "Open"
	FilterInProgress StatusFilter = "In Progress"
	FilterResolved   StatusFilter = "Resolved"
	// FilterHandover shows everything still needing attention at shift change.
	FilterHandover StatusFilter = "Handover"
	FilterFollowUp StatusFilter = "Follow-Up"
)

// StatusFilters lists every filter in display order.
func StatusFilters() []StatusFilter {
	return []StatusFilter{FilterAll, FilterOpen, FilterInProgress, FilterResolved, FilterHandover, FilterFollowUp}
}

// Valid reports whether f is a known filter.
func (f StatusFilter) Valid() bool {
	for _, known := range StatusFilters() {
		if f == known {
			return true
		}
	}
	return false
}

// SortOrder orders the daily log by timestamp.
type SortOrder string

const (
	SortNewest SortOrder = "newest"
	SortOldest SortOrder = "oldest"
)

// DailyLogQuery describes one rendering of the daily log.
type DailyLogQuery struct {
	Date   time.Time
	Filter StatusFilter
	Sort   SortOrder
	Query  string
}

// DailyLogCounts summarises the entries logged on the selected day.
type DailyLogCounts struct {
	Total      int
	Open       int
	InProgress int
	Resolved   int
	FollowUp   int
}

// DailyLogView is the projected daily log.
type DailyLogView struct {
	Entries []LogEntry
	Counts  DailyLogCounts
}

// DashboardView groups the entries that need someone's attention.
type DashboardView struct {
	ActionRequired    []LogEntry
	ManagerReview     []LogEntry
	FollowUps         []LogEntry
	FollowUpCount     int
	OverdueFollowUps  int
	UpcomingFollowUps int
}

// ReportWindow is the number of days a report looks back.
type ReportWindow int

const (
	ReportLast7Days  ReportWindow = 7
	ReportLast30Days ReportWindow = 30
	ReportLast90Days ReportWindow = 90
)

// Valid reports whether w is one of the supported windows.
func (w ReportWindow) Valid() bool {
	return w == ReportLast7Days || w == ReportLast30Days || w == ReportLast90Days
}

// GroupField names the entry field a report groups by.
type GroupField string

const (
	GroupByCategory GroupField = "category"
	GroupByStaff    GroupField = "staff"
	GroupByPriority GroupField = "priority"
	GroupByStatus   GroupField = "status"
)

// GroupFields lists every grouping in display order.
func GroupFields() []GroupField {
	return []GroupField{GroupByCategory, GroupByStaff, GroupByPriority, GroupByStatus}
}

// ReportBar is one labelled count in a report chart.
type ReportBar struct {
	Label string
	Count int
	Color string
}

// ReportSummary holds every grouping for one report window.
type ReportSummary struct {
	Window     ReportWindow
	Cutoff     time.Time
	Total      int
	ByCategory []ReportBar
	ByStaff    []ReportBar
	ByPriority []ReportBar
	ByStatus   []ReportBar
}
