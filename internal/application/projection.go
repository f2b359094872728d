package application

import (
	"sort"
	"strings"

	"github.com/example/frontdesk-log/internal/dateutil"
)

// DailyLog projects the entries logged on query.Date. Counts are taken over
// the whole day before the text and status filters narrow the list.
func DailyLog(entries []LogEntry, query DailyLogQuery) DailyLogView {
	var view DailyLogView

	day := make([]LogEntry, 0, len(entries))
	for _, entry := range entries {
		if !dateutil.SameDay(entry.Timestamp, query.Date) {
			continue
		}
		day = append(day, entry.clone())
		view.Counts.add(entry)
	}

	// A blank query disables the text filter; otherwise it is matched as typed.
	filterText := strings.TrimSpace(query.Query) != ""
	needle := strings.ToLower(query.Query)
	view.Entries = make([]LogEntry, 0, len(day))
	for _, entry := range day {
		if filterText && !matchesText(entry, needle) {
			continue
		}
		if !matchesFilter(entry, query.Filter) {
			continue
		}
		view.Entries = append(view.Entries, entry)
	}

	sortByTimestamp(view.Entries, query.Sort)
	return view
}

func (c *DailyLogCounts) add(entry LogEntry) {
	c.Total++
	switch entry.Status {
	case StatusOpen:
		c.Open++
	case StatusInProgress:
		c.InProgress++
	case StatusResolved:
		c.Resolved++
	}
	if entry.ManagerFollowUp {
		c.FollowUp++
	}
}

// matchesText expects needle to be lowercased already.
func matchesText(entry LogEntry, needle string) bool {
	for _, field := range []string{entry.RoomNumber, entry.GuestFullName(), entry.Description, entry.Staff} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func matchesFilter(entry LogEntry, filter StatusFilter) bool {
	switch filter {
	case FilterOpen:
		return entry.Status == StatusOpen
	case FilterInProgress:
		return entry.Status == StatusInProgress
	case FilterResolved:
		return entry.Status == StatusResolved
	case FilterHandover:
		return entry.Status == StatusOpen || entry.Status == StatusInProgress
	case FilterFollowUp:
		return entry.ManagerFollowUp
	default:
		return true
	}
}

// sortByTimestamp orders newest first unless order is SortOldest.
func sortByTimestamp(entries []LogEntry, order SortOrder) {
	sort.SliceStable(entries, func(i, j int) bool {
		if order == SortOldest {
			return entries[i].Timestamp.Before(entries[j].Timestamp)
		}
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
}
