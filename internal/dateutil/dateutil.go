// Package dateutil holds calendar-day comparisons and the relative time
// strings shown next to log entries.
package dateutil

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// SameDay reports whether a falls on the same calendar day as ref, evaluated
// in ref's location.
func SameDay(a, ref time.Time) bool {
	a = a.In(ref.Location())
	ay, am, ad := a.Date()
	ry, rm, rd := ref.Date()
	return ay == ry && am == rm && ad == rd
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ShiftDays moves t by the given number of calendar days, keeping the wall
// clock time.
func ShiftDays(t time.Time, days int) time.Time {
	return t.AddDate(0, 0, days)
}

// FormatTimeAgo renders how long ago t happened relative to now.
func FormatTimeAgo(t, now time.Time) string {
	seconds := int64(now.Sub(t) / time.Second)
	if seconds < 60 {
		return "just now"
	}

	minutes := seconds / 60
	if minutes < 60 {
		return fmt.Sprintf("%dm ago", minutes)
	}

	hours := minutes / 60
	if hours < 24 {
		return fmt.Sprintf("%dh ago", hours)
	}

	if hours/24 == 1 {
		return "Yesterday"
	}
	return t.In(now.Location()).Format("Jan 2, 2006")
}

// FormatFollowUp renders a follow-up due time relative to now, e.g.
// "2 hours from now" or "3 hours ago".
func FormatFollowUp(due, now time.Time) string {
	return humanize.RelTime(due, now, "ago", "from now")
}
