package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/example/frontdesk-log/internal/application"
	"github.com/example/frontdesk-log/internal/dateutil"
)

const (
	colorDanger  = lipgloss.Color("#D91E2A")
	colorWarning = lipgloss.Color("#f0ad4e")
	colorSuccess = lipgloss.Color("#10B981")
	colorMuted   = lipgloss.Color("#7f8c8d")
	colorAccent  = lipgloss.Color("#0A66C2")

	maxBarWidth         = 30
	maxDescriptionWidth = 48
)

// styles are bound to the output's renderer so color is dropped when stdout
// is not a terminal.
type styles struct {
	header  lipgloss.Style
	title   lipgloss.Style
	muted   lipgloss.Style
	danger  lipgloss.Style
	warning lipgloss.Style
	success lipgloss.Style
	accent  lipgloss.Style
	r       *lipgloss.Renderer
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		header:  r.NewStyle().Bold(true).Underline(true),
		title:   r.NewStyle().Bold(true).Foreground(colorAccent),
		muted:   r.NewStyle().Foreground(colorMuted),
		danger:  r.NewStyle().Bold(true).Foreground(colorDanger),
		warning: r.NewStyle().Foreground(colorWarning),
		success: r.NewStyle().Foreground(colorSuccess),
		accent:  r.NewStyle().Foreground(colorAccent),
		r:       r,
	}
}

// table lays rows out in left-aligned columns separated by two spaces.
func (s styles) table(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); i < len(widths) && w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	line := func(cells []string, style *lipgloss.Style) {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			if style != nil {
				cell = style.Render(cell)
			}
			pad := widths[i] - lipgloss.Width(cell)
			if i == len(cells)-1 || pad < 0 {
				pad = 0
			}
			parts[i] = cell + strings.Repeat(" ", pad)
		}
		b.WriteString(strings.TrimRight(strings.Join(parts, "  "), " "))
		b.WriteString("\n")
	}
	line(headers, &s.header)
	for _, row := range rows {
		line(row, nil)
	}
	return b.String()
}

func (s styles) status(status application.Status) string {
	switch status {
	case application.StatusOpen:
		return s.danger.Render(string(status))
	case application.StatusInProgress:
		return s.warning.Render(string(status))
	case application.StatusResolved:
		return s.success.Render(string(status))
	}
	return string(status)
}

func (s styles) priority(priority application.Priority) string {
	switch priority {
	case application.PriorityHigh:
		return s.danger.Render(string(priority))
	case application.PriorityMedium:
		return s.warning.Render(string(priority))
	}
	return s.muted.Render(string(priority))
}

// flags lists the attention markers shown on an entry's row.
func (s styles) flags(entry application.LogEntry, now time.Time) string {
	var marks []string
	if entry.ManagerFollowUp {
		marks = append(marks, s.accent.Render("MGR"))
	}
	switch {
	case entry.FollowUpOverdue(now):
		marks = append(marks, s.danger.Render("OVERDUE "+dateutil.FormatFollowUp(*entry.FollowUpDate, now)))
	case entry.FollowUpUpcoming(now):
		marks = append(marks, s.warning.Render("DUE "+dateutil.FormatFollowUp(*entry.FollowUpDate, now)))
	case entry.FollowUpDate != nil && entry.Status != application.StatusResolved:
		marks = append(marks, s.muted.Render("follow-up "+entry.FollowUpDate.In(now.Location()).Format("Jan 2 15:04")))
	}
	if entry.CarriedOver(now) {
		marks = append(marks, s.muted.Render("CARRIED"))
	}
	return strings.Join(marks, " ")
}

func (s styles) entryRows(entries []application.LogEntry, now time.Time) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []string{
			fmt.Sprint(entry.ID),
			dateutil.FormatTimeAgo(entry.Timestamp, now),
			entry.RoomNumber,
			strings.TrimSpace(entry.GuestFullName()),
			string(entry.Category),
			s.priority(entry.Priority),
			s.status(entry.Status),
			entry.Staff,
			s.flags(entry, now),
			truncate(entry.Description, maxDescriptionWidth),
		})
	}
	return rows
}

var entryHeaders = []string{"ID", "When", "Room", "Guest", "Category", "Priority", "Status", "Staff", "Flags", "Description"}

// bars renders one horizontal bar per label, scaled to the largest count.
func (s styles) bars(bars []application.ReportBar) string {
	if len(bars) == 0 {
		return s.muted.Render("  no entries") + "\n"
	}
	labelWidth, maxCount := 0, 0
	for _, bar := range bars {
		labelWidth = max(labelWidth, lipgloss.Width(bar.Label))
		maxCount = max(maxCount, bar.Count)
	}

	var b strings.Builder
	for _, bar := range bars {
		width := 1
		if maxCount > 0 {
			width = max(1, bar.Count*maxBarWidth/maxCount)
		}
		fill := s.r.NewStyle().Foreground(lipgloss.Color(bar.Color)).Render(strings.Repeat("█", width))
		fmt.Fprintf(&b, "  %s%s  %s %d\n", bar.Label, strings.Repeat(" ", labelWidth-lipgloss.Width(bar.Label)), fill, bar.Count)
	}
	return b.String()
}

func truncate(value string, width int) string {
	value = strings.Join(strings.Fields(value), " ")
	if lipgloss.Width(value) <= width {
		return value
	}
	runes := []rune(value)
	if len(runes) > width-1 {
		runes = runes[:width-1]
	}
	return string(runes) + "…"
}
