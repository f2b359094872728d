package application

import (
	"fmt"
	"sort"
	"time"

	"github.com/example/frontdesk-log/internal/dateutil"
)

// barPalette colors bars whose label has no fixed color, by position.
var barPalette = []string{"#0A66C2", "#f0ad4e", "#10B981", "#8e44ad", "#c0392b", "#f39c12", "#7f8c8d"}

var fixedColors = map[GroupField]map[string]string{
	GroupByCategory: {
		string(CategoryRequest):     "#8e44ad",
		string(CategoryComplaint):   "#c0392b",
		string(CategoryMaintenance): "#f39c12",
		string(CategoryNote):        "#7f8c8d",
	},
	GroupByPriority: {
		string(PriorityLow):    "#10B981",
		string(PriorityMedium): "#f39c12",
		string(PriorityHigh):   "#D91E2A",
	},
	GroupByStatus: {
		string(StatusOpen):       "#D91E2A",
		string(StatusInProgress): "#f0ad4e",
		string(StatusResolved):   "#10B981",
	},
}

// ReportCutoff is the earliest timestamp included in a report window.
func ReportCutoff(now time.Time, window ReportWindow) time.Time {
	return dateutil.ShiftDays(now, -int(window))
}

// Report counts the entries logged since the window's cutoff, grouped by
// field and sorted by count descending. Equal counts keep the order in which
// their labels were first seen.
func Report(entries []LogEntry, now time.Time, window ReportWindow, field GroupField) ([]ReportBar, error) {
	if !window.Valid() {
		return nil, fmt.Errorf("unsupported report window %d", window)
	}
	label, err := groupLabel(field)
	if err != nil {
		return nil, err
	}
	return group(inWindow(entries, ReportCutoff(now, window)), field, label), nil
}

// SummarizeReport computes every grouping for one window.
func SummarizeReport(entries []LogEntry, now time.Time, window ReportWindow) (ReportSummary, error) {
	if !window.Valid() {
		return ReportSummary{}, fmt.Errorf("unsupported report window %d", window)
	}
	cutoff := ReportCutoff(now, window)
	included := inWindow(entries, cutoff)

	summary := ReportSummary{Window: window, Cutoff: cutoff, Total: len(included)}
	for _, field := range GroupFields() {
		label, _ := groupLabel(field)
		bars := group(included, field, label)
		switch field {
		case GroupByCategory:
			summary.ByCategory = bars
		case GroupByStaff:
			summary.ByStaff = bars
		case GroupByPriority:
			summary.ByPriority = bars
		case GroupByStatus:
			summary.ByStatus = bars
		}
	}
	return summary, nil
}

func inWindow(entries []LogEntry, cutoff time.Time) []LogEntry {
	included := make([]LogEntry, 0, len(entries))
	for _, entry := range entries {
		if !entry.Timestamp.Before(cutoff) {
			included = append(included, entry)
		}
	}
	return included
}

func groupLabel(field GroupField) (func(LogEntry) string, error) {
	switch field {
	case GroupByCategory:
		return func(e LogEntry) string { return string(e.Category) }, nil
	case GroupByStaff:
		return func(e LogEntry) string { return e.Staff }, nil
	case GroupByPriority:
		return func(e LogEntry) string { return string(e.Priority) }, nil
	case GroupByStatus:
		return func(e LogEntry) string { return string(e.Status) }, nil
	}
	return nil, fmt.Errorf("unsupported report grouping %q", field)
}

func group(entries []LogEntry, field GroupField, label func(LogEntry) string) []ReportBar {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, entry := range entries {
		value := label(entry)
		if value == "" {
			continue
		}
		if _, seen := counts[value]; !seen {
			order = append(order, value)
		}
		counts[value]++
	}

	bars := make([]ReportBar, 0, len(order))
	for _, value := range order {
		bars = append(bars, ReportBar{Label: value, Count: counts[value]})
	}
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Count > bars[j].Count })

	colors := fixedColors[field]
	for i := range bars {
		if color, ok := colors[bars[i].Label]; ok {
			bars[i].Color = color
			continue
		}
		bars[i].Color = barPalette[i%len(barPalette)]
	}
	return bars
}
