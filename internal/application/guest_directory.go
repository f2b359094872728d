package application

import (
	"sort"
	"strings"
)

// GuestDirectory derives one row per guest from the log. Each row carries
// the name and contact details of the guest's most recent entry and the
// number of entries logged for them.
func GuestDirectory(entries []LogEntry) []GuestSummary {
	newest := cloneEntries(entries)
	sortByTimestamp(newest, SortNewest)

	rows := make(map[string]*GuestSummary)
	order := make([]string, 0)
	for _, entry := range newest {
		key := entry.GuestKey()
		if key == "" {
			continue
		}
		if row, ok := rows[key]; ok {
			row.LogCount++
			continue
		}
		rows[key] = &GuestSummary{
			Key:         key,
			FirstName:   entry.GuestFirstName,
			LastName:    entry.GuestLastName,
			PhoneNumber: entry.GuestPhoneNumber,
			Email:       entry.GuestEmail,
			Notes:       entry.GuestNotes,
			LogCount:    1,
		}
		order = append(order, key)
	}

	directory := make([]GuestSummary, 0, len(order))
	for _, key := range order {
		directory = append(directory, *rows[key])
	}
	sort.SliceStable(directory, func(i, j int) bool {
		return directory[i].sortKey() < directory[j].sortKey()
	})
	return directory
}

func (g GuestSummary) sortKey() string {
	return g.LastName + " " + g.FirstName
}

// Name returns the guest's identifying name.
func (g GuestSummary) Name() GuestName {
	return GuestName{FirstName: g.FirstName, LastName: g.LastName}
}

// SearchGuests narrows directory rows to those whose name or email contains
// query case-insensitively, or whose phone number contains it as typed.
func SearchGuests(rows []GuestSummary, query string) []GuestSummary {
	query = strings.TrimSpace(query)
	if query == "" {
		return append([]GuestSummary(nil), rows...)
	}
	needle := strings.ToLower(query)

	matches := make([]GuestSummary, 0, len(rows))
	for _, row := range rows {
		switch {
		case strings.Contains(strings.ToLower(row.FirstName+" "+row.LastName), needle),
			strings.Contains(row.PhoneNumber, query),
			strings.Contains(strings.ToLower(row.Email), needle):
			matches = append(matches, row)
		}
	}
	return matches
}

// GuestHistory returns every entry logged for name, newest first.
func GuestHistory(entries []LogEntry, name GuestName) []LogEntry {
	key := name.Key()
	if key == "" {
		return nil
	}
	history := make([]LogEntry, 0)
	for _, entry := range entries {
		if entry.GuestKey() == key {
			history = append(history, entry.clone())
		}
	}
	sortByTimestamp(history, SortNewest)
	return history
}
