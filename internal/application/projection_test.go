package application_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/frontdesk-log/internal/application"
	"github.com/example/frontdesk-log/internal/testfixtures"
)

func ids(entries []application.LogEntry) []int64 {
	out := make([]int64, len(entries))
	for i, entry := range entries {
		out[i] = entry.ID
	}
	return out
}

func TestDailyLog_DayScopeIsExact(t *testing.T) {
	t.Parallel()

	day := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	lateNight := testfixtures.NewLogEntry(testfixtures.WithTimestamp(time.Date(2024, time.March, 10, 23, 59, 59, 0, time.UTC)))
	earlyNext := testfixtures.NewLogEntry(testfixtures.WithTimestamp(time.Date(2024, time.March, 11, 0, 0, 1, 0, time.UTC)))
	entries := []application.LogEntry{lateNight, earlyNext}

	today := application.DailyLog(entries, application.DailyLogQuery{Date: day.Add(12 * time.Hour), Filter: application.FilterAll})
	tomorrow := application.DailyLog(entries, application.DailyLogQuery{Date: day.AddDate(0, 0, 1), Filter: application.FilterAll})

	assert.Equal(t, []int64{lateNight.ID}, ids(today.Entries))
	assert.Equal(t, []int64{earlyNext.ID}, ids(tomorrow.Entries))
}

func TestDailyLog_DayScopeUsesReferenceLocation(t *testing.T) {
	t.Parallel()

	eastern := time.FixedZone("EST", -5*60*60)
	// 02:00 UTC on the 11th is still the evening of the 10th at the front desk.
	entry := testfixtures.NewLogEntry(testfixtures.WithTimestamp(time.Date(2024, time.March, 11, 2, 0, 0, 0, time.UTC)))

	view := application.DailyLog([]application.LogEntry{entry}, application.DailyLogQuery{
		Date: time.Date(2024, time.March, 10, 9, 0, 0, 0, eastern),
	})
	assert.Len(t, view.Entries, 1)
}

func TestDailyLog_HandoverScenario(t *testing.T) {
	t.Parallel()

	ctxDay := testfixtures.ReferenceTime()
	high := testfixtures.NewLogEntry(testfixtures.WithPriority(application.PriorityHigh), testfixtures.WithTimestamp(ctxDay.Add(-2*time.Hour)))
	medium := testfixtures.NewLogEntry(testfixtures.WithPriority(application.PriorityMedium), testfixtures.WithTimestamp(ctxDay.Add(-time.Hour)))
	low := testfixtures.NewLogEntry(
		testfixtures.WithPriority(application.PriorityLow),
		testfixtures.WithStatus(application.StatusInProgress),
		testfixtures.WithTimestamp(ctxDay),
	)
	entries := []application.LogEntry{high, medium, low}

	newest := application.DailyLog(entries, application.DailyLogQuery{Date: ctxDay, Filter: application.FilterHandover, Sort: application.SortNewest})
	assert.Equal(t, []int64{low.ID, medium.ID, high.ID}, ids(newest.Entries))

	oldest := application.DailyLog(entries, application.DailyLogQuery{Date: ctxDay, Filter: application.FilterHandover, Sort: application.SortOldest})
	assert.Equal(t, []int64{high.ID, medium.ID, low.ID}, ids(oldest.Entries))
}

func TestDailyLog_HandoverEqualsOpenPlusInProgress(t *testing.T) {
	t.Parallel()

	day := testfixtures.ReferenceTime()
	var entries []application.LogEntry
	for i, status := range []application.Status{
		application.StatusOpen, application.StatusResolved, application.StatusInProgress,
		application.StatusOpen, application.StatusResolved, application.StatusInProgress,
	} {
		entries = append(entries, testfixtures.NewLogEntry(
			testfixtures.WithStatus(status),
			testfixtures.WithTimestamp(day.Add(time.Duration(i)*time.Minute)),
		))
	}

	query := func(filter application.StatusFilter) map[int64]bool {
		set := make(map[int64]bool)
		for _, entry := range application.DailyLog(entries, application.DailyLogQuery{Date: day, Filter: filter}).Entries {
			set[entry.ID] = true
		}
		return set
	}

	union := query(application.FilterOpen)
	for id := range query(application.FilterInProgress) {
		union[id] = true
	}
	assert.Equal(t, union, query(application.FilterHandover))
	assert.Len(t, union, 4)
}

func TestDailyLog_TextAndStatusFilters(t *testing.T) {
	t.Parallel()

	day := testfixtures.ReferenceTime()
	jane := testfixtures.NewLogEntry(testfixtures.WithRoom("512"), testfixtures.WithGuest("Jane", "Smith"), testfixtures.WithDescription("TV remote"))
	noise := testfixtures.NewLogEntry(testfixtures.WithRoom("305"), testfixtures.WithDescription("Noise complaint"), testfixtures.WithStaff("Bob"), testfixtures.WithManagerFollowUp())
	resolved := testfixtures.NewLogEntry(testfixtures.WithRoom("101"), testfixtures.WithStatus(application.StatusResolved), testfixtures.WithDescription("Late checkout"))
	yesterday := testfixtures.NewLogEntry(testfixtures.WithRoom("512"), testfixtures.WithTimestamp(day.AddDate(0, 0, -1)))
	entries := []application.LogEntry{jane, noise, resolved, yesterday}

	cases := []struct {
		name  string
		query application.DailyLogQuery
		want  []int64
	}{
		{"room number", application.DailyLogQuery{Query: "512"}, []int64{jane.ID}},
		{"full guest name across the space", application.DailyLogQuery{Query: "JANE SM"}, []int64{jane.ID}},
		{"description", application.DailyLogQuery{Query: "noise"}, []int64{noise.ID}},
		{"staff", application.DailyLogQuery{Query: "bob"}, []int64{noise.ID}},
		{"surrounding spaces are part of the query", application.DailyLogQuery{Query: "smith "}, []int64{}},
		{"blank query keeps everything", application.DailyLogQuery{Query: "   ", Sort: application.SortOldest}, []int64{jane.ID, noise.ID, resolved.ID}},
		{"resolved", application.DailyLogQuery{Filter: application.FilterResolved}, []int64{resolved.ID}},
		{"follow-up ignores status", application.DailyLogQuery{Filter: application.FilterFollowUp}, []int64{noise.ID}},
		{"text and status intersect", application.DailyLogQuery{Query: "late", Filter: application.FilterOpen}, []int64{}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			tc.query.Date = day
			if tc.query.Sort == "" {
				tc.query.Sort = application.SortOldest
			}
			view := application.DailyLog(entries, tc.query)
			assert.Equal(t, tc.want, ids(view.Entries))
		})
	}
}

func TestDailyLog_CountsIgnoreFilters(t *testing.T) {
	t.Parallel()

	day := testfixtures.ReferenceTime()
	entries := []application.LogEntry{
		testfixtures.NewLogEntry(testfixtures.WithManagerFollowUp()),
		testfixtures.NewLogEntry(testfixtures.WithStatus(application.StatusInProgress)),
		testfixtures.NewLogEntry(testfixtures.WithStatus(application.StatusResolved), testfixtures.WithManagerFollowUp()),
		testfixtures.NewLogEntry(testfixtures.WithTimestamp(day.AddDate(0, 0, -1))),
	}

	view := application.DailyLog(entries, application.DailyLogQuery{Date: day, Filter: application.FilterResolved, Query: "nothing matches this"})
	require.Empty(t, view.Entries)
	assert.Equal(t, application.DailyLogCounts{Total: 3, Open: 1, InProgress: 1, Resolved: 1, FollowUp: 2}, view.Counts)
}
