package application

import (
	"sort"
	"time"
)

// Dashboard groups the entries that still need attention as of now.
func Dashboard(entries []LogEntry, now time.Time) DashboardView {
	var view DashboardView

	for _, entry := range entries {
		if entry.Status == StatusOpen || entry.Status == StatusInProgress {
			view.ActionRequired = append(view.ActionRequired, entry.clone())
		}
		if entry.Status == StatusResolved {
			continue
		}
		if entry.ManagerFollowUp {
			view.ManagerReview = append(view.ManagerReview, entry.clone())
		}
		if entry.FollowUpDate != nil {
			view.FollowUps = append(view.FollowUps, entry.clone())
			switch {
			case entry.FollowUpOverdue(now):
				view.OverdueFollowUps++
			case entry.FollowUpUpcoming(now):
				view.UpcomingFollowUps++
			}
		}
	}

	// Highest priority first, then the longest waiting.
	sort.SliceStable(view.ActionRequired, func(i, j int) bool {
		a, b := view.ActionRequired[i], view.ActionRequired[j]
		if a.Priority.rank() != b.Priority.rank() {
			return a.Priority.rank() > b.Priority.rank()
		}
		return a.Timestamp.Before(b.Timestamp)
	})
	sortByTimestamp(view.ManagerReview, SortNewest)
	sort.SliceStable(view.FollowUps, func(i, j int) bool {
		return view.FollowUps[i].FollowUpDate.Before(*view.FollowUps[j].FollowUpDate)
	})

	view.FollowUpCount = len(view.ManagerReview)
	return view
}
