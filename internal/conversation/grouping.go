package conversation

import (
	"time"

	"parlor/internal/models"
)

// DateGroup is one calendar-day section of the thread.
type DateGroup struct {
	Label    string
	Messages []models.Message
}

// GroupByDate partitions messages into date-labeled groups. Group order is
// the order in which each label is first seen in the input, and messages
// keep their insertion order within a group. No chronological re-sort
// happens at either level.
func GroupByDate(messages []models.Message, now time.Time) []DateGroup {
	var groups []DateGroup
	index := make(map[string]int)

	for _, m := range messages {
		label := DateLabel(m.Timestamp, now)
		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, DateGroup{Label: label})
		}
		groups[i].Messages = append(groups[i].Messages, m)
	}
	return groups
}

// DateLabel returns "Today" for the current calendar day, "Yesterday" for
// exactly one day prior, and a formatted date otherwise.
func DateLabel(ts, now time.Time) string {
	if sameDay(ts, now) {
		return "Today"
	}
	if sameDay(ts, now.AddDate(0, 0, -1)) {
		return "Yesterday"
	}
	return ts.Format("Monday, January 2, 2006")
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
