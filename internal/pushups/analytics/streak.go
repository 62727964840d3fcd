package analytics

import (
	"time"

	"github.com/2beens/pushupstats/internal/pushups"
)

// Streak counts consecutive days with at least goal reps, ending today.
// An unfinished today does not break the streak: counting then starts at yesterday.
func Streak(logs []pushups.LogRecord, goal int, now time.Time) int {
	if len(logs) == 0 || goal <= 0 {
		return 0
	}

	totals := DailyTotals(logs, now)
	cursor := startOfDay(now)
	if totals[cursor.Format(DayKeyLayout)] < goal {
		cursor = cursor.AddDate(0, 0, -1)
	}

	streak := 0
	for totals[cursor.Format(DayKeyLayout)] >= goal {
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return streak
}
