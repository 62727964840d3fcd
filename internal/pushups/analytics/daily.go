package analytics

import (
	"time"

	"github.com/2beens/pushupstats/internal/pushups"
)

// DayKeyLayout formats the calendar-day keys used by DailyTotals.
const DayKeyLayout = time.DateOnly

// DayKey is the calendar day of t in loc.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DayKeyLayout)
}

// DailyTotals sums reps per calendar day. Days are taken in now's location.
func DailyTotals(logs []pushups.LogRecord, now time.Time) map[string]int {
	totals := make(map[string]int)
	for _, l := range logs {
		totals[DayKey(l.LoggedAt, now.Location())] += l.Reps
	}
	return totals
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
