package analytics

import (
	"time"

	"github.com/2beens/pushupstats/internal/pushups"
)

const (
	WeekWindow  = 7
	MonthWindow = 30
)

// ChartBucket is one day of a trailing chart window.
type ChartBucket struct {
	Date      string `json:"date"`
	Label     string `json:"label"`
	FullLabel string `json:"fullLabel"`
	Total     int    `json:"total"`
	Goal      int    `json:"goal"`
}

// Bucketize returns exactly window buckets, oldest first, ending today.
// Days without logs are present with a zero total.
func Bucketize(logs []pushups.LogRecord, window, goal int, now time.Time) []ChartBucket {
	if window <= 0 {
		return []ChartBucket{}
	}

	labelLayout := "2"
	if window <= WeekWindow {
		labelLayout = "Mon"
	}

	totals := DailyTotals(logs, now)
	today := startOfDay(now)
	buckets := make([]ChartBucket, 0, window)
	for i := window - 1; i >= 0; i-- {
		d := today.AddDate(0, 0, -i)
		key := d.Format(DayKeyLayout)
		buckets = append(buckets, ChartBucket{
			Date:      key,
			Label:     d.Format(labelLayout),
			FullLabel: d.Format("Jan 2"),
			Total:     totals[key],
			Goal:      goal,
		})
	}
	return buckets
}
