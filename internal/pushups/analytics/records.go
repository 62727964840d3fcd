package analytics

import (
	"sort"
	"time"

	"github.com/2beens/pushupstats/internal/pushups"
)

type Records struct {
	BestSet       int `json:"bestSet"`
	LongestStreak int `json:"longestStreak"`
	MostInDay     int `json:"mostInDay"`
}

// CalculateRecords returns the personal bests over the whole log list.
func CalculateRecords(logs []pushups.LogRecord, goal int, now time.Time) Records {
	if len(logs) == 0 {
		return Records{}
	}

	records := Records{}
	for _, l := range logs {
		records.BestSet = max(records.BestSet, l.Reps)
	}

	totals := DailyTotals(logs, now)
	var completed []string
	for key, total := range totals {
		records.MostInDay = max(records.MostInDay, total)
		if total >= goal {
			completed = append(completed, key)
		}
	}

	records.LongestStreak = longestRun(completed)
	return records
}

// longestRun finds the longest run of consecutive calendar days among day keys.
func longestRun(dayKeys []string) int {
	// keys sort chronologically as strings
	sort.Strings(dayKeys)

	longest, current := 0, 0
	var prev time.Time
	for i, key := range dayKeys {
		// parsed in UTC, so every calendar day is exactly 24h long
		d, err := time.Parse(DayKeyLayout, key)
		if err != nil {
			continue
		}
		if i > 0 && d.Sub(prev) == 24*time.Hour {
			current++
		} else {
			current = 1
		}
		longest = max(longest, current)
		prev = d
	}
	return longest
}
