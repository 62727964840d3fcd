package analytics

import (
	"time"

	"github.com/2beens/pushupstats/internal/pushups"
)

// Summary is the dashboard view over a full log list.
type Summary struct {
	Goal          int             `json:"goal"`
	TodayTotal    int             `json:"todayTotal"`
	TodaySets     int             `json:"todaySets"`
	GoalReached   bool            `json:"goalReached"`
	LifetimeTotal int             `json:"lifetimeTotal"`
	LifetimeSets  int             `json:"lifetimeSets"`
	Streak        int             `json:"streak"`
	Records       Records         `json:"records"`
	Weekly        []ChartBucket   `json:"weekly"`
	Monthly       []ChartBucket   `json:"monthly"`
	Variations    []VariationStat `json:"variations"`
}

func Summarize(logs []pushups.LogRecord, goal int, now time.Time) Summary {
	todayKey := DayKey(now, now.Location())
	s := Summary{
		Goal:         goal,
		LifetimeSets: len(logs),
		Streak:       Streak(logs, goal, now),
		Records:      CalculateRecords(logs, goal, now),
		Weekly:       Bucketize(logs, WeekWindow, goal, now),
		Monthly:      Bucketize(logs, MonthWindow, goal, now),
		Variations:   VariationStats(logs),
	}
	for _, l := range logs {
		s.LifetimeTotal += l.Reps
		if DayKey(l.LoggedAt, now.Location()) == todayKey {
			s.TodayTotal += l.Reps
			s.TodaySets++
		}
	}
	s.GoalReached = s.TodayTotal >= goal
	return s
}
