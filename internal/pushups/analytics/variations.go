package analytics

import (
	"sort"

	"github.com/2beens/pushupstats/internal/pushups"
)

type VariationStat struct {
	Variation string `json:"variation"`
	TotalReps int    `json:"totalReps"`
	BestSet   int    `json:"bestSet"`
	SetCount  int    `json:"setCount"`
}

// VariationStats groups logs by variation, records without one count as Standard.
// The result is ordered by total reps, descending; ties keep first-seen order.
func VariationStats(logs []pushups.LogRecord) []VariationStat {
	stats := []VariationStat{}
	index := map[string]int{}
	for _, l := range logs {
		label := l.Variation.Label()
		i, ok := index[label]
		if !ok {
			i = len(stats)
			index[label] = i
			stats = append(stats, VariationStat{Variation: label})
		}
		stats[i].TotalReps += l.Reps
		stats[i].BestSet = max(stats[i].BestSet, l.Reps)
		stats[i].SetCount++
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].TotalReps > stats[j].TotalReps
	})
	return stats
}
