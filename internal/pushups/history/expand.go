package history

import (
	"time"

	"github.com/2beens/pushupstats/internal/pushups"
)

// SetStagger separates the synthetic timestamps of sets imported for the same day,
// so their relative order survives the round trip through storage.
const SetStagger = time.Minute

// Records flattens the parsed entries into log records ready for bulk insertion.
// IDs are left empty for the storage layer to assign.
func (r ParseResult) Records() []pushups.LogRecord {
	records := make([]pushups.LogRecord, 0, r.TotalSets())
	// several entries can share a date, keep counting from where the previous one stopped
	offsets := map[string]int{}
	for _, e := range r.Entries {
		day := e.Date.Format(time.DateOnly)
		for _, s := range e.Sets {
			records = append(records, pushups.LogRecord{
				Reps:      s.Reps,
				LoggedAt:  e.Date.Add(time.Duration(offsets[day]) * SetStagger),
				Variation: s.Variation,
			})
			offsets[day]++
		}
	}
	return records
}
