package history

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/2beens/pushupstats/internal/pushups"
)

const (
	numericDatePattern = `\d{1,2}/\d{1,2}(?:/\d{2,4})?`
	monthDatePattern   = `(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?\s+\d{1,2}(?:st|nd|rd|th)?`
	dateTokenPattern   = `(?:` + numericDatePattern + `|` + monthDatePattern + `)`
)

var (
	bareDateRe    = regexp.MustCompile(`(?i)^` + dateTokenPattern + `$`)
	leadingDateRe = regexp.MustCompile(`(?i)^(` + dateTokenPattern + `)(?:\s*[:|\-–—]\s*|\s+)(.*)$`)
	dateLikeRe    = regexp.MustCompile(`(?i)\d{1,2}/\d{1,2}|\b` + monthDatePattern + `\b`)
)

// ParsedEntry holds the sets attributed to one resolved date.
type ParsedEntry struct {
	Date    time.Time
	Sets    []pushups.Set
	RawLine string
}

func (e ParsedEntry) Total() int {
	total := 0
	for _, s := range e.Sets {
		total += s.Reps
	}
	return total
}

func (e ParsedEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Date    time.Time     `json:"date"`
		Sets    []pushups.Set `json:"sets"`
		Total   int           `json:"total"`
		RawLine string        `json:"rawLine"`
	}{
		Date:    e.Date,
		Sets:    e.Sets,
		Total:   e.Total(),
		RawLine: e.RawLine,
	})
}

// ParseResult is the outcome of one Parse call. Entries are sorted by date, warnings keep input order.
type ParseResult struct {
	Entries  []ParsedEntry
	Warnings []string
}

func (r ParseResult) TotalSets() int {
	total := 0
	for _, e := range r.Entries {
		total += len(e.Sets)
	}
	return total
}

func (r ParseResult) TotalReps() int {
	total := 0
	for _, e := range r.Entries {
		total += e.Total()
	}
	return total
}

// DateRange returns the earliest and latest entry dates; ok is false when there are no entries.
func (r ParseResult) DateRange() (start, end time.Time, ok bool) {
	if len(r.Entries) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return r.Entries[0].Date, r.Entries[len(r.Entries)-1].Date, true
}

type dateRangeJSON struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (r ParseResult) MarshalJSON() ([]byte, error) {
	var dateRange *dateRangeJSON
	if start, end, ok := r.DateRange(); ok {
		dateRange = &dateRangeJSON{Start: start, End: end}
	}

	entries := r.Entries
	if entries == nil {
		entries = []ParsedEntry{}
	}
	warnings := r.Warnings
	if warnings == nil {
		warnings = []string{}
	}

	return json.Marshal(struct {
		Entries   []ParsedEntry  `json:"entries"`
		Warnings  []string       `json:"warnings"`
		TotalSets int            `json:"totalSets"`
		TotalReps int            `json:"totalReps"`
		DateRange *dateRangeJSON `json:"dateRange"`
	}{
		Entries:   entries,
		Warnings:  warnings,
		TotalSets: r.TotalSets(),
		TotalReps: r.TotalReps(),
		DateRange: dateRange,
	})
}

// parseState is the accumulator threaded through the lines of the pasted text.
type parseState struct {
	current     time.Time
	hasCurrent  bool
	currentLine string
	entries     []ParsedEntry
	warnings    []string
}

// Parse converts free-form pasted history into dated entries. It never fails:
// every line it cannot make sense of ends up as a warning.
func Parse(text string, now time.Time) ParseResult {
	state := parseState{}
	for _, line := range strings.Split(text, "\n") {
		state = state.consume(strings.TrimSpace(line), now)
	}

	sort.SliceStable(state.entries, func(i, j int) bool {
		return state.entries[i].Date.Before(state.entries[j].Date)
	})

	return ParseResult{
		Entries:  state.entries,
		Warnings: state.warnings,
	}
}

func (s parseState) consume(line string, now time.Time) parseState {
	if line == "" {
		return s
	}

	// date only, sets follow on the next lines
	if bareDateRe.MatchString(line) {
		date, ok := ResolveDate(line, now)
		if !ok {
			return s.warn("could not parse date: %q", line)
		}
		return s.withCurrent(date, line)
	}

	// sets only, attributed to the last seen date
	if !dateLikeRe.MatchString(line) {
		sets := ExtractSets(line)
		if len(sets) == 0 {
			return s.warn("could not parse line: %q", line)
		}
		if !s.hasCurrent {
			return s.warn("no date found for sets: %q", line)
		}
		return s.withEntry(s.current, sets, s.currentLine+"\n"+line)
	}

	// date, separator, sets
	if m := leadingDateRe.FindStringSubmatch(line); m != nil {
		date, ok := ResolveDate(m[1], now)
		if !ok {
			return s.warn("could not parse date: %q", line)
		}
		sets := ExtractSets(m[2])
		if len(sets) == 0 {
			return s.withCurrent(date, line)
		}
		return s.withEntry(date, sets, line)
	}

	return s.warn("could not parse line: %q", line)
}

func (s parseState) warn(format string, line string) parseState {
	s.warnings = append(s.warnings, fmt.Sprintf(format, line))
	return s
}

func (s parseState) withCurrent(date time.Time, line string) parseState {
	s.current = date
	s.hasCurrent = true
	s.currentLine = line
	return s
}

func (s parseState) withEntry(date time.Time, sets []pushups.Set, rawLine string) parseState {
	s.entries = append(s.entries, ParsedEntry{
		Date:    date,
		Sets:    sets,
		RawLine: rawLine,
	})
	return s
}
