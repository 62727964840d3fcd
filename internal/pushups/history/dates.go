package history

import (
	"regexp"
	"strings"
	"time"
)

// neutralHour pins every resolved date to mid-day, so later day-boundary math is stable across zones and DST.
const neutralHour = 12

var (
	whitespaceRe  = regexp.MustCompile(`\s+`)
	ordinalRe     = regexp.MustCompile(`(?i)(\d)(st|nd|rd|th)$`)
	monthAbbrDots = regexp.MustCompile(`^([A-Za-z]{3,4})\.\s`)
	septRe        = regexp.MustCompile(`(?i)^sept\s`)
)

// dateMatcher tries to resolve a normalized token. The bool is false when the matcher does not apply.
type dateMatcher func(token string, now time.Time) (time.Time, bool)

// dateMatchers are tried in order, the first success wins.
var dateMatchers = []dateMatcher{
	layoutMatcher("1/2/06", twoDigitYear),
	layoutMatcher("1/2/2006", fullYear),
	layoutMatcher("1/2", noYear),
	layoutMatcher("Jan 2", noYear),
	layoutMatcher("January 2", noYear),
}

type yearRule int

const (
	noYear yearRule = iota
	twoDigitYear
	fullYear
)

// ResolveDate turns a date token like "10/1", "10/1/24", "Oct 1" or "October 1st" into a calendar date
// at neutral mid-day in now's location. Tokens without a year get the current year, or the previous
// one when the date would otherwise be in the future. Two-digit years fall in the hundred years
// ending 50 years after now: with now in 2026, "75" is 2075 and "76" is 1976.
func ResolveDate(token string, now time.Time) (time.Time, bool) {
	token = normalizeDateToken(token)
	if token == "" {
		return time.Time{}, false
	}

	for _, match := range dateMatchers {
		if date, ok := match(token, now); ok {
			return date, true
		}
	}
	return time.Time{}, false
}

func normalizeDateToken(token string) string {
	token = whitespaceRe.ReplaceAllString(strings.TrimSpace(token), " ")
	token = ordinalRe.ReplaceAllString(token, "$1")
	token = monthAbbrDots.ReplaceAllString(token, "$1 ")
	return septRe.ReplaceAllString(token, "Sep ")
}

func layoutMatcher(layout string, rule yearRule) dateMatcher {
	return func(token string, now time.Time) (time.Time, bool) {
		parsed, err := time.Parse(layout, token)
		if err != nil {
			return time.Time{}, false
		}
		switch rule {
		case twoDigitYear:
			return calendarDate(centuryFor(parsed.Year()%100, now), parsed.Month(), parsed.Day(), now.Location())
		case fullYear:
			return calendarDate(parsed.Year(), parsed.Month(), parsed.Day(), now.Location())
		default:
			return inferYear(parsed.Month(), parsed.Day(), now)
		}
	}
}

// centuryFor expands yy into the hundred years [now-50, now+50). time.Parse would pivot at 69 instead.
func centuryFor(yy int, now time.Time) int {
	windowEnd := now.Year() + 50
	year := windowEnd - windowEnd%100 + yy
	if year >= windowEnd {
		year -= 100
	}
	return year
}

func inferYear(month time.Month, day int, now time.Time) (time.Time, bool) {
	for _, year := range []int{now.Year(), now.Year() - 1} {
		date, ok := calendarDate(year, month, day, now.Location())
		if !ok {
			// Feb 29 in a non-leap year
			continue
		}
		if startOfDay(date).After(now) {
			continue
		}
		return date, true
	}
	return time.Time{}, false
}

func calendarDate(year int, month time.Month, day int, loc *time.Location) (time.Time, bool) {
	date := time.Date(year, month, day, neutralHour, 0, 0, 0, loc)
	if date.Month() != month || date.Day() != day {
		return time.Time{}, false
	}
	return date, true
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
