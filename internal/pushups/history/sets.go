package history

import (
	"regexp"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/2beens/pushupstats/internal/pushups"
)

// a number followed by an optional run of letters; only a single known letter counts as a variation
var setRe = regexp.MustCompile(`(\d+)([A-Za-z]*)`)

// ExtractSets pulls every "<reps>[suffix]" occurrence out of fragment, left to right.
// Reps outside 1..pushups.MaxPlausibleReps are dropped silently.
func ExtractSets(fragment string) []pushups.Set {
	matches := setRe.FindAllStringSubmatch(fragment, -1)
	sets := make([]pushups.Set, 0, len(matches))
	for _, m := range matches {
		reps, err := strconv.Atoi(m[1])
		if err != nil || !pushups.PlausibleReps(reps) {
			continue
		}
		sets = append(sets, pushups.Set{
			Reps:      reps,
			Variation: variationForSuffix(m[2]),
		})
	}
	return sets
}

func variationForSuffix(suffix string) pushups.Variation {
	if utf8.RuneCountInString(suffix) != 1 {
		return pushups.VariationStandard
	}
	r, _ := utf8.DecodeRuneInString(suffix)
	if v, ok := pushups.VariationBySuffix[unicode.ToLower(r)]; ok {
		return v
	}
	return pushups.VariationStandard
}
