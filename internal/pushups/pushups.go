package pushups

import (
	"strings"
	"time"
)

const (
	// MaxPlausibleReps is the upper bound for a single set; bigger values are treated as noise.
	MaxPlausibleReps = 500
	// DefaultDailyGoal is used until the user sets their own goal.
	DefaultDailyGoal = 100
)

// Variation is an exercise modifier. The zero value means Standard.
type Variation string

const (
	VariationStandard Variation = ""
	VariationWeighted Variation = "Weighted"
	VariationDecline  Variation = "Decline"
	VariationIncline  Variation = "Incline"
	VariationWide     Variation = "Wide"
	VariationDiamond  Variation = "Diamond"
)

const standardLabel = "Standard"

// VariationBySuffix maps the single-letter codes used in pasted logs (e.g. 25w) to variations.
var VariationBySuffix = map[rune]Variation{
	'w': VariationWeighted,
	'd': VariationDecline,
	'i': VariationIncline,
	'x': VariationWide,
	'm': VariationDiamond,
}

var knownVariations = map[string]Variation{
	"standard": VariationStandard,
	"weighted": VariationWeighted,
	"decline":  VariationDecline,
	"incline":  VariationIncline,
	"wide":     VariationWide,
	"diamond":  VariationDiamond,
}

// ParseVariation accepts a variation name in any case. Empty input and "Standard" both map to VariationStandard.
func ParseVariation(s string) (Variation, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return VariationStandard, true
	}
	v, ok := knownVariations[strings.ToLower(s)]
	return v, ok
}

func (v Variation) IsStandard() bool {
	return v == VariationStandard
}

// Label is the human readable name, "Standard" for the zero value.
func (v Variation) Label() string {
	if v.IsStandard() {
		return standardLabel
	}
	return string(v)
}

// Set is one exercise effort, as extracted from pasted text.
type Set struct {
	Reps      int       `json:"reps"`
	Variation Variation `json:"variation,omitempty"`
}

// LogRecord is one logged set. ID is assigned by the storage layer.
type LogRecord struct {
	ID        string    `json:"id"`
	Reps      int       `json:"reps"`
	LoggedAt  time.Time `json:"loggedAt"`
	Variation Variation `json:"variation,omitempty"`
}

// PlausibleReps reports whether reps is in the accepted 1..MaxPlausibleReps range.
func PlausibleReps(reps int) bool {
	return reps > 0 && reps <= MaxPlausibleReps
}
