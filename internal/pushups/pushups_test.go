package pushups

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseVariation(t *testing.T) {
	cases := []struct {
		in   string
		want Variation
		ok   bool
	}{
		{"", VariationStandard, true},
		{"Standard", VariationStandard, true},
		{" weighted ", VariationWeighted, true},
		{"DIAMOND", VariationDiamond, true},
		{"Wide", VariationWide, true},
		{"archer", VariationStandard, false},
	}
	for _, c := range cases {
		got, ok := ParseVariation(c.in)
		assert.Equal(t, c.ok, ok, c.in)
		assert.Equal(t, c.want, got, c.in)
	}
}

func TestVariation_Label(t *testing.T) {
	assert.Equal(t, "Standard", VariationStandard.Label())
	assert.Equal(t, "Incline", VariationIncline.Label())
	assert.True(t, VariationStandard.IsStandard())
	assert.False(t, VariationDecline.IsStandard())
}

func TestPlausibleReps(t *testing.T) {
	assert.False(t, PlausibleReps(0))
	assert.False(t, PlausibleReps(-3))
	assert.True(t, PlausibleReps(1))
	assert.True(t, PlausibleReps(MaxPlausibleReps))
	assert.False(t, PlausibleReps(MaxPlausibleReps+1))
}
