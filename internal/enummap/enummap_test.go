package enummap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBHKRoundTrip(t *testing.T) {
	cases := map[string]string{
		"1":      "ONE",
		"2":      "TWO",
		"3":      "THREE",
		"4":      "FOUR",
		"Studio": "Studio",
	}
	for human, canonical := range cases {
		assert.Equal(t, canonical, BHKToCanonical(human))
		assert.Equal(t, human, BHKToHuman(canonical))
	}
}

func TestBHKCanonicalInputPassesThrough(t *testing.T) {
	// canonical spellings are already canonical
	assert.Equal(t, "ONE", BHKToCanonical("ONE"))
	assert.Equal(t, "FOUR", BHKToCanonical("FOUR"))
}

func TestTimelineRoundTrip(t *testing.T) {
	cases := map[string]string{
		"0-3m":      "ZERO_TO_THREE_MONTHS",
		"3-6m":      "THREE_TO_SIX_MONTHS",
		">6m":       "MORE_THAN_SIX_MONTHS",
		"Exploring": "Exploring",
	}
	for human, canonical := range cases {
		assert.Equal(t, canonical, TimelineToCanonical(human))
		assert.Equal(t, human, TimelineToHuman(canonical))
	}
}

func TestSourceRoundTrip(t *testing.T) {
	assert.Equal(t, "Walk_in", SourceToCanonical("Walk-in"))
	assert.Equal(t, "Walk-in", SourceToHuman("Walk_in"))
	assert.Equal(t, "Referral", SourceToCanonical("Referral"))
}

func TestStatusRoundTrip(t *testing.T) {
	assert.Equal(t, "NEW", StatusToCanonical("New"))
	assert.Equal(t, "New", StatusToHuman("NEW"))
	assert.Equal(t, "Qualified", StatusToCanonical("Qualified"))
}

func TestUnknownValuesPassThrough(t *testing.T) {
	// rejecting unknown values is the validator's job, not the codec's
	assert.Equal(t, "bogus", BHKToCanonical("bogus"))
	assert.Equal(t, "bogus", TimelineToHuman("bogus"))
	assert.Equal(t, "", StatusToCanonical(""))
}
