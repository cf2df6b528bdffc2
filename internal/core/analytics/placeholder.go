// Package analytics turns raw listening data into the summary reports served
// by the dashboard. Every function here is pure: no I/O, no shared state, and
// empty input always yields a defined default instead of an error.
package analytics

import (
	"math"
	"math/rand/v2"
)

// Report fields that are filled by a Placeholder rather than computed.
const (
	FieldSkipRate        = "skipRate"
	FieldListeningStreak = "listeningStreak"
	FieldEnergy          = "score.energy"
	FieldMood            = "score.mood"
)

// Placeholder supplies values for report fields that have no data source yet.
// A "recently played" history carries no playback-progress events, so skip
// detection and streaks cannot be derived from it; the same goes for
// energy/mood, which would need audio features the personality query does not
// fetch.
type Placeholder interface {
	Value(field string, lo, hi int) int
}

// RandomPlaceholder draws uniformly from [lo, hi].
type RandomPlaceholder struct{}

func (RandomPlaceholder) Value(_ string, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	// #nosec G404 -- placeholder values, not security-sensitive
	return lo + rand.IntN(hi-lo+1)
}

// FixedPlaceholder always yields the same value, clamped to [lo, hi].
type FixedPlaceholder int

func (f FixedPlaceholder) Value(_ string, lo, hi int) int {
	return clamp(int(f), lo, hi)
}

func placeholder(ph Placeholder, field string, lo, hi int) int {
	if ph == nil {
		return 0
	}
	return ph.Value(field, lo, hi)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// percent returns round(100*num/den) clamped to [0,100]; 0 when den is 0.
func percent(num, den float64) int {
	if den == 0 {
		return 0
	}
	return clamp(int(math.Round(100*num/den)), 0, 100)
}
