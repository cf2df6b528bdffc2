package domain

import (
	"errors"
	"fmt"
)

var ErrInvalidTimeRange = errors.New("domain: invalid time range")

// TimeRange is the provider-defined lookback window of a "top" query.
type TimeRange string

const (
	ShortTerm  TimeRange = "short_term"
	MediumTerm TimeRange = "medium_term"
	LongTerm   TimeRange = "long_term"
)

// ParseTimeRange validates raw against the known windows. An empty string
// yields MediumTerm.
func ParseTimeRange(raw string) (TimeRange, error) {
	switch TimeRange(raw) {
	case "":
		return MediumTerm, nil
	case ShortTerm, MediumTerm, LongTerm:
		return TimeRange(raw), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTimeRange, raw)
}
