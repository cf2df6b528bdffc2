package analytics

import (
	"math"
	"slices"
	"time"

	"github.com/ewilliams-labs/stalify/internal/core/domain"
)

const (
	peakHourLimit = 5
	peakDayLimit  = 3

	skipRateMin, skipRateMax               = 5, 25
	listeningStreakMin, listeningStreakMax = 1, 30
)

var weekdayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// Patterns aggregates a play history into a ListeningPatternReport. Hours and
// weekdays are taken in loc (UTC when nil). The input is used as-is: ordering
// and de-duplication are the caller's concern.
func Patterns(plays []domain.PlayEvent, loc *time.Location, ph Placeholder) domain.ListeningPatternReport {
	if loc == nil {
		loc = time.UTC
	}

	var hourCounts [24]int
	var dayCounts [7]int
	trackCounts := make(map[string]int, len(plays))
	var totalMs int64

	for _, p := range plays {
		at := p.PlayedAt.In(loc)
		hourCounts[at.Hour()]++
		dayCounts[at.Weekday()]++
		trackCounts[p.TrackID]++
		if p.DurationMs > 0 {
			totalMs += int64(p.DurationMs)
		}
	}

	totalPlays := len(plays)
	uniqueTracks := len(trackCounts)

	report := domain.ListeningPatternReport{
		PeakHours:           []domain.HourCount{},
		PeakDays:            []domain.DayCount{},
		TotalPlays:          totalPlays,
		UniqueTracks:        uniqueTracks,
		RepeatRate:          percent(float64(totalPlays-uniqueTracks), float64(totalPlays)),
		DiscoveryRate:       percent(float64(uniqueTracks), float64(totalPlays)),
		TotalListeningTime:  int(math.Round(float64(totalMs) / 60000)),
		MostActiveTimeOfDay: domain.TimeOfDayUnknown,
		PlaceholderFields:   []string{FieldSkipRate, FieldListeningStreak},
	}
	// An empty history reports zero for every field, placeholders included.
	if totalPlays > 0 {
		report.AverageSessionLength = int(math.Round(float64(totalMs) / float64(totalPlays) / 60000))
		report.SkipRate = placeholder(ph, FieldSkipRate, skipRateMin, skipRateMax)
		report.ListeningStreak = placeholder(ph, FieldListeningStreak, listeningStreakMin, listeningStreakMax)
	}

	for _, h := range rankBuckets(hourCounts[:], peakHourLimit) {
		report.PeakHours = append(report.PeakHours, domain.HourCount{Hour: h, Count: hourCounts[h]})
	}
	for _, d := range rankBuckets(dayCounts[:], peakDayLimit) {
		report.PeakDays = append(report.PeakDays, domain.DayCount{Day: weekdayNames[d], Count: dayCounts[d]})
	}
	if len(report.PeakHours) > 0 {
		report.MostActiveTimeOfDay = TimeOfDay(report.PeakHours[0].Hour)
	}
	report.ListeningConsistency = consistency(dayCounts[:])

	return report
}

// TimeOfDay maps an hour (0-23) onto the dashboard's four bands.
func TimeOfDay(hour int) string {
	switch {
	case hour >= 5 && hour < 12:
		return domain.TimeOfDayMorning
	case hour >= 12 && hour < 17:
		return domain.TimeOfDayAfternoon
	case hour >= 17 && hour < 21:
		return domain.TimeOfDayEvening
	default:
		return domain.TimeOfDayNight
	}
}

// rankBuckets returns the indexes of non-empty buckets ordered by descending
// count, keeping ascending index order among equal counts, truncated to limit.
func rankBuckets(counts []int, limit int) []int {
	keys := make([]int, 0, len(counts))
	for k, c := range counts {
		if c > 0 {
			keys = append(keys, k)
		}
	}
	slices.SortStableFunc(keys, func(a, b int) int {
		return counts[b] - counts[a]
	})
	if len(keys) > limit {
		keys = keys[:limit]
	}
	return keys
}

// consistency is 100 minus the coefficient of variation (in percent) of the
// non-empty weekday buckets, floored at 0.
func consistency(dayCounts []int) int {
	var present []float64
	for _, c := range dayCounts {
		if c > 0 {
			present = append(present, float64(c))
		}
	}
	if len(present) == 0 {
		return 0
	}

	var sum float64
	for _, v := range present {
		sum += v
	}
	mean := sum / float64(len(present))

	var variance float64
	for _, v := range present {
		variance += (v - mean) * (v - mean)
	}
	stddev := math.Sqrt(variance / float64(len(present)))

	return int(math.Round(math.Max(0, 100-(stddev/mean*100))))
}
