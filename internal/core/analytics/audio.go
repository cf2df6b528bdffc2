package analytics

import (
	"math"

	"github.com/samber/lo"

	"github.com/ewilliams-labs/stalify/internal/core/domain"
)

const (
	InsightNoData      = "No audio feature data available"
	InsightDanceable   = "You love danceable music!"
	InsightHighEnergy  = "You prefer high-energy tracks"
	InsightPositive    = "You enjoy positive, uplifting music"
	InsightMelancholic = "You appreciate more melancholic, emotional music"
	InsightFastTempo   = "You gravitate toward fast-paced tracks"
	InsightSlowTempo   = "You enjoy slower, more relaxed tempos"
)

const (
	highFeatureThreshold = 0.70
	lowValenceThreshold  = 0.30
	fastTempoBPM         = 140
	slowTempoBPM         = 80

	lowBandCeiling    = 0.33
	mediumBandCeiling = 0.66
)

// DefaultAudioFeatureReport is served when no feature vector is available.
func DefaultAudioFeatureReport() domain.AudioFeatureReport {
	return domain.AudioFeatureReport{
		Average: domain.FeatureAverages{
			Danceability: 50,
			Energy:       50,
			Valence:      50,
			Tempo:        120,
		},
		Distribution: map[string]domain.FeatureBands{},
		Insights:     []string{InsightNoData},
	}
}

// AudioFeatures averages a set of feature vectors. Nil entries (tracks the
// provider could not analyse) are skipped; if nothing remains the default
// report is returned.
func AudioFeatures(vectors []*domain.AudioFeatureVector) domain.AudioFeatureReport {
	valid := lo.Compact(vectors)
	if len(valid) == 0 {
		return DefaultAudioFeatureReport()
	}

	n := float64(len(valid))
	danceability := lo.SumBy(valid, func(v *domain.AudioFeatureVector) float64 { return finite(v.Danceability) }) / n
	energy := lo.SumBy(valid, func(v *domain.AudioFeatureVector) float64 { return finite(v.Energy) }) / n
	valence := lo.SumBy(valid, func(v *domain.AudioFeatureVector) float64 { return finite(v.Valence) }) / n
	tempo := lo.SumBy(valid, func(v *domain.AudioFeatureVector) float64 { return finite(v.Tempo) }) / n

	report := domain.AudioFeatureReport{
		Average: domain.FeatureAverages{
			Danceability: int(math.Round(danceability * 100)),
			Energy:       int(math.Round(energy * 100)),
			Valence:      int(math.Round(valence * 100)),
			Tempo:        int(math.Round(tempo)),
		},
		Distribution: map[string]domain.FeatureBands{
			"danceability": bands(valid, func(v *domain.AudioFeatureVector) float64 { return v.Danceability }),
			"energy":       bands(valid, func(v *domain.AudioFeatureVector) float64 { return v.Energy }),
			"valence":      bands(valid, func(v *domain.AudioFeatureVector) float64 { return v.Valence }),
		},
		Insights:       []string{},
		TracksAnalyzed: len(valid),
	}

	if danceability > highFeatureThreshold {
		report.Insights = append(report.Insights, InsightDanceable)
	}
	if energy > highFeatureThreshold {
		report.Insights = append(report.Insights, InsightHighEnergy)
	}
	if valence > highFeatureThreshold {
		report.Insights = append(report.Insights, InsightPositive)
	} else if valence < lowValenceThreshold {
		report.Insights = append(report.Insights, InsightMelancholic)
	}
	if tempo > fastTempoBPM {
		report.Insights = append(report.Insights, InsightFastTempo)
	} else if tempo < slowTempoBPM {
		report.Insights = append(report.Insights, InsightSlowTempo)
	}

	return report
}

func bands(vectors []*domain.AudioFeatureVector, pick func(*domain.AudioFeatureVector) float64) domain.FeatureBands {
	var b domain.FeatureBands
	for _, v := range vectors {
		switch x := finite(pick(v)); {
		case x < lowBandCeiling:
			b.Low++
		case x < mediumBandCeiling:
			b.Medium++
		default:
			b.High++
		}
	}
	return b
}

// finite maps NaN and infinities to 0, like a missing field.
func finite(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}
