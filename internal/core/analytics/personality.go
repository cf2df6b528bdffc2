package analytics

import (
	"github.com/samber/lo"

	"github.com/ewilliams-labs/stalify/internal/core/domain"
)

type personalityProfile struct {
	traits          []string
	description     string
	recommendations []string
}

// Balanced Listener and Niche Enthusiast have never had recommendations; the
// dashboard renders an empty list for them.
var personalityProfiles = map[string]personalityProfile{
	domain.PersonalityExplorer: {
		traits:      []string{"Curious", "Adventurous", "Open-minded"},
		description: "You love discovering new sounds and aren't afraid to venture into unknown musical territories.",
		recommendations: []string{
			"Try exploring world music genres",
			"Check out underground artists",
			"Listen to music from different decades",
		},
	},
	domain.PersonalityMainstream: {
		traits:      []string{"Trendy", "Social", "Connected"},
		description: "You enjoy popular music and staying connected with what's trending.",
		recommendations: []string{
			"Follow trending playlists",
			"Check out new releases from popular artists",
			"Explore music from different countries",
		},
	},
	domain.PersonalityBalanced: {
		traits:      []string{"Versatile", "Adaptable", "Well-rounded"},
		description: "You have a well-balanced taste that spans both popular and niche music.",
	},
	domain.PersonalityNiche: {
		traits:      []string{"Unique", "Independent", "Authentic"},
		description: "You have a distinctive taste and prefer music that stands out from the crowd.",
	},
}

// Personality classifies a listener from their top tracks and top artists.
func Personality(tracks []domain.TrackSummary, artists []domain.ArtistSummary, ph Placeholder) domain.PersonalityReport {
	diversity := DiversityScore(artists)
	mainstream := MainstreamScore(tracks)
	kind := Classify(diversity, mainstream)
	profile := personalityProfiles[kind]

	return domain.PersonalityReport{
		Type:        kind,
		Traits:      cloneStrings(profile.traits),
		Description: profile.description,
		Score: domain.PersonalityScore{
			Diversity:  diversity,
			Mainstream: mainstream,
			Energy:     placeholder(ph, FieldEnergy, 0, 100),
			Mood:       placeholder(ph, FieldMood, 0, 100),
		},
		Recommendations:   cloneStrings(profile.recommendations),
		PlaceholderFields: []string{FieldEnergy, FieldMood},
	}
}

// Classify applies the personality decision table. Comparisons are strict and
// the first matching row wins.
func Classify(diversity, mainstream int) string {
	switch {
	case diversity > 70 && mainstream < 50:
		return domain.PersonalityExplorer
	case diversity < 40 && mainstream > 70:
		return domain.PersonalityMainstream
	case diversity > 60 && mainstream > 60:
		return domain.PersonalityBalanced
	default:
		return domain.PersonalityNiche
	}
}

// DiversityScore is the number of distinct genres per artist, as a clamped
// percentage. Artists without genres still count in the denominator.
func DiversityScore(artists []domain.ArtistSummary) int {
	genres := lo.Uniq(lo.FlatMap(artists, func(a domain.ArtistSummary, _ int) []string {
		return lo.Compact(a.Genres)
	}))
	return percent(float64(len(genres)), float64(len(artists)))
}

// MainstreamScore is the rounded mean track popularity, clamped to [0,100].
func MainstreamScore(tracks []domain.TrackSummary) int {
	if len(tracks) == 0 {
		return 0
	}
	total := lo.SumBy(tracks, func(t domain.TrackSummary) int {
		return t.Popularity
	})
	return percent(float64(total), float64(100*len(tracks)))
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
