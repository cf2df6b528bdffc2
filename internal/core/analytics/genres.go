package analytics

import (
	"slices"

	"github.com/ewilliams-labs/stalify/internal/core/domain"
)

// GenreDistribution counts genre occurrences across artists and returns the
// top n (all when n <= 0). Equal counts keep first-seen order.
func GenreDistribution(artists []domain.ArtistSummary, n int) []domain.GenreCount {
	counts := make(map[string]int)
	var order []string
	for _, a := range artists {
		for _, g := range a.Genres {
			if g == "" {
				continue
			}
			if _, seen := counts[g]; !seen {
				order = append(order, g)
			}
			counts[g]++
		}
	}

	out := make([]domain.GenreCount, 0, len(order))
	for _, g := range order {
		out = append(out, domain.GenreCount{Genre: g, Count: counts[g]})
	}
	slices.SortStableFunc(out, func(a, b domain.GenreCount) int {
		return b.Count - a.Count
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
