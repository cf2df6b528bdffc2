package domain

// ArtistSummary is the slice of an artist the personality classifier needs.
type ArtistSummary struct {
	ID             string   `json:"id"`
	Genres         []string `json:"genres"`
	FollowersTotal int      `json:"followers"`
	Popularity     int      `json:"popularity"`
}

// Artist is an artist as returned by the top-artists query.
type Artist struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Genres      []string `json:"genres"`
	Followers   int      `json:"followers"`
	Popularity  int      `json:"popularity"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	ExternalURL string   `json:"externalUrl,omitempty"`
}

func (a Artist) Summary() ArtistSummary {
	return ArtistSummary{
		ID:             a.ID,
		Genres:         a.Genres,
		FollowersTotal: a.Followers,
		Popularity:     a.Popularity,
	}
}

// ArtistSummaries maps an artist list to summaries, preserving order.
func ArtistSummaries(artists []Artist) []ArtistSummary {
	out := make([]ArtistSummary, len(artists))
	for i, a := range artists {
		out[i] = a.Summary()
	}
	return out
}

// GenreCount is one row of a genre distribution.
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// UnknownGenre labels the top genre when no artist carries any genre.
const UnknownGenre = "Unknown"
