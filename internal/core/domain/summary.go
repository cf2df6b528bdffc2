package domain

// WindowedTracks groups top tracks by lookback window.
type WindowedTracks struct {
	ShortTerm  []Track `json:"shortTerm"`
	MediumTerm []Track `json:"mediumTerm"`
	LongTerm   []Track `json:"longTerm"`
}

// WindowedArtists groups top artists by lookback window.
type WindowedArtists struct {
	ShortTerm  []Artist `json:"shortTerm"`
	MediumTerm []Artist `json:"mediumTerm"`
	LongTerm   []Artist `json:"longTerm"`
}

// SummaryCounts are the headline numbers of the dashboard summary.
type SummaryCounts struct {
	TotalTracksAnalyzed  int    `json:"totalTracksAnalyzed"`
	TotalArtistsAnalyzed int    `json:"totalArtistsAnalyzed"`
	TotalGenres          int    `json:"totalGenres"`
	TopGenre             string `json:"topGenre"`
}

// StatsSummary is everything the dashboard's landing view needs in one payload.
type StatsSummary struct {
	TopTracks         WindowedTracks  `json:"topTracks"`
	TopArtists        WindowedArtists `json:"topArtists"`
	RecentlyPlayed    []PlayEvent     `json:"recentlyPlayed"`
	Playlists         []Playlist      `json:"playlists"`
	GenreDistribution []GenreCount    `json:"genreDistribution"`
	Summary           SummaryCounts   `json:"summary"`
}
