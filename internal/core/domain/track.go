package domain

import "time"

// TrackSummary is the slice of a track the personality classifier needs.
type TrackSummary struct {
	ID         string `json:"id"`
	Popularity int    `json:"popularity"`
}

// Track represents a musical track in the domain layer.
type Track struct {
	ID          string   `json:"id"`
	Title       string   `json:"name"`
	Artist      string   `json:"artist"`
	ArtistIDs   []string `json:"artistIds,omitempty"`
	Album       string   `json:"album,omitempty"`
	CoverURL    string   `json:"coverUrl,omitempty"`
	PreviewURL  string   `json:"previewUrl,omitempty"`
	ExternalURL string   `json:"externalUrl,omitempty"`
	DurationMs  int      `json:"durationMs"`
	Popularity  int      `json:"popularity"`
	ISRC        string   `json:"isrc,omitempty"` // International Standard Recording Code
}

// Summary strips a track down to what the aggregation layer consumes.
func (t Track) Summary() TrackSummary {
	return TrackSummary{ID: t.ID, Popularity: t.Popularity}
}

// Summaries maps a track list to summaries, preserving order.
func Summaries(tracks []Track) []TrackSummary {
	out := make([]TrackSummary, len(tracks))
	for i, t := range tracks {
		out[i] = t.Summary()
	}
	return out
}

// PlayEvent is one entry of a user's recently-played history.
type PlayEvent struct {
	TrackID    string    `json:"trackId"`
	TrackName  string    `json:"trackName,omitempty"`
	Artist     string    `json:"artist,omitempty"`
	PlayedAt   time.Time `json:"playedAt"`
	DurationMs int       `json:"durationMs"`
}

// AudioFeatureVector holds the provider's audio analysis for a single track.
// Danceability, Energy and Valence are in [0,1]; Tempo is in BPM.
type AudioFeatureVector struct {
	TrackID          string  `json:"trackId"`
	Danceability     float64 `json:"danceability"`
	Energy           float64 `json:"energy"`
	Valence          float64 `json:"valence"`
	Tempo            float64 `json:"tempo"`
	Acousticness     float64 `json:"acousticness"`
	Instrumentalness float64 `json:"instrumentalness"`
}
