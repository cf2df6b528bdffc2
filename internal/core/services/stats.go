package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ewilliams-labs/stalify/internal/core/analytics"
	"github.com/ewilliams-labs/stalify/internal/core/domain"
	"github.com/ewilliams-labs/stalify/internal/core/ports"
)

// Page sizes used to assemble the dashboard summary.
const (
	summaryShortTermLimit  = 10
	summaryMediumTermLimit = 20
	summaryLongTermLimit   = 50
	summaryRecentLimit     = 20
	summaryPlaylistLimit   = 20
	summaryGenreLimit      = 10

	// MaxFeatureIDs caps the ids accepted by a single audio-features lookup.
	MaxFeatureIDs = 100
)

// Stats serves the provider's raw listening data, lightly reshaped.
type Stats struct {
	spotify ports.SpotifyProvider
}

// NewStats constructs a Stats service.
func NewStats(spotify ports.SpotifyProvider) *Stats {
	return &Stats{spotify: spotify}
}

// TopTracks returns the listener's most played tracks for window.
func (s *Stats) TopTracks(ctx context.Context, token string, window domain.TimeRange, limit int) ([]domain.Track, error) {
	if err := validateLimit(limit); err != nil {
		return nil, err
	}
	tracks, err := s.spotify.TopTracks(ctx, token, window, limit)
	if err != nil {
		return nil, fmt.Errorf("service: fetch top tracks: %w", err)
	}
	return tracks, nil
}

// TopArtists returns the listener's most played artists for window.
func (s *Stats) TopArtists(ctx context.Context, token string, window domain.TimeRange, limit int) ([]domain.Artist, error) {
	if err := validateLimit(limit); err != nil {
		return nil, err
	}
	artists, err := s.spotify.TopArtists(ctx, token, window, limit)
	if err != nil {
		return nil, fmt.Errorf("service: fetch top artists: %w", err)
	}
	return artists, nil
}

// RecentlyPlayed returns the latest plays, newest first.
func (s *Stats) RecentlyPlayed(ctx context.Context, token string, limit int) ([]domain.PlayEvent, error) {
	if err := validateLimit(limit); err != nil {
		return nil, err
	}
	plays, err := s.spotify.RecentPlays(ctx, token, limit)
	if err != nil {
		return nil, fmt.Errorf("service: fetch recent plays: %w", err)
	}
	return plays, nil
}

// Playlists returns the listener's own and followed playlists.
func (s *Stats) Playlists(ctx context.Context, token string, limit int) ([]domain.Playlist, error) {
	if err := validateLimit(limit); err != nil {
		return nil, err
	}
	playlists, err := s.spotify.Playlists(ctx, token, limit)
	if err != nil {
		return nil, fmt.Errorf("service: fetch playlists: %w", err)
	}
	return playlists, nil
}

// TrackFeatures looks up raw audio features for explicit track ids.
// Entries are nil for tracks the provider could not analyse.
func (s *Stats) TrackFeatures(ctx context.Context, token string, ids []string) ([]*domain.AudioFeatureVector, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: at least one track id is required", ErrInvalidArgument)
	}
	if len(ids) > MaxFeatureIDs {
		return nil, fmt.Errorf("%w: at most %d track ids per request, got %d", ErrInvalidArgument, MaxFeatureIDs, len(ids))
	}
	vectors, err := s.spotify.AudioFeatures(ctx, token, ids)
	if err != nil {
		return nil, fmt.Errorf("service: fetch audio features: %w", err)
	}
	return vectors, nil
}

// Summary fetches every window of top tracks and artists plus recent plays
// and playlists concurrently. Genres are counted over the artists of all
// three windows; the headline counts describe the long-term window. Any
// failed fetch fails the summary.
func (s *Stats) Summary(ctx context.Context, token string) (domain.StatsSummary, error) {
	var out domain.StatsSummary

	g, gctx := errgroup.WithContext(ctx)
	fetchTracks := func(dst *[]domain.Track, window domain.TimeRange, limit int) {
		g.Go(func() error {
			tracks, err := s.spotify.TopTracks(gctx, token, window, limit)
			if err != nil {
				return fmt.Errorf("service: fetch %s top tracks: %w", window, err)
			}
			*dst = tracks
			return nil
		})
	}
	fetchArtists := func(dst *[]domain.Artist, window domain.TimeRange, limit int) {
		g.Go(func() error {
			artists, err := s.spotify.TopArtists(gctx, token, window, limit)
			if err != nil {
				return fmt.Errorf("service: fetch %s top artists: %w", window, err)
			}
			*dst = artists
			return nil
		})
	}

	fetchTracks(&out.TopTracks.ShortTerm, domain.ShortTerm, summaryShortTermLimit)
	fetchTracks(&out.TopTracks.MediumTerm, domain.MediumTerm, summaryMediumTermLimit)
	fetchTracks(&out.TopTracks.LongTerm, domain.LongTerm, summaryLongTermLimit)
	fetchArtists(&out.TopArtists.ShortTerm, domain.ShortTerm, summaryShortTermLimit)
	fetchArtists(&out.TopArtists.MediumTerm, domain.MediumTerm, summaryMediumTermLimit)
	fetchArtists(&out.TopArtists.LongTerm, domain.LongTerm, summaryLongTermLimit)
	g.Go(func() error {
		plays, err := s.spotify.RecentPlays(gctx, token, summaryRecentLimit)
		if err != nil {
			return fmt.Errorf("service: fetch recent plays: %w", err)
		}
		out.RecentlyPlayed = plays
		return nil
	})
	g.Go(func() error {
		playlists, err := s.spotify.Playlists(gctx, token, summaryPlaylistLimit)
		if err != nil {
			return fmt.Errorf("service: fetch playlists: %w", err)
		}
		out.Playlists = playlists
		return nil
	})

	if err := g.Wait(); err != nil {
		return domain.StatsSummary{}, err
	}

	var artists []domain.Artist
	artists = append(artists, out.TopArtists.ShortTerm...)
	artists = append(artists, out.TopArtists.MediumTerm...)
	artists = append(artists, out.TopArtists.LongTerm...)
	out.GenreDistribution = analytics.GenreDistribution(domain.ArtistSummaries(artists), summaryGenreLimit)

	out.Summary = domain.SummaryCounts{
		TotalTracksAnalyzed:  len(out.TopTracks.LongTerm),
		TotalArtistsAnalyzed: len(out.TopArtists.LongTerm),
		TotalGenres:          len(out.GenreDistribution),
		TopGenre:             domain.UnknownGenre,
	}
	if len(out.GenreDistribution) > 0 {
		out.Summary.TopGenre = out.GenreDistribution[0].Genre
	}

	return out, nil
}
