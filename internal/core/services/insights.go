package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ewilliams-labs/stalify/internal/core/analytics"
	"github.com/ewilliams-labs/stalify/internal/core/domain"
	"github.com/ewilliams-labs/stalify/internal/core/ports"
)

// ErrInvalidArgument marks caller mistakes (bad limit, missing ids, ...).
var ErrInvalidArgument = errors.New("service: invalid argument")

const (
	// MaxLimit is the provider's page-size ceiling for every list query.
	MaxLimit = 50

	insightsWindowLimit = 50
)

// Insights fetches listening data and runs it through the analytics package.
type Insights struct {
	spotify     ports.SpotifyProvider
	placeholder analytics.Placeholder
	location    *time.Location
	logger      *zap.Logger
}

// NewInsights constructs an Insights service. loc is the default zone used to
// bucket plays by hour and weekday.
func NewInsights(spotify ports.SpotifyProvider, placeholder analytics.Placeholder, loc *time.Location, logger *zap.Logger) *Insights {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Insights{
		spotify:     spotify,
		placeholder: placeholder,
		location:    loc,
		logger:      logger,
	}
}

// ListeningPatterns analyses the last limit plays. A nil loc uses the
// service default.
func (s *Insights) ListeningPatterns(ctx context.Context, token string, limit int, loc *time.Location) (domain.ListeningPatternReport, error) {
	if err := validateLimit(limit); err != nil {
		return domain.ListeningPatternReport{}, err
	}
	if loc == nil {
		loc = s.location
	}

	plays, err := s.spotify.RecentPlays(ctx, token, limit)
	if err != nil {
		return domain.ListeningPatternReport{}, fmt.Errorf("service: fetch recent plays: %w", err)
	}

	return analytics.Patterns(plays, loc, s.placeholder), nil
}

// MusicPersonality classifies the listener from the window's top tracks and
// top artists, fetched concurrently.
func (s *Insights) MusicPersonality(ctx context.Context, token string, window domain.TimeRange) (domain.PersonalityReport, error) {
	var tracks []domain.Track
	var artists []domain.Artist

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tracks, err = s.spotify.TopTracks(gctx, token, window, insightsWindowLimit)
		if err != nil {
			return fmt.Errorf("service: fetch top tracks: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		artists, err = s.spotify.TopArtists(gctx, token, window, insightsWindowLimit)
		if err != nil {
			return fmt.Errorf("service: fetch top artists: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.PersonalityReport{}, err
	}

	return analytics.Personality(domain.Summaries(tracks), domain.ArtistSummaries(artists), s.placeholder), nil
}

// AudioFeatureSummary averages the audio features of the window's top tracks.
// It never fails: any upstream error is logged and the default report served,
// since many provider apps no longer have access to audio analysis at all.
func (s *Insights) AudioFeatureSummary(ctx context.Context, token string, window domain.TimeRange) domain.AudioFeatureReport {
	tracks, err := s.spotify.TopTracks(ctx, token, window, insightsWindowLimit)
	if err != nil {
		s.logger.Warn("audio features: top tracks unavailable, serving default report", zap.Error(err))
		return analytics.DefaultAudioFeatureReport()
	}

	ids := make([]string, 0, len(tracks))
	for _, t := range tracks {
		if t.ID != "" {
			ids = append(ids, t.ID)
		}
	}
	if len(ids) == 0 {
		return analytics.DefaultAudioFeatureReport()
	}

	vectors, err := s.spotify.AudioFeatures(ctx, token, ids)
	if err != nil {
		s.logger.Warn("audio features: upstream analysis unavailable, serving default report",
			zap.Int("tracks", len(ids)), zap.Error(err))
		return analytics.DefaultAudioFeatureReport()
	}

	return analytics.AudioFeatures(vectors)
}

func validateLimit(limit int) error {
	if limit < 1 || limit > MaxLimit {
		return fmt.Errorf("%w: limit must be between 1 and %d, got %d", ErrInvalidArgument, MaxLimit, limit)
	}
	return nil
}
