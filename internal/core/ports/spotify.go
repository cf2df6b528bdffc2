package ports

import (
	"context"
	"errors"
	"fmt"

	"github.com/ewilliams-labs/stalify/internal/core/domain"
)

// ErrUpstreamUnauthorized indicates the provider rejected the caller's token.
var ErrUpstreamUnauthorized = errors.New("upstream rejected access token")

// UpstreamError describes a non-success response from the music provider.
type UpstreamError struct {
	Endpoint   string
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upstream %s: status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("upstream %s: status %d: %s", e.Endpoint, e.StatusCode, e.Message)
}

func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstreamUnauthorized && e.StatusCode == 401
}

// SpotifyProvider is the listening-data source. Every call carries the
// listener's bearer token; implementations hold no per-user state.
type SpotifyProvider interface {
	RecentPlays(ctx context.Context, token string, limit int) ([]domain.PlayEvent, error)
	TopTracks(ctx context.Context, token string, window domain.TimeRange, limit int) ([]domain.Track, error)
	TopArtists(ctx context.Context, token string, window domain.TimeRange, limit int) ([]domain.Artist, error)
	// AudioFeatures returns one entry per id, in order; entries are nil for
	// tracks the provider could not analyse.
	AudioFeatures(ctx context.Context, token string, trackIDs []string) ([]*domain.AudioFeatureVector, error)
	Profile(ctx context.Context, token string) (domain.UserProfile, error)
	Playlists(ctx context.Context, token string, limit int) ([]domain.Playlist, error)
}
