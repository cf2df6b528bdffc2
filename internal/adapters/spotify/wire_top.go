package spotify

import (
	"context"
	"net/url"
	"strconv"

	"github.com/ewilliams-labs/stalify/internal/core/domain"
)

func topQuery(window domain.TimeRange, limit int) url.Values {
	query := url.Values{}
	query.Set("time_range", string(window))
	query.Set("limit", strconv.Itoa(limit))
	return query
}

// TopTracks returns the listener's top tracks for window, most played first.
func (c *Client) TopTracks(ctx context.Context, token string, window domain.TimeRange, limit int) ([]domain.Track, error) {
	var body pagingObject[spotifyTrack]
	if err := c.getJSON(ctx, token, "top-tracks", "/me/top/tracks", topQuery(window, limit), &body); err != nil {
		return nil, err
	}

	tracks := make([]domain.Track, len(body.Items))
	for i, st := range body.Items {
		tracks[i] = mapTrackToDomain(st)
	}
	return tracks, nil
}

// TopArtists returns the listener's top artists for window, most played first.
func (c *Client) TopArtists(ctx context.Context, token string, window domain.TimeRange, limit int) ([]domain.Artist, error) {
	var body pagingObject[spotifyArtist]
	if err := c.getJSON(ctx, token, "top-artists", "/me/top/artists", topQuery(window, limit), &body); err != nil {
		return nil, err
	}

	artists := make([]domain.Artist, len(body.Items))
	for i, sa := range body.Items {
		artists[i] = mapArtistToDomain(sa)
	}
	return artists, nil
}
