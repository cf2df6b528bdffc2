package spotify

import (
	"context"
	"net/url"
	"strconv"

	"github.com/ewilliams-labs/stalify/internal/core/domain"
)

// Profile returns the account behind token.
func (c *Client) Profile(ctx context.Context, token string) (domain.UserProfile, error) {
	var body spotifyUser
	if err := c.getJSON(ctx, token, "me", "/me", nil, &body); err != nil {
		return domain.UserProfile{}, err
	}
	return mapUserToDomain(body), nil
}

// Playlists returns the first limit playlists the listener owns or follows.
func (c *Client) Playlists(ctx context.Context, token string, limit int) ([]domain.Playlist, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))

	var body pagingObject[spotifyPlaylist]
	if err := c.getJSON(ctx, token, "playlists", "/me/playlists", query, &body); err != nil {
		return nil, err
	}

	playlists := make([]domain.Playlist, len(body.Items))
	for i, sp := range body.Items {
		playlists[i] = mapPlaylistToDomain(sp)
	}
	return playlists, nil
}
