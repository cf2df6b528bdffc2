package spotify

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/ewilliams-labs/stalify/internal/core/domain"
)

// RecentPlays returns up to limit plays, newest first.
func (c *Client) RecentPlays(ctx context.Context, token string, limit int) ([]domain.PlayEvent, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))

	var body pagingObject[spotifyPlayHistory]
	if err := c.getJSON(ctx, token, "recently-played", "/me/player/recently-played", query, &body); err != nil {
		return nil, err
	}

	plays := make([]domain.PlayEvent, 0, len(body.Items))
	for _, item := range body.Items {
		play, err := mapPlayToDomain(item)
		if err != nil {
			return nil, fmt.Errorf("spotify adapter: recently-played: %w", err)
		}
		plays = append(plays, play)
	}
	return plays, nil
}
