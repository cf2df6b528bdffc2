package spotify

import (
	"context"
	"net/url"
	"strings"

	"github.com/samber/lo"

	"github.com/ewilliams-labs/stalify/internal/core/domain"
)

// audioFeaturesBatchSize is the endpoint's maximum ids per request.
const audioFeaturesBatchSize = 100

// AudioFeatures fetches audio analysis for trackIDs in batches. The result is
// aligned with trackIDs; entries are nil where the provider has no analysis.
func (c *Client) AudioFeatures(ctx context.Context, token string, trackIDs []string) ([]*domain.AudioFeatureVector, error) {
	out := make([]*domain.AudioFeatureVector, 0, len(trackIDs))

	for _, batch := range lo.Chunk(trackIDs, audioFeaturesBatchSize) {
		query := url.Values{}
		query.Set("ids", strings.Join(batch, ","))

		var body struct {
			AudioFeatures []*spotifyAudioFeatures `json:"audio_features"`
		}
		if err := c.getJSON(ctx, token, "audio-features", "/audio-features", query, &body); err != nil {
			return nil, err
		}

		for i := range batch {
			var sf *spotifyAudioFeatures
			if i < len(body.AudioFeatures) {
				sf = body.AudioFeatures[i]
			}
			out = append(out, mapFeaturesToDomain(sf))
		}
	}
	return out, nil
}
