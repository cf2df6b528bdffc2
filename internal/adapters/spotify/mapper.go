package spotify

import (
	"fmt"
	"strings"
	"time"

	"github.com/ewilliams-labs/stalify/internal/core/domain"
)

func firstImageURL(images []spotifyImage) string {
	if len(images) == 0 {
		return ""
	}
	return images[0].URL
}

// mapTrackToDomain converts a raw Spotify track to a clean Domain track.
func mapTrackToDomain(st spotifyTrack) domain.Track {
	names := make([]string, 0, len(st.Artists))
	ids := make([]string, 0, len(st.Artists))
	for _, a := range st.Artists {
		names = append(names, a.Name)
		if a.ID != "" {
			ids = append(ids, a.ID)
		}
	}

	return domain.Track{
		ID:          st.ID,
		Title:       st.Name,
		Artist:      strings.Join(names, ", "),
		ArtistIDs:   ids,
		Album:       st.Album.Name,
		CoverURL:    firstImageURL(st.Album.Images),
		PreviewURL:  st.PreviewURL,
		ExternalURL: st.ExternalURLs.Spotify,
		DurationMs:  st.DurationMs,
		Popularity:  st.Popularity,
		ISRC:        st.ExternalIDs.ISRC,
	}
}

func mapArtistToDomain(sa spotifyArtist) domain.Artist {
	genres := sa.Genres
	if genres == nil {
		genres = []string{}
	}
	return domain.Artist{
		ID:          sa.ID,
		Name:        sa.Name,
		Genres:      genres,
		Followers:   sa.Followers.Total,
		Popularity:  sa.Popularity,
		ImageURL:    firstImageURL(sa.Images),
		ExternalURL: sa.ExternalURLs.Spotify,
	}
}

// mapPlayToDomain converts a play-history item. played_at is ISO-8601 UTC,
// with or without fractional seconds.
func mapPlayToDomain(item spotifyPlayHistory) (domain.PlayEvent, error) {
	playedAt, err := time.Parse(time.RFC3339Nano, item.PlayedAt)
	if err != nil {
		return domain.PlayEvent{}, fmt.Errorf("invalid played_at %q: %w", item.PlayedAt, err)
	}
	track := mapTrackToDomain(item.Track)
	return domain.PlayEvent{
		TrackID:    track.ID,
		TrackName:  track.Title,
		Artist:     track.Artist,
		PlayedAt:   playedAt.UTC(),
		DurationMs: track.DurationMs,
	}, nil
}

// mapFeaturesToDomain keeps nil entries: the provider returns null for
// tracks it has no analysis for.
func mapFeaturesToDomain(sf *spotifyAudioFeatures) *domain.AudioFeatureVector {
	if sf == nil {
		return nil
	}
	return &domain.AudioFeatureVector{
		TrackID:          sf.ID,
		Danceability:     sf.Danceability,
		Energy:           sf.Energy,
		Valence:          sf.Valence,
		Tempo:            sf.Tempo,
		Acousticness:     sf.Acousticness,
		Instrumentalness: sf.Instrumentalness,
	}
}

func mapUserToDomain(su spotifyUser) domain.UserProfile {
	images := make([]domain.Image, 0, len(su.Images))
	for _, img := range su.Images {
		images = append(images, domain.Image{URL: img.URL, Height: img.Height, Width: img.Width})
	}
	return domain.UserProfile{
		ID:           su.ID,
		DisplayName:  su.DisplayName,
		Email:        su.Email,
		Country:      su.Country,
		Followers:    su.Followers.Total,
		Images:       images,
		Product:      su.Product,
		ExternalURLs: su.ExternalURLs,
	}
}

func mapPlaylistToDomain(sp spotifyPlaylist) domain.Playlist {
	owner := sp.Owner.DisplayName
	if owner == "" {
		owner = sp.Owner.ID
	}
	return domain.Playlist{
		ID:          sp.ID,
		Name:        sp.Name,
		Description: sp.Description,
		Owner:       owner,
		Public:      sp.Public,
		TrackCount:  sp.Tracks.Total,
		ImageURL:    firstImageURL(sp.Images),
	}
}
