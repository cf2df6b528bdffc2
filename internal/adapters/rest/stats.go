package rest

import (
	"fmt"
	"net/http"

	"github.com/ewilliams-labs/stalify/internal/core/domain"
	"github.com/ewilliams-labs/stalify/internal/core/services"
)

const defaultStatsLimit = 20

type windowedListResponse struct {
	Success   bool             `json:"success"`
	Data      any              `json:"data"`
	TimeRange domain.TimeRange `json:"timeRange"`
	Limit     int              `json:"limit"`
}

type listResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
	Limit   int  `json:"limit"`
}

// TopTracks handles GET /api/stats/top-tracks
func (h *Handler) TopTracks(w http.ResponseWriter, r *http.Request) {
	const title = "Failed to fetch top tracks"

	window, err := queryTimeRange(r)
	if err != nil {
		h.writeServiceError(w, r, title, err)
		return
	}
	limit, err := queryLimit(r, defaultStatsLimit)
	if err != nil {
		h.writeServiceError(w, r, title, err)
		return
	}

	tracks, err := h.stats.TopTracks(r.Context(), tokenFrom(r.Context()), window, limit)
	if err != nil {
		h.writeServiceError(w, r, title, err)
		return
	}
	writeJSON(w, http.StatusOK, windowedListResponse{Success: true, Data: tracks, TimeRange: window, Limit: limit})
}

// TopArtists handles GET /api/stats/top-artists
func (h *Handler) TopArtists(w http.ResponseWriter, r *http.Request) {
	const title = "Failed to fetch top artists"

	window, err := queryTimeRange(r)
	if err != nil {
		h.writeServiceError(w, r, title, err)
		return
	}
	limit, err := queryLimit(r, defaultStatsLimit)
	if err != nil {
		h.writeServiceError(w, r, title, err)
		return
	}

	artists, err := h.stats.TopArtists(r.Context(), tokenFrom(r.Context()), window, limit)
	if err != nil {
		h.writeServiceError(w, r, title, err)
		return
	}
	writeJSON(w, http.StatusOK, windowedListResponse{Success: true, Data: artists, TimeRange: window, Limit: limit})
}

// RecentlyPlayed handles GET /api/stats/recently-played
func (h *Handler) RecentlyPlayed(w http.ResponseWriter, r *http.Request) {
	const title = "Failed to fetch recently played tracks"

	limit, err := queryLimit(r, defaultStatsLimit)
	if err != nil {
		h.writeServiceError(w, r, title, err)
		return
	}

	plays, err := h.stats.RecentlyPlayed(r.Context(), tokenFrom(r.Context()), limit)
	if err != nil {
		h.writeServiceError(w, r, title, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Success: true, Data: plays, Limit: limit})
}

// Playlists handles GET /api/stats/playlists
func (h *Handler) Playlists(w http.ResponseWriter, r *http.Request) {
	const title = "Failed to fetch playlists"

	limit, err := queryLimit(r, defaultStatsLimit)
	if err != nil {
		h.writeServiceError(w, r, title, err)
		return
	}

	playlists, err := h.stats.Playlists(r.Context(), tokenFrom(r.Context()), limit)
	if err != nil {
		h.writeServiceError(w, r, title, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Success: true, Data: playlists, Limit: limit})
}

// TrackFeatures handles GET /api/stats/audio-features?track_ids=a,b
func (h *Handler) TrackFeatures(w http.ResponseWriter, r *http.Request) {
	const title = "Failed to fetch audio features"

	ids := queryIDs(r, "track_ids")
	if len(ids) == 0 {
		h.writeServiceError(w, r, title, fmt.Errorf("%w: track_ids parameter is required", services.ErrInvalidArgument))
		return
	}

	features, err := h.stats.TrackFeatures(r.Context(), tokenFrom(r.Context()), ids)
	if err != nil {
		h.writeServiceError(w, r, title, err)
		return
	}
	writeData(w, features)
}

// Summary handles GET /api/stats/summary
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.stats.Summary(r.Context(), tokenFrom(r.Context()))
	if err != nil {
		h.writeServiceError(w, r, "Failed to fetch summary", err)
		return
	}
	writeData(w, summary)
}
