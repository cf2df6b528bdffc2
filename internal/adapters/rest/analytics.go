package rest

import (
	"net/http"
)

const defaultPatternsLimit = 50

// ListeningPatterns handles GET /api/analytics/listening-patterns
func (h *Handler) ListeningPatterns(w http.ResponseWriter, r *http.Request) {
	const title = "Failed to analyze listening patterns"

	limit, err := queryLimit(r, defaultPatternsLimit)
	if err != nil {
		h.writeServiceError(w, r, title, err)
		return
	}
	loc, err := queryLocation(r)
	if err != nil {
		h.writeServiceError(w, r, title, err)
		return
	}

	report, err := h.insights.ListeningPatterns(r.Context(), tokenFrom(r.Context()), limit, loc)
	if err != nil {
		h.writeServiceError(w, r, title, err)
		return
	}
	writeData(w, report)
}

// MusicPersonality handles GET /api/analytics/music-personality
func (h *Handler) MusicPersonality(w http.ResponseWriter, r *http.Request) {
	const title = "Failed to analyze music personality"

	window, err := queryTimeRange(r)
	if err != nil {
		h.writeServiceError(w, r, title, err)
		return
	}

	report, err := h.insights.MusicPersonality(r.Context(), tokenFrom(r.Context()), window)
	if err != nil {
		h.writeServiceError(w, r, title, err)
		return
	}
	writeData(w, report)
}

// AudioFeatureSummary handles GET /api/analytics/audio-features. Upstream
// failures yield the default report, never an error.
func (h *Handler) AudioFeatureSummary(w http.ResponseWriter, r *http.Request) {
	window, err := queryTimeRange(r)
	if err != nil {
		h.writeServiceError(w, r, "Failed to analyze audio features", err)
		return
	}
	writeData(w, h.insights.AudioFeatureSummary(r.Context(), tokenFrom(r.Context()), window))
}
