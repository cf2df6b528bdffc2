package rest

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ewilliams-labs/stalify/internal/core/services"
	"github.com/ewilliams-labs/stalify/internal/observability"
)

// Handler manages the HTTP interface for our application.
type Handler struct {
	insights *services.Insights
	stats    *services.Stats
	auth     *services.Auth
	metrics  *observability.Metrics
	logger   *zap.Logger
	router   *http.ServeMux      // Standard library router
	allowed  map[string][]string // path -> registered methods
	now      func() time.Time
}

// NewHandler initializes the HTTP adapter and sets up routes. metrics and
// logger may be nil.
func NewHandler(insights *services.Insights, stats *services.Stats, auth *services.Auth, metrics *observability.Metrics, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{
		insights: insights,
		stats:    stats,
		auth:     auth,
		metrics:  metrics,
		logger:   logger,
		router:   http.NewServeMux(),
		allowed:  make(map[string][]string),
		now:      time.Now,
	}

	h.routes()

	return h
}

// ServeHTTP satisfies the http.Handler interface. Requests no route accepts
// get a JSON 404 or 405 instead of the mux's plain-text defaults.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if _, pattern := h.router.Handler(r); pattern == "" {
		h.unmatched(w, r)
		return
	}
	h.router.ServeHTTP(w, r)
}

func (h *Handler) unmatched(w http.ResponseWriter, r *http.Request) {
	methods, ok := h.allowed[r.URL.Path]
	if !ok {
		writeError(w, http.StatusNotFound, "Route not found",
			fmt.Sprintf("No route matches %s %s", r.Method, r.URL.Path))
		return
	}
	w.Header().Set("Allow", strings.Join(methods, ", "))
	writeError(w, http.StatusMethodNotAllowed, "Method not allowed",
		fmt.Sprintf("%s %s is not supported; use %s", r.Method, r.URL.Path, strings.Join(methods, " or ")))
}

// register records pattern's method for the 405 response and adds it to the mux.
func (h *Handler) register(pattern string, handler http.Handler) {
	method, path, _ := strings.Cut(pattern, " ")
	h.allowed[path] = append(h.allowed[path], method)
	h.router.Handle(pattern, handler)
}

// handle registers fn under pattern, instrumented with the route label.
func (h *Handler) handle(pattern, route string, fn http.HandlerFunc) {
	h.register(pattern, h.metrics.WrapHandler(route, fn))
}

// routes defines the mapping between URLs and methods.
func (h *Handler) routes() {
	h.handle("GET /api/health", "/api/health", h.HealthCheck)
	if h.metrics != nil {
		h.register("GET /metrics", h.metrics.Handler())
	}

	// Analytics
	h.handle("GET /api/analytics/listening-patterns", "/api/analytics/listening-patterns", h.requireBearer(h.ListeningPatterns))
	h.handle("GET /api/analytics/music-personality", "/api/analytics/music-personality", h.requireBearer(h.MusicPersonality))
	h.handle("GET /api/analytics/audio-features", "/api/analytics/audio-features", h.requireBearer(h.AudioFeatureSummary))

	// Raw stats
	h.handle("GET /api/stats/top-tracks", "/api/stats/top-tracks", h.requireBearer(h.TopTracks))
	h.handle("GET /api/stats/top-artists", "/api/stats/top-artists", h.requireBearer(h.TopArtists))
	h.handle("GET /api/stats/recently-played", "/api/stats/recently-played", h.requireBearer(h.RecentlyPlayed))
	h.handle("GET /api/stats/playlists", "/api/stats/playlists", h.requireBearer(h.Playlists))
	h.handle("GET /api/stats/audio-features", "/api/stats/audio-features", h.requireBearer(h.TrackFeatures))
	h.handle("GET /api/stats/summary", "/api/stats/summary", h.requireBearer(h.Summary))

	// Auth
	h.handle("GET /api/auth/login", "/api/auth/login", h.Login)
	h.handle("POST /api/auth/callback", "/api/auth/callback", h.Callback)
	h.handle("POST /api/auth/refresh", "/api/auth/refresh", h.Refresh)
	h.handle("GET /api/auth/profile", "/api/auth/profile", h.requireBearer(h.Profile))
	h.handle("GET /api/auth/session", "/api/auth/session", h.requireBearer(h.Session))
	h.handle("POST /api/auth/logout", "/api/auth/logout", h.Logout)
}

// HealthCheck is a simple endpoint to verify the API is running.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "OK",
		"message":   "Spotify Stats API is running",
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}
