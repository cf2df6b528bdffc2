package observability

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/ewilliams-labs/stalify/internal/core/analytics"
)

func TestWrapHandler_RecordsRouteAndStatus(t *testing.T) {
	m := NewMetrics()
	h := m.WrapHandler("/api/stats/summary", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	for i := 0; i < 2; i++ {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/stats/summary", nil))
	}

	if got := testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("/api/stats/summary", "502")); got != 2 {
		t.Fatalf("requests: got %v, want 2", got)
	}
}

func TestSpotifyRequestAndPlaceholders(t *testing.T) {
	m := NewMetrics()
	m.SpotifyRequest("top-tracks", "ok", 15*time.Millisecond)
	m.SpotifyRequest("top-tracks", "401", time.Millisecond)

	if got := testutil.ToFloat64(m.spotifyRequests.WithLabelValues("top-tracks", "ok")); got != 1 {
		t.Fatalf("spotify ok: got %v", got)
	}

	ph := m.CountingPlaceholder(analytics.FixedPlaceholder(12))
	if v := ph.Value(analytics.FieldSkipRate, 5, 25); v != 12 {
		t.Fatalf("placeholder value: got %d, want 12", v)
	}
	if got := testutil.ToFloat64(m.placeholderValues.WithLabelValues(analytics.FieldSkipRate)); got != 1 {
		t.Fatalf("placeholder count: got %v", got)
	}
}

func TestHandler_ExposesRegistry(t *testing.T) {
	m := NewMetrics()
	m.PendingStates(func(ctx context.Context, now time.Time) (int, error) { return 3, nil })
	m.SpotifyRequest("me", "ok", time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)

	for _, want := range []string{`spotify_requests_total{endpoint="me",outcome="ok"} 1`, "oauth_pending_states 3"} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("expected %q in metrics output", want)
		}
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.SpotifyRequest("me", "ok", time.Millisecond)
	m.PendingStates(nil)
	if v := m.CountingPlaceholder(analytics.FixedPlaceholder(4)).Value("x", 0, 10); v != 4 {
		t.Fatalf("got %d", v)
	}
	h := m.WrapHandler("/x", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))
}

func TestNewLogger(t *testing.T) {
	if _, err := NewLogger("debug", "development"); err != nil {
		t.Fatalf("development logger: %v", err)
	}
	if _, err := NewLogger("", "production"); err != nil {
		t.Fatalf("default logger: %v", err)
	}
	if _, err := NewLogger("chatty", ""); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
