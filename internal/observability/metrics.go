package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ewilliams-labs/stalify/internal/core/analytics"
)

// Metrics owns the service's collectors and the registry they live in.
type Metrics struct {
	registry          *prometheus.Registry
	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	spotifyRequests   *prometheus.CounterVec
	spotifyDuration   *prometheus.HistogramVec
	placeholderValues *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		spotifyRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "spotify_requests_total",
			Help: "Total upstream Spotify calls by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		spotifyDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "spotify_request_duration_seconds",
			Help:    "Histogram of upstream Spotify call durations, retries included.",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		placeholderValues: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "placeholder_values_total",
			Help: "Report fields served from a placeholder source instead of real data.",
		}, []string{"field"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpDuration,
		m.spotifyRequests,
		m.spotifyDuration,
		m.placeholderValues,
	)

	return m
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

func (m *Metrics) WrapHandler(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(recorder, r)

		duration := time.Since(start).Seconds()
		if m != nil {
			m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
			m.httpDuration.WithLabelValues(route).Observe(duration)
		}
	})
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// SpotifyRequest matches the Spotify client's Observer signature.
func (m *Metrics) SpotifyRequest(endpoint, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.spotifyRequests.WithLabelValues(endpoint, outcome).Inc()
	m.spotifyDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// PendingStates exposes the number of outstanding OAuth login attempts.
func (m *Metrics) PendingStates(count func(ctx context.Context, now time.Time) (int, error)) {
	if m == nil {
		return
	}
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "oauth_pending_states",
		Help: "OAuth state values issued and not yet consumed or expired.",
	}, func() float64 {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		n, err := count(ctx, time.Now())
		if err != nil {
			return -1
		}
		return float64(n)
	}))
}

// CountingPlaceholder wraps next so each placeholder value served is counted
// per field.
func (m *Metrics) CountingPlaceholder(next analytics.Placeholder) analytics.Placeholder {
	return countingPlaceholder{next: next, metrics: m}
}

type countingPlaceholder struct {
	next    analytics.Placeholder
	metrics *Metrics
}

func (c countingPlaceholder) Value(field string, lo, hi int) int {
	if c.metrics != nil {
		c.metrics.placeholderValues.WithLabelValues(field).Inc()
	}
	if c.next == nil {
		return 0
	}
	return c.next.Value(field, lo, hi)
}
