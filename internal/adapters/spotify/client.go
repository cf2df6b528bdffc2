package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ewilliams-labs/stalify/internal/core/ports"
)

// DefaultBaseURL is the production Web API root.
const DefaultBaseURL = "https://api.spotify.com/v1"

// Outcome labels reported to the Observer.
const (
	OutcomeOK        = "ok"
	OutcomeTransport = "transport_error"
	OutcomeDecode    = "decode_error"
)

// Observer is notified once per upstream call. outcome is OutcomeOK, one of
// the error outcomes, or the upstream HTTP status code.
type Observer func(endpoint, outcome string, elapsed time.Duration)

// Client is an HTTP client for the Spotify adapter.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	limiter     *rate.Limiter
	maxAttempts uint
	baseBackoff time.Duration
	logger      *zap.Logger
	observe     Observer
}

// compile-time interface assertion
var _ ports.SpotifyProvider = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithRateLimit throttles outgoing calls to rps requests per second. Zero disables it.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithRetry sets the total number of attempts per call and the base backoff.
// One attempt means no retry.
func WithRetry(maxAttempts int, baseBackoff time.Duration) Option {
	return func(c *Client) {
		if maxAttempts > 0 {
			c.maxAttempts = uint(maxAttempts)
		}
		if baseBackoff > 0 {
			c.baseBackoff = baseBackoff
		}
	}
}

// WithLogger sets the client's logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithObserver registers a per-call hook, typically a metrics recorder.
func WithObserver(observe Observer) Option {
	return func(c *Client) {
		c.observe = observe
	}
}

// NewClient constructs a new Spotify client. The http.Client's Timeout bounds
// every attempt.
func NewClient(httpClient *http.Client, baseURL string, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		httpClient:  httpClient,
		baseURL:     strings.TrimRight(baseURL, "/"),
		maxAttempts: defaultMaxAttempts,
		baseBackoff: time.Duration(defaultBackoffMs) * time.Millisecond,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// getJSON issues an authenticated GET against path and decodes the body into
// out. endpoint names the call in errors, logs and metrics.
func (c *Client) getJSON(ctx context.Context, token, endpoint, path string, query url.Values, out any) error {
	start := time.Now()
	outcome := OutcomeOK
	defer func() {
		if c.observe != nil {
			c.observe(endpoint, outcome, time.Since(start))
		}
	}()

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		outcome = OutcomeTransport
		return fmt.Errorf("spotify adapter: %s: create request: %w", endpoint, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.doRequestWithRetry(req)
	if err != nil {
		outcome = OutcomeTransport
		return fmt.Errorf("spotify adapter: %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		outcome = strconv.Itoa(resp.StatusCode)
		return &ports.UpstreamError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Message:    readErrorMessage(resp.Body),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		outcome = OutcomeDecode
		return fmt.Errorf("spotify adapter: %s: decode: %w", endpoint, err)
	}
	return nil
}

// readErrorMessage extracts error.message from a Web API error body, falling
// back to the raw (truncated) body.
func readErrorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var eb errorBody
	if err := json.Unmarshal(raw, &eb); err == nil && eb.Error.Message != "" {
		return eb.Error.Message
	}
	msg := strings.TrimSpace(string(raw))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}

// IsUnauthorized reports whether err means the caller's token was rejected.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ports.ErrUpstreamUnauthorized)
}
