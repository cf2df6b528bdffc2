package spotify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestClientDoRequestWithRetry(t *testing.T) {
	tests := []struct {
		name             string
		statuses         []int
		maxAttempts      int
		expectedStatus   int
		expectedAttempts int32
	}{
		{
			name:             "retries on 503 then succeeds",
			statuses:         []int{http.StatusServiceUnavailable, http.StatusServiceUnavailable, http.StatusOK},
			maxAttempts:      3,
			expectedStatus:   http.StatusOK,
			expectedAttempts: 3,
		},
		{
			name:             "exhausts retries on 429 and returns last response",
			statuses:         []int{http.StatusTooManyRequests},
			maxAttempts:      2,
			expectedStatus:   http.StatusTooManyRequests,
			expectedAttempts: 2,
		},
		{
			name:             "single attempt by default",
			statuses:         []int{http.StatusBadGateway, http.StatusOK},
			expectedStatus:   http.StatusBadGateway,
			expectedAttempts: 1,
		},
		{
			name:             "client errors are not retried",
			statuses:         []int{http.StatusUnauthorized, http.StatusOK},
			maxAttempts:      3,
			expectedStatus:   http.StatusUnauthorized,
			expectedAttempts: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var attempts atomic.Int32
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				n := int(attempts.Add(1))
				status := tt.statuses[len(tt.statuses)-1]
				if n <= len(tt.statuses) {
					status = tt.statuses[n-1]
				}
				w.WriteHeader(status)
			}))
			defer ts.Close()

			client := NewClient(ts.Client(), ts.URL, WithRetry(tt.maxAttempts, time.Millisecond))

			req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
			if err != nil {
				t.Fatalf("create request: %v", err)
			}

			resp, err := client.doRequestWithRetry(req)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.expectedStatus {
				t.Fatalf("status: got %d, want %d", resp.StatusCode, tt.expectedStatus)
			}
			if got := attempts.Load(); got != tt.expectedAttempts {
				t.Fatalf("attempts: got %d, want %d", got, tt.expectedAttempts)
			}
		})
	}
}

func TestClientDoRequestWithRetry_TransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	client := NewClient(&http.Client{Timeout: time.Second}, url, WithRetry(2, time.Millisecond))
	req, _ := http.NewRequest(http.MethodGet, url, nil)

	if _, err := client.doRequestWithRetry(req); err == nil {
		t.Fatalf("expected an error from a closed server")
	}
}

func TestClientDoRequestWithRetry_Canceled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(ts.Client(), ts.URL, WithRetry(3, time.Millisecond))
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL, nil)

	_, err := client.doRequestWithRetry(req)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestParseRetryAfter(t *testing.T) {
	tests := []struct {
		header string
		want   time.Duration
	}{
		{"", 0},
		{"2", 2 * time.Second},
		{"-1", 0},
		{"3600", maxRetryAfter},
		{"garbage", 0},
	}
	for _, tc := range tests {
		resp := &http.Response{Header: http.Header{}}
		if tc.header != "" {
			resp.Header.Set("Retry-After", tc.header)
		}
		if got := parseRetryAfter(resp); got != tc.want {
			t.Errorf("Retry-After %q: got %v, want %v", tc.header, got, tc.want)
		}
	}
}
