package rest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestBearerToken(t *testing.T) {
	tests := map[string]struct {
		token string
		ok    bool
	}{
		"Bearer abc":   {"abc", true},
		"bearer abc":   {"abc", true},
		"Bearer  abc ": {"abc", true},
		"Bearer":       {"", false},
		"Bearer ":      {"", false},
		"Basic abc":    {"", false},
		"":             {"", false},
	}
	for header, want := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		token, ok := bearerToken(req)
		if token != want.token || ok != want.ok {
			t.Errorf("%q: got (%q, %v), want (%q, %v)", header, token, ok, want.token, want.ok)
		}
	}
}

func TestWrap(t *testing.T) {
	var seenID string
	inner := http.NewServeMux()
	inner.HandleFunc("GET /ok", func(w http.ResponseWriter, r *http.Request) {
		seenID = RequestID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	inner.HandleFunc("GET /panic", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	var access bytes.Buffer
	h := Wrap(inner, []string{"http://localhost:3000"}, &access, nil)

	t.Run("cors and request id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ok", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
			t.Fatalf("allow origin: got %q", got)
		}
		if id := rec.Header().Get(requestIDHeader); id == "" || id != seenID {
			t.Fatalf("request id header %q, handler saw %q", id, seenID)
		}
		if !strings.Contains(access.String(), "GET /ok") {
			t.Fatalf("access log missing request: %q", access.String())
		}
	})

	t.Run("foreign origin gets no cors headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ok", nil)
		req.Header.Set("Origin", "https://evil.example")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Fatalf("unexpected allow origin %q", got)
		}
	})

	t.Run("incoming request id is kept", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ok", nil)
		req.Header.Set(requestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if seenID != "abc-123" {
			t.Fatalf("got %q", seenID)
		}
	})

	t.Run("panics become 500", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		var body errorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode %q: %v", rec.Body.String(), err)
		}
		if body.Error != "Internal server error" || body.Message == "" {
			t.Fatalf("unexpected body %+v", body)
		}
		if rec.Header().Get(requestIDHeader) == "" {
			t.Fatalf("expected a request id on the failed response")
		}
	})
}
