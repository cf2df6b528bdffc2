package oauth_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"golang.org/x/oauth2"

	"github.com/ewilliams-labs/stalify/internal/adapters/oauth"
	"github.com/ewilliams-labs/stalify/internal/core/ports"
)

func newTokenServer(t *testing.T, handle func(form url.Values) (int, string)) *oauth.Client {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		status, body := handle(r.PostForm)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(ts.Close)

	return oauth.NewClient(oauth.Config{
		ClientID:     "id",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost:3000/callback",
		Endpoint: oauth2.Endpoint{
			AuthURL:   ts.URL + "/authorize",
			TokenURL:  ts.URL + "/api/token",
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}, ts.Client())
}

func TestAuthURL(t *testing.T) {
	client := oauth.NewClient(oauth.Config{ClientID: "id", RedirectURL: "http://localhost:3000/callback"}, nil)

	raw := client.AuthURL("state-123")
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse auth url: %v", err)
	}
	if u.Host != "accounts.spotify.com" {
		t.Fatalf("host: got %q", u.Host)
	}
	q := u.Query()
	if q.Get("state") != "state-123" || q.Get("client_id") != "id" || q.Get("response_type") != "code" {
		t.Fatalf("query: got %v", q)
	}
	if q.Get("redirect_uri") != "http://localhost:3000/callback" {
		t.Fatalf("redirect_uri: got %q", q.Get("redirect_uri"))
	}
	for _, scope := range []string{"user-top-read", "user-read-recently-played"} {
		if !strings.Contains(q.Get("scope"), scope) {
			t.Fatalf("scope %q missing from %q", scope, q.Get("scope"))
		}
	}
}

func TestExchange(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantErr   error
		wantToken string
	}{
		{
			name:      "successful exchange",
			status:    http.StatusOK,
			body:      `{"access_token": "at", "refresh_token": "rt", "token_type": "Bearer", "expires_in": 3600}`,
			wantToken: "at",
		},
		{
			name:    "expired code",
			status:  http.StatusBadRequest,
			body:    `{"error": "invalid_grant", "error_description": "Invalid authorization code"}`,
			wantErr: ports.ErrInvalidGrant,
		},
		{
			name:    "bad credentials",
			status:  http.StatusBadRequest,
			body:    `{"error": "invalid_client", "error_description": "Invalid client"}`,
			wantErr: ports.ErrInvalidClient,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var gotForm url.Values
			client := newTokenServer(t, func(form url.Values) (int, string) {
				gotForm = form
				return tc.status, tc.body
			})

			got, err := client.Exchange(context.Background(), "c0de")
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if gotForm.Get("grant_type") != "authorization_code" || gotForm.Get("code") != "c0de" {
				t.Fatalf("form: got %v", gotForm)
			}
			if got.AccessToken != tc.wantToken || got.RefreshToken != "rt" {
				t.Fatalf("tokens: got %+v", got)
			}
			if got.ExpiresIn < 3599 || got.ExpiresIn > 3600 {
				t.Fatalf("expires in: got %d", got.ExpiresIn)
			}
		})
	}
}

func TestRefresh(t *testing.T) {
	var gotForm url.Values
	client := newTokenServer(t, func(form url.Values) (int, string) {
		gotForm = form
		return http.StatusOK, `{"access_token": "new-at", "token_type": "Bearer", "expires_in": 3600}`
	})

	got, err := client.Refresh(context.Background(), "rt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotForm.Get("grant_type") != "refresh_token" || gotForm.Get("refresh_token") != "rt" {
		t.Fatalf("form: got %v", gotForm)
	}
	if got.AccessToken != "new-at" {
		t.Fatalf("access token: got %q", got.AccessToken)
	}
}

func TestRefresh_Revoked(t *testing.T) {
	client := newTokenServer(t, func(url.Values) (int, string) {
		return http.StatusBadRequest, `{"error": "invalid_grant", "error_description": "Refresh token revoked"}`
	})
	if _, err := client.Refresh(context.Background(), "rt"); !errors.Is(err, ports.ErrInvalidGrant) {
		t.Fatalf("expected ErrInvalidGrant, got %v", err)
	}
}
