package session

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ewilliams-labs/stalify/internal/core/domain"
	"github.com/ewilliams-labs/stalify/internal/core/ports"
)

func TestIssuer_RoundTrip(t *testing.T) {
	issuer, err := NewIssuer("s3cret", 0)
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}
	now := time.Date(2024, time.May, 1, 10, 0, 0, 0, time.UTC)
	issuer.now = func() time.Time { return now }

	token, err := issuer.Issue(domain.UserProfile{ID: "u1", Email: "l@example.com", DisplayName: "Listener"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	got, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	want := ports.SessionClaims{UserID: "u1", Email: "l@example.com", DisplayName: "Listener", ExpiresAt: now.Add(DefaultTTL)}
	if got.UserID != want.UserID || got.Email != want.Email || got.DisplayName != want.DisplayName || !got.ExpiresAt.Equal(want.ExpiresAt) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestIssuer_VerifyRejects(t *testing.T) {
	now := time.Date(2024, time.May, 1, 10, 0, 0, 0, time.UTC)
	issuer, _ := NewIssuer("s3cret", time.Hour)
	issuer.now = func() time.Time { return now }
	valid, _ := issuer.Issue(domain.UserProfile{ID: "u1"})

	other, _ := NewIssuer("different", time.Hour)
	other.now = issuer.now
	foreign, _ := other.Issue(domain.UserProfile{ID: "u1"})

	unsigned, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"userId": "u1", "iss": "stalify", "exp": now.Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name  string
		token string
		at    time.Time
	}{
		{name: "expired", token: valid, at: now.Add(2 * time.Hour)},
		{name: "wrong secret", token: foreign, at: now},
		{name: "alg none", token: unsigned, at: now},
		{name: "garbage", token: "not.a.jwt", at: now},
		{name: "tampered", token: valid[:strings.LastIndex(valid, ".")] + ".AAAA", at: now},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			issuer.now = func() time.Time { return tc.at }
			if _, err := issuer.Verify(tc.token); !errors.Is(err, ports.ErrInvalidSession) {
				t.Fatalf("expected ErrInvalidSession, got %v", err)
			}
		})
	}
}

func TestNewIssuer_RequiresSecret(t *testing.T) {
	if _, err := NewIssuer("", time.Hour); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}
