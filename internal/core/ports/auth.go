package ports

import (
	"context"
	"errors"
	"time"

	"github.com/ewilliams-labs/stalify/internal/core/domain"
)

var (
	// ErrInvalidState is returned when an OAuth state value is unknown or expired.
	ErrInvalidState = errors.New("invalid or expired oauth state")
	// ErrInvalidSession is returned when a session token fails verification.
	ErrInvalidSession = errors.New("invalid session token")
	// ErrInvalidGrant is returned when the provider rejects an authorization
	// code or refresh token as expired, revoked or already used.
	ErrInvalidGrant = errors.New("invalid_grant")
	// ErrInvalidClient is returned when the provider rejects the app's credentials.
	ErrInvalidClient = errors.New("invalid_client")
	// ErrAccessDenied is returned when the listener declined consent.
	ErrAccessDenied = errors.New("access_denied")
)

// TokenExchanger performs the OAuth authorization-code flow against the provider.
type TokenExchanger interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (domain.TokenSet, error)
	Refresh(ctx context.Context, refreshToken string) (domain.TokenSet, error)
}

// StateStore remembers issued OAuth state values until they are consumed.
type StateStore interface {
	// Put stores state until expiresAt, dropping entries already expired at now.
	Put(ctx context.Context, state string, expiresAt, now time.Time) error
	// Consume deletes state and reports ErrInvalidState if it was unknown or expired.
	Consume(ctx context.Context, state string, now time.Time) error
}

// SessionClaims identify the listener behind a session token.
type SessionClaims struct {
	UserID      string    `json:"userId"`
	Email       string    `json:"email,omitempty"`
	DisplayName string    `json:"displayName,omitempty"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// SessionIssuer signs and verifies the app's own session tokens.
type SessionIssuer interface {
	Issue(profile domain.UserProfile) (string, error)
	Verify(token string) (SessionClaims, error)
}
