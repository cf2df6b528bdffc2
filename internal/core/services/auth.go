package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ewilliams-labs/stalify/internal/core/domain"
	"github.com/ewilliams-labs/stalify/internal/core/ports"
)

// StateTTL bounds how long a login attempt may take before its state expires.
const StateTTL = 10 * time.Minute

// LoginResult is what the client needs to start the provider's consent flow.
type LoginResult struct {
	AuthURL string `json:"authUrl"`
	State   string `json:"state"`
}

// AuthResult is returned after a successful code exchange.
type AuthResult struct {
	AccessToken  string             `json:"accessToken"`
	RefreshToken string             `json:"refreshToken"`
	ExpiresIn    int                `json:"expiresIn"`
	SessionToken string             `json:"jwtToken"`
	User         domain.UserProfile `json:"user"`
}

// Auth runs the OAuth authorization-code flow and issues app sessions.
type Auth struct {
	exchanger ports.TokenExchanger
	states    ports.StateStore
	sessions  ports.SessionIssuer
	spotify   ports.SpotifyProvider
	logger    *zap.Logger
	now       func() time.Time
}

// NewAuth constructs an Auth service.
func NewAuth(exchanger ports.TokenExchanger, states ports.StateStore, sessions ports.SessionIssuer, spotify ports.SpotifyProvider, logger *zap.Logger) *Auth {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Auth{
		exchanger: exchanger,
		states:    states,
		sessions:  sessions,
		spotify:   spotify,
		logger:    logger,
		now:       time.Now,
	}
}

// Login issues a fresh state value and the consent URL carrying it.
func (s *Auth) Login(ctx context.Context) (LoginResult, error) {
	state := uuid.NewString()
	now := s.now()
	if err := s.states.Put(ctx, state, now.Add(StateTTL), now); err != nil {
		return LoginResult{}, fmt.Errorf("service: store oauth state: %w", err)
	}
	return LoginResult{AuthURL: s.exchanger.AuthURL(state), State: state}, nil
}

// Callback completes the flow: it consumes state, exchanges code for tokens,
// loads the profile and signs a session token.
func (s *Auth) Callback(ctx context.Context, code, state string) (AuthResult, error) {
	if code == "" {
		return AuthResult{}, fmt.Errorf("%w: authorization code is required", ErrInvalidArgument)
	}
	if state == "" {
		return AuthResult{}, fmt.Errorf("%w: state is required", ErrInvalidArgument)
	}

	if err := s.states.Consume(ctx, state, s.now()); err != nil {
		return AuthResult{}, fmt.Errorf("service: consume oauth state: %w", err)
	}

	tokens, err := s.exchanger.Exchange(ctx, code)
	if err != nil {
		return AuthResult{}, fmt.Errorf("service: exchange code: %w", err)
	}

	profile, err := s.spotify.Profile(ctx, tokens.AccessToken)
	if err != nil {
		return AuthResult{}, fmt.Errorf("service: fetch profile: %w", err)
	}

	session, err := s.sessions.Issue(profile)
	if err != nil {
		return AuthResult{}, fmt.Errorf("service: issue session: %w", err)
	}

	s.logger.Info("listener signed in", zap.String("user_id", profile.ID))

	return AuthResult{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresIn:    tokens.ExpiresIn,
		SessionToken: session,
		User:         profile,
	}, nil
}

// Refresh trades a refresh token for a new access token. When the provider
// does not rotate the refresh token, the old one is echoed back.
func (s *Auth) Refresh(ctx context.Context, refreshToken string) (domain.TokenSet, error) {
	if refreshToken == "" {
		return domain.TokenSet{}, fmt.Errorf("%w: refresh token is required", ErrInvalidArgument)
	}
	tokens, err := s.exchanger.Refresh(ctx, refreshToken)
	if err != nil {
		return domain.TokenSet{}, fmt.Errorf("service: refresh token: %w", err)
	}
	if tokens.RefreshToken == "" {
		tokens.RefreshToken = refreshToken
	}
	return tokens, nil
}

// Profile returns the listener behind an access token.
func (s *Auth) Profile(ctx context.Context, token string) (domain.UserProfile, error) {
	profile, err := s.spotify.Profile(ctx, token)
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("service: fetch profile: %w", err)
	}
	return profile, nil
}

// Session verifies an app session token.
func (s *Auth) Session(token string) (ports.SessionClaims, error) {
	if token == "" {
		return ports.SessionClaims{}, fmt.Errorf("service: %w", ports.ErrInvalidSession)
	}
	claims, err := s.sessions.Verify(token)
	if err != nil {
		return ports.SessionClaims{}, fmt.Errorf("service: verify session: %w", err)
	}
	return claims, nil
}
