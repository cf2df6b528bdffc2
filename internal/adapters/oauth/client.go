// Package oauth implements the provider's authorization-code flow with
// golang.org/x/oauth2.
package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/spotify"

	"github.com/ewilliams-labs/stalify/internal/core/domain"
	"github.com/ewilliams-labs/stalify/internal/core/ports"
)

// Scopes requested at login: profile, top items, history and playlists.
var Scopes = []string{
	"user-read-private",
	"user-read-email",
	"user-top-read",
	"user-read-recently-played",
	"playlist-read-private",
	"playlist-read-collaborative",
}

// Config holds the registered app's credentials.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	// Endpoint overrides the provider's token/auth URLs; zero means Spotify.
	Endpoint oauth2.Endpoint
}

// Client exchanges authorization codes and refresh tokens.
type Client struct {
	cfg        *oauth2.Config
	httpClient *http.Client
	now        func() time.Time
}

var _ ports.TokenExchanger = (*Client)(nil)

// NewClient constructs a Client. httpClient bounds token requests; nil uses
// a 10 second timeout.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	endpoint := cfg.Endpoint
	if endpoint.TokenURL == "" {
		endpoint = spotify.Endpoint
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		cfg: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       Scopes,
			Endpoint:     endpoint,
		},
		httpClient: httpClient,
		now:        time.Now,
	}
}

// AuthURL returns the consent page URL carrying state.
func (c *Client) AuthURL(state string) string {
	return c.cfg.AuthCodeURL(state, oauth2.SetAuthURLParam("show_dialog", "true"))
}

// Exchange trades an authorization code for tokens.
func (c *Client) Exchange(ctx context.Context, code string) (domain.TokenSet, error) {
	tok, err := c.cfg.Exchange(c.withHTTPClient(ctx), code)
	if err != nil {
		return domain.TokenSet{}, fmt.Errorf("oauth adapter: exchange code: %w", classify(err))
	}
	return c.toTokenSet(tok), nil
}

// Refresh trades a refresh token for a new access token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (domain.TokenSet, error) {
	src := c.cfg.TokenSource(c.withHTTPClient(ctx), &oauth2.Token{RefreshToken: refreshToken})
	tok, err := src.Token()
	if err != nil {
		return domain.TokenSet{}, fmt.Errorf("oauth adapter: refresh token: %w", classify(err))
	}
	return c.toTokenSet(tok), nil
}

func (c *Client) withHTTPClient(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
}

func (c *Client) toTokenSet(tok *oauth2.Token) domain.TokenSet {
	expiresIn := int(tok.ExpiresIn)
	if expiresIn <= 0 && !tok.Expiry.IsZero() {
		expiresIn = int(tok.Expiry.Sub(c.now()).Round(time.Second).Seconds())
	}
	return domain.TokenSet{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresIn:    expiresIn,
	}
}

// classify maps token endpoint error codes onto port sentinels, keeping the
// original error in the chain.
func classify(err error) error {
	var re *oauth2.RetrieveError
	if !errors.As(err, &re) {
		return err
	}
	code := strings.ToLower(re.ErrorCode)
	switch {
	case code == "invalid_grant":
		return fmt.Errorf("%w: %w", ports.ErrInvalidGrant, err)
	case code == "invalid_client" || code == "unauthorized_client":
		return fmt.Errorf("%w: %w", ports.ErrInvalidClient, err)
	case code == "access_denied":
		return fmt.Errorf("%w: %w", ports.ErrAccessDenied, err)
	}
	return err
}
