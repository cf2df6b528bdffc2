// Package config loads runtime settings from .env, the environment, an
// optional YAML file and command-line flags, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Keys are lower-case; viper's AutomaticEnv maps them to the upper-case
// environment variables (spotify_client_id -> SPOTIFY_CLIENT_ID).
const (
	KeyPort                = "port"
	KeySpotifyClientID     = "spotify_client_id"
	KeySpotifyClientSecret = "spotify_client_secret"
	KeySpotifyRedirectURI  = "spotify_redirect_uri"
	KeySpotifyAPIBaseURL   = "spotify_api_base_url"
	KeySpotifyTimeout      = "spotify_timeout"
	KeySpotifyMaxRetries   = "spotify_max_retries"
	KeySpotifyBackoffMs    = "spotify_retry_backoff_ms"
	KeySpotifyRateLimit    = "spotify_rate_limit"
	KeyJWTSecret           = "jwt_secret"
	KeyFrontendURL         = "frontend_url"
	KeyStoragePath         = "storage_path"
	KeyTimezone            = "timezone"
	KeyLogLevel            = "log_level"
	KeyEnv                 = "env"
)

const configName = ".stalify"

// SpotifyConfig configures the upstream Web API and OAuth clients.
type SpotifyConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	APIBaseURL   string
	Timeout      time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
	RateLimit    float64
}

// Config is the fully resolved runtime configuration.
type Config struct {
	Port        int
	Spotify     SpotifyConfig
	JWTSecret   string
	FrontendURL string
	StoragePath string
	Timezone    string
	LogLevel    string
	Env         string
}

// SetDefaults registers default values and enables environment lookup.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyPort, 5000)
	v.SetDefault(KeySpotifyRedirectURI, "http://localhost:3000/callback")
	v.SetDefault(KeySpotifyAPIBaseURL, "https://api.spotify.com/v1")
	v.SetDefault(KeySpotifyTimeout, "10s")
	v.SetDefault(KeySpotifyMaxRetries, 1)
	v.SetDefault(KeySpotifyBackoffMs, 500)
	v.SetDefault(KeySpotifyRateLimit, 10.0)
	v.SetDefault(KeyFrontendURL, "http://localhost:3000")
	v.SetDefault(KeyStoragePath, "stalify.db")
	v.SetDefault(KeyTimezone, "UTC")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyEnv, "development")

	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

// LoadDotEnv loads variables from the given .env files (default ".env")
// without overriding the real environment. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("config: load %s: %w", p, err)
		}
	}
	return nil
}

// ReadConfigFile reads cfgFile, or $HOME/.stalify.yaml when cfgFile is empty.
// It returns the file used, or "" when none was found.
func ReadConfigFile(v *viper.Viper, cfgFile string) (string, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return "", fmt.Errorf("config: locate home directory: %w", err)
		}
		v.AddConfigPath(home)
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return "", nil
		}
		return "", fmt.Errorf("config: read config file: %w", err)
	}
	return v.ConfigFileUsed(), nil
}

// Load resolves a Config from v.
func Load(v *viper.Viper) Config {
	return Config{
		Port: v.GetInt(KeyPort),
		Spotify: SpotifyConfig{
			ClientID:     v.GetString(KeySpotifyClientID),
			ClientSecret: v.GetString(KeySpotifyClientSecret),
			RedirectURI:  v.GetString(KeySpotifyRedirectURI),
			APIBaseURL:   v.GetString(KeySpotifyAPIBaseURL),
			Timeout:      v.GetDuration(KeySpotifyTimeout),
			MaxRetries:   v.GetInt(KeySpotifyMaxRetries),
			RetryBackoff: time.Duration(v.GetInt(KeySpotifyBackoffMs)) * time.Millisecond,
			RateLimit:    v.GetFloat64(KeySpotifyRateLimit),
		},
		JWTSecret:   v.GetString(KeyJWTSecret),
		FrontendURL: v.GetString(KeyFrontendURL),
		StoragePath: v.GetString(KeyStoragePath),
		Timezone:    v.GetString(KeyTimezone),
		LogLevel:    v.GetString(KeyLogLevel),
		Env:         v.GetString(KeyEnv),
	}
}

// Validate reports every setting the API server cannot start without.
func (c Config) Validate() error {
	var errs []error
	if c.Spotify.ClientID == "" {
		errs = append(errs, errors.New("SPOTIFY_CLIENT_ID is required"))
	}
	if c.Spotify.ClientSecret == "" {
		errs = append(errs, errors.New("SPOTIFY_CLIENT_SECRET is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d is out of range", c.Port))
	}
	if c.Spotify.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("SPOTIFY_TIMEOUT must be positive, got %s", c.Spotify.Timeout))
	}
	if c.Spotify.MaxRetries < 1 {
		errs = append(errs, fmt.Errorf("SPOTIFY_MAX_RETRIES must be at least 1, got %d", c.Spotify.MaxRetries))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Location resolves the default timezone used to bucket listening history.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// AllowedOrigins lists the CORS origins: the configured frontend plus the
// local development servers.
func (c Config) AllowedOrigins() []string {
	origins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	if c.FrontendURL != "" && c.FrontendURL != origins[0] {
		origins = append(origins, strings.TrimRight(c.FrontendURL, "/"))
	}
	return origins
}
