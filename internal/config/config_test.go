package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoad_DefaultsAndEnv(t *testing.T) {
	t.Setenv("SPOTIFY_CLIENT_ID", "id")
	t.Setenv("SPOTIFY_CLIENT_SECRET", "secret")
	t.Setenv("JWT_SECRET", "jwt")
	t.Setenv("SPOTIFY_TIMEOUT", "3s")
	t.Setenv("PORT", "8081")

	v := viper.New()
	SetDefaults(v)
	cfg := Load(v)

	if cfg.Port != 8081 || cfg.Spotify.ClientID != "id" || cfg.JWTSecret != "jwt" {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if cfg.Spotify.Timeout != 3*time.Second {
		t.Fatalf("timeout: got %s", cfg.Spotify.Timeout)
	}
	if cfg.Spotify.MaxRetries != 1 || cfg.Spotify.RetryBackoff != 500*time.Millisecond {
		t.Fatalf("retry defaults: got %d %s", cfg.Spotify.MaxRetries, cfg.Spotify.RetryBackoff)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	cfg := Load(v)
	cfg.Spotify.ClientID, cfg.Spotify.ClientSecret, cfg.JWTSecret = "", "", ""
	cfg.Timezone = "Mars/Olympus_Mons"

	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{"SPOTIFY_CLIENT_ID", "SPOTIFY_CLIENT_SECRET", "JWT_SECRET", "TIMEZONE"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %s in %v", want, err)
		}
	}
}

func TestReadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stalify.yaml")
	if err := os.WriteFile(path, []byte("port: 9000\ntimezone: Europe/Stockholm\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	v := viper.New()
	SetDefaults(v)
	used, err := ReadConfigFile(v, path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if used != path {
		t.Fatalf("config used: got %q", used)
	}
	cfg := Load(v)
	if cfg.Port != 9000 || cfg.Timezone != "Europe/Stockholm" {
		t.Fatalf("file values not applied: %+v", cfg)
	}

	if _, err := ReadConfigFile(viper.New(), filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatalf("expected error for explicit missing file")
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("STALIFY_DOTENV_PROBE=loaded\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("STALIFY_DOTENV_PROBE") })

	if err := LoadDotEnv(path, filepath.Join(dir, "absent.env")); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := os.Getenv("STALIFY_DOTENV_PROBE"); got != "loaded" {
		t.Fatalf("got %q", got)
	}
}

func TestAllowedOrigins(t *testing.T) {
	cfg := Config{FrontendURL: "https://stats.example.com/"}
	got := cfg.AllowedOrigins()
	if len(got) != 3 || got[2] != "https://stats.example.com" {
		t.Fatalf("got %v", got)
	}
	if got := (Config{FrontendURL: "http://localhost:3000"}).AllowedOrigins(); len(got) != 2 {
		t.Fatalf("duplicate origin added: %v", got)
	}
}
