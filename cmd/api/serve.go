package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ewilliams-labs/stalify/internal/adapters/oauth"
	"github.com/ewilliams-labs/stalify/internal/adapters/rest"
	"github.com/ewilliams-labs/stalify/internal/adapters/session"
	"github.com/ewilliams-labs/stalify/internal/adapters/spotify"
	"github.com/ewilliams-labs/stalify/internal/adapters/sqlite"
	"github.com/ewilliams-labs/stalify/internal/config"
	"github.com/ewilliams-labs/stalify/internal/core/analytics"
	"github.com/ewilliams-labs/stalify/internal/core/services"
	"github.com/ewilliams-labs/stalify/internal/observability"
)

const shutdownTimeout = 10 * time.Second

func (a *app) newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}

	flags := cmd.Flags()
	flags.Int("port", 5000, "HTTP listen port")
	flags.String("storage", "stalify.db", "SQLite file holding pending OAuth states")
	flags.String("frontend-url", "http://localhost:3000", "dashboard origin allowed by CORS")
	a.bind(flags, map[string]string{
		"port":         config.KeyPort,
		"storage":      config.KeyStoragePath,
		"frontend-url": config.KeyFrontendURL,
	})
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	cfg := config.Load(a.v)
	if err := cfg.Validate(); err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	logger, err := observability.NewLogger(cfg.LogLevel, cfg.Env)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	metrics := observability.NewMetrics()

	// 1. Driven adapters
	store, err := sqlite.NewAdapter(cfg.StoragePath)
	if err != nil {
		return fmt.Errorf("open state store: %w", err)
	}
	defer store.Close()
	metrics.PendingStates(store.Pending)

	spotifyClient := newSpotifyClient(cfg, logger, metrics)
	oauthClient := oauth.NewClient(oauth.Config{
		ClientID:     cfg.Spotify.ClientID,
		ClientSecret: cfg.Spotify.ClientSecret,
		RedirectURL:  cfg.Spotify.RedirectURI,
	}, &http.Client{Timeout: cfg.Spotify.Timeout})

	sessions, err := session.NewIssuer(cfg.JWTSecret, session.DefaultTTL)
	if err != nil {
		return err
	}

	// 2. Core services
	placeholder := metrics.CountingPlaceholder(analytics.RandomPlaceholder{})
	insights := services.NewInsights(spotifyClient, placeholder, loc, logger)
	stats := services.NewStats(spotifyClient)
	auth := services.NewAuth(oauthClient, store, sessions, spotifyClient, logger)

	// 3. Driving adapter
	handler := rest.NewHandler(insights, stats, auth, metrics, logger)
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           rest.Wrap(handler, cfg.AllowedOrigins(), os.Stdout, logger),
		ReadHeaderTimeout: 15 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	logger.Info("stalify api listening",
		zap.Int("port", cfg.Port),
		zap.String("env", cfg.Env),
		zap.String("timezone", loc.String()),
		zap.Int("spotify_max_retries", cfg.Spotify.MaxRetries),
	)

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

// newSpotifyClient builds the Web API client from cfg. metrics may be nil.
func newSpotifyClient(cfg config.Config, logger *zap.Logger, metrics *observability.Metrics) *spotify.Client {
	return spotify.NewClient(
		&http.Client{Timeout: cfg.Spotify.Timeout},
		cfg.Spotify.APIBaseURL,
		spotify.WithRetry(cfg.Spotify.MaxRetries, cfg.Spotify.RetryBackoff),
		spotify.WithRateLimit(cfg.Spotify.RateLimit, int(cfg.Spotify.RateLimit)),
		spotify.WithLogger(logger),
		spotify.WithObserver(metrics.SpotifyRequest),
	)
}
