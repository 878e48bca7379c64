package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/agrilink/messaging/internal/api"
	"github.com/agrilink/messaging/internal/catalog"
	"github.com/agrilink/messaging/internal/chat"
	"github.com/agrilink/messaging/internal/config"
	"github.com/agrilink/messaging/internal/geo"
	"github.com/agrilink/messaging/internal/store"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	var logger zerolog.Logger
	if cfg.IsDevelopment() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Logger()
	} else {
		logger = zerolog.New(os.Stdout).
			With().
			Timestamp().
			Logger()
	}

	// Load catalog
	src, err := catalog.Load(cfg.CatalogSeed)
	if err != nil {
		logger.Fatal().Err(err).Msg("catalog load failed")
	}
	if cfg.CatalogSeed != "" {
		logger.Info().Str("path", cfg.CatalogSeed).Msg("loaded catalog seed")
	}

	// Seed the in-memory store with the demo conversations
	st := store.New()
	if err := store.SeedDemo(st); err != nil {
		logger.Fatal().Err(err).Msg("seed failed")
	}

	// Simulated geolocation provider
	provider := geo.Simulated{
		Grant:    cfg.GeoMode != "deny",
		Latency:  cfg.GeoLatency,
		Position: geo.Position{Latitude: 12.9716, Longitude: 77.5946},
	}

	// Messaging core
	svc := chat.NewService(st, chat.NewRouter(src), provider, chat.Config{
		AssistantDelay:  cfg.ReplyDelay,
		PeerDelay:       cfg.PeerReplyDelay,
		LocationTimeout: cfg.LocationTimeout,
	}, logger)
	defer svc.Close()

	// Create router
	router := api.NewRouter(logger, svc, src, api.RouterConfig{
		RateLimitRPS:       cfg.RateLimitRPS,
		RateLimitWhitelist: cfg.RateLimitWhitelist,
	})

	// Create server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Msg("starting AgriLink messaging server")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server...")

	// Graceful shutdown with 30 second timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server stopped")
}
