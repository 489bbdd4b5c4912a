package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/testlens-hq/testlens/internal/api"
	"github.com/testlens-hq/testlens/internal/config"
	"github.com/testlens-hq/testlens/internal/engine"
	"github.com/testlens-hq/testlens/internal/events"
	"github.com/testlens-hq/testlens/internal/session"
)

func main() {
	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	// Event publishing is best-effort: without NATS the API still
	// serves analysis, it just emits no lifecycle events.
	var publisher events.Publisher = events.Nop{}
	if client, err := events.NewClient(cfg.NATSURL); err != nil {
		log.Warn().Err(err).Str("url", cfg.NATSURL).Msg("NATS unavailable, lifecycle events disabled")
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := client.EnsureStream(ctx); err != nil {
			cancel()
			log.Fatal().Err(err).Msg("failed to ensure events stream")
		}
		cancel()
		publisher = events.NewEmitter(client)
	}
	defer publisher.Close()

	store := session.NewStore(session.Config{TTL: cfg.SessionTTL})
	defer store.Close()

	eng := engine.New(store, publisher, log.Logger)

	// Create server
	srv, err := api.NewServer(cfg, eng)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create server")
	}

	// Start server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      srv.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan bool)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info().Msg("server is shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(ctx); err != nil {
			log.Fatal().Err(err).Msg("could not gracefully shutdown the server")
		}
		close(done)
	}()

	log.Info().Int("port", cfg.Port).Msg("starting API server")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("could not listen on port")
	}

	<-done
	log.Info().Msg("server stopped")
}
