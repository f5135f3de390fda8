// Command anuconvd serves Anu <-> Unicode conversion over HTTP.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/kumarlokesh/anu-converter/internal/api"
	"github.com/kumarlokesh/anu-converter/internal/config"
	"github.com/kumarlokesh/anu-converter/internal/storage"
	"github.com/kumarlokesh/anu-converter/internal/tables"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	if *configPath == "" {
		if found, err := config.GetConfigPath(); err == nil {
			*configPath = found
		} else {
			log.Warn().Err(err).Msg("Using default configuration")
		}
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	logger := cfg.Log.NewLogger(os.Stderr)

	store, err := newStore(cfg.Storage, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize storage")
	}
	if err := store.Ping(context.Background()); err != nil {
		logger.Fatal().Err(err).Msg("Storage ping failed")
	}

	registry := tables.NewRegistry(store, logger)
	if cfg.Tables.Preload {
		loaded, err := registry.Preload(context.Background())
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to preload tables")
		}
		for _, t := range loaded {
			if t.Degraded {
				logger.Warn().Stringer("selection", t.Selection).Msg("Table has no usable rules; conversions will return input unchanged")
			}
		}
	}

	server := api.NewServer(cfg.Server.Addr(), registry, store, logger, api.WithMaxBodyBytes(cfg.Server.MaxBodyBytes))

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Server.Addr()).Msg("Starting anu converter server")
		serverErrors <- server.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil {
			logger.Fatal().Err(err).Msg("Server error")
		}
		return
	case sig := <-stop:
		logger.Info().Stringer("signal", sig).Msg("Received signal, shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Error during server shutdown")
	} else {
		logger.Info().Msg("Server gracefully stopped")
	}
}

func newStore(cfg config.StorageConfig, logger zerolog.Logger) (storage.Store, error) {
	switch cfg.Type {
	case config.StorageFilesystem:
		logger.Info().Str("dir", cfg.Dir).Msg("Using filesystem storage")
		return storage.NewFilesystemStore(cfg.Dir)
	default:
		logger.Info().Msg("Using in-memory storage; upload tables with PUT /tables/{version}/{direction}")
		return storage.NewMemoryStore(), nil
	}
}
