package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"leadscout/worker/config"
	"leadscout/worker/internal/extractor"
	"leadscout/worker/internal/leads"
	"leadscout/worker/internal/server"
	"leadscout/worker/logger"
	"leadscout/worker/services/cache"
	"leadscout/worker/services/metrics"
	"leadscout/worker/services/publisher"

	"github.com/joho/godotenv"
)

const (
	shutdownTimeout    = 10 * time.Second
	streamTrimInterval = 5 * time.Minute
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("port", cfg.Port).
		Str("cache_backend", cfg.CacheBackend).
		Bool("events_enabled", cfg.EventsEnabled).
		Msg("Starting application")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Initialize services
	services := initializeServices(ctx, &cfg)
	defer services.Cleanup()

	metricsSvc := metrics.NewService()
	pipeline := extractor.NewPipeline(cfg, services.Cache, metricsSvc)
	registry := leads.NewRegistry(cfg.DataDir)

	srv := server.New(cfg, pipeline, registry, metricsSvc, services.Publisher)

	serverDone := make(chan error, 1)
	go func() {
		serverDone <- srv.Start()
	}()

	// Wait for shutdown signal or server error
	select {
	case sig := <-sigChan:
		log.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
	case err := <-serverDone:
		if err != nil {
			log.Error().Err(err).Msg("HTTP server exited with error")
		}
	}

	// Graceful shutdown
	log.Info().Msg("Shutting down gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Shutdown did not complete cleanly")
	}
}

// Services holds all the initialized services
type Services struct {
	Cache     cache.CacheService
	Publisher publisher.Publisher
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	if s.Publisher != nil {
		s.Publisher.Close()
	}
}

// initializeServices initializes all required services
func initializeServices(ctx context.Context, cfg *config.Config) *Services {
	services := &Services{}

	switch cfg.CacheBackend {
	case config.CacheBackendMemcache:
		services.Cache = cache.NewMemcacheService(cfg.MemcacheAddr)
		logger.Info("Connected to Memcache at %s", cfg.MemcacheAddr)
	default:
		services.Cache = cache.NewMemoryService()
		logger.Info("Using in-memory extraction cache")
	}

	if cfg.EventsEnabled {
		services.Publisher = publisher.NewRedisPublisher(
			ctx,
			cfg.RedisAddr,
			cfg.RedisDB,
			cfg.RedisStream,
			cfg.RedisStreamCount,
			cfg.RedisStreamMaxLength,
		)
		logger.Info("Connected to Redis at %s (DB: %d, Stream: %s)",
			cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)
		publisher.StartTrimLoop(ctx, services.Publisher, streamTrimInterval)
	} else {
		services.Publisher = publisher.NopPublisher{}
	}

	return services
}
