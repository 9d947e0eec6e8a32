package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/zatekoja/doctordirectory/internal/adapters/cache"
	"github.com/zatekoja/doctordirectory/internal/adapters/events"
	"github.com/zatekoja/doctordirectory/internal/adapters/providers/scheduling"
	"github.com/zatekoja/doctordirectory/internal/adapters/source"
	"github.com/zatekoja/doctordirectory/internal/api/handlers"
	"github.com/zatekoja/doctordirectory/internal/api/middleware"
	"github.com/zatekoja/doctordirectory/internal/api/routes"
	"github.com/zatekoja/doctordirectory/internal/application/services"
	"github.com/zatekoja/doctordirectory/internal/domain/providers"
	"github.com/zatekoja/doctordirectory/internal/infrastructure/clients/redis"
	"github.com/zatekoja/doctordirectory/internal/infrastructure/observability"
	"github.com/zatekoja/doctordirectory/pkg/config"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		log.Error().Err(err).Msg("Server stopped with error")
		os.Exit(1)
	}
	log.Info().Msg("Server stopped")
}

// run serves until ctx is done or the server fails. Every resource it opens
// is released before it returns.
func run(ctx context.Context) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	observability.InitLogger(cfg.App.Name, cfg.App.Environment)

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}

	// Redis backs both the raw payload cache and the response cache. The
	// service runs without it when disabled or unreachable.
	var (
		cacheProvider providers.CacheProvider
		eventBus      providers.EventBus
	)
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.RedisAddr()).Msg("Redis unavailable, caching disabled")
		} else {
			defer redisClient.Close()
			cacheProvider = cache.NewRedisAdapter(redisClient, cfg.App.Name+":")
			bus := events.NewRedisEventBus(redisClient)
			defer bus.Close()
			eventBus = bus
			log.Info().Str("addr", cfg.Redis.RedisAddr()).Msg("Redis cache enabled")
		}
	}

	doctorSource := source.NewDoctorSource(cfg.Source, cacheProvider)
	directoryService := services.NewDirectoryService(doctorSource)
	appointmentService := services.NewAppointmentService(directoryService, scheduling.NewMockAdapter())

	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider, cfg.Cache.ResponseTTL)
	}

	// Instances sharing Redis follow each other's refreshes.
	if eventBus != nil {
		var invalidators []func()
		if cacheMiddleware != nil {
			invalidators = append(invalidators, cacheMiddleware.Invalidate)
		}
		syncService := services.NewDirectorySyncService(directoryService, eventBus, instanceID(), invalidators...)
		if err := syncService.Start(ctx); err != nil {
			log.Warn().Err(err).Msg("Directory sync disabled")
		}
	}

	router := routes.NewRouter(
		handlers.NewHealthHandler(directoryService, cfg.App.Version),
		handlers.NewDoctorHandler(directoryService),
		handlers.NewAppointmentHandler(appointmentService),
		cacheMiddleware,
		metrics,
		cfg.CORS.AllowedOrigins,
	)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.SetupRoutes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	// Warm the directory in the background; requests trigger a load
	// themselves if this has not finished.
	g.Go(func() error {
		if err := directoryService.Load(gctx); err != nil {
			log.Warn().Err(err).Msg("Initial doctor list load failed, will retry on demand")
			return nil
		}
		snap := directoryService.Snapshot()
		log.Info().Int("doctors", snap.Count).Int("specialties", snap.Specialties).Msg("Doctor list loaded")
		return nil
	})

	g.Go(func() error {
		log.Info().Str("addr", server.Addr).Str("env", cfg.App.Environment).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Server shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// instanceID names this process in directory sync events.
func instanceID() string {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	return host + "-" + uuid.New().String()[:8]
}
