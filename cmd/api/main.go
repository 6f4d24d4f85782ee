package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hal-directory/backend/internal/adapters/cache"
	"github.com/hal-directory/backend/internal/adapters/credentials"
	"github.com/hal-directory/backend/internal/api/handlers"
	"github.com/hal-directory/backend/internal/api/routes"
	"github.com/hal-directory/backend/internal/application/services"
	"github.com/hal-directory/backend/internal/domain/providers"
	"github.com/hal-directory/backend/internal/infrastructure/clients/redis"
	"github.com/hal-directory/backend/internal/infrastructure/observability"
	"github.com/hal-directory/backend/internal/infrastructure/storage"
	"github.com/hal-directory/backend/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if err := cfg.Auth.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid auth configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Log.Env, cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

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
			log.Info().Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	repos, err := storage.Open(ctx, cfg, true)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open store")
	}
	defer repos.Close()

	readiness := map[string]handlers.Pinger{}
	if repos.Postgres != nil {
		readiness["postgres"] = repos.Postgres
	}

	// Redis is optional; without it the contact limits are kept in process
	var cacheProvider providers.CacheProvider
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize Redis client, continuing without it")
		} else {
			defer redisClient.Close()
			cacheProvider = cache.NewRedisAdapter(redisClient)
			readiness["redis"] = redisClient
			log.Info().Str("addr", cfg.Redis.RedisAddr()).Msg("Redis client initialized")
		}
	}

	// Initialize services
	credentialProvider := credentials.NewProvider(cfg.Auth)
	aggregator := services.NewRatingAggregator(repos.Companies, repos.Reviews)
	authService := services.NewAuthService(repos.Users, credentialProvider)

	router := routes.NewRouter(routes.Handlers{
		Health:   handlers.NewHealthHandler(readiness),
		Company:  handlers.NewCompanyHandler(services.NewCompanyService(repos.Companies)),
		Category: handlers.NewCategoryHandler(services.NewCategoryService(repos.Companies)),
		Auth:     handlers.NewAuthHandler(authService),
		Review:   handlers.NewReviewHandler(services.NewReviewService(repos.Companies, repos.Reviews, aggregator, metrics)),
		Blog:     handlers.NewBlogHandler(services.NewBlogService(repos.Blog)),
		Contact:  handlers.NewContactHandler(services.NewContactService(repos.Contacts), cacheProvider),
	}, authService, cfg.CORS.AllowedOrigins, metrics)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Str("store", cfg.Store.Driver).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Server failed")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	log.Info().Msg("Server stopped")
}
