package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/vr-ski/TransactionManager/internal/config"
	"github.com/vr-ski/TransactionManager/internal/events"
	"github.com/vr-ski/TransactionManager/internal/handler"
	"github.com/vr-ski/TransactionManager/internal/middleware"
	"github.com/vr-ski/TransactionManager/internal/repository"
	"github.com/vr-ski/TransactionManager/internal/service"
	authpkg "github.com/vr-ski/TransactionManager/pkg/auth"
	"github.com/vr-ski/TransactionManager/pkg/db"
	"github.com/vr-ski/TransactionManager/pkg/helpers"
	"github.com/vr-ski/TransactionManager/pkg/logger"
	"github.com/vr-ski/TransactionManager/pkg/metrics"
)

func main() {
	config.LoadEnvFiles()
	cfg := config.Load()

	log := logger.NewLogger(cfg.ServiceName, cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("Invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn, err := db.NewConnection(ctx, cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer conn.Close()
	log.Info("Successfully connected to database")

	// Schema drift is reported but does not stop the server
	guardCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := db.NewSchemaGuard(conn.DB).ValidateTables(guardCtx, db.ExpectedSchema()); err != nil {
		log.WithError(err).Warn("Database schema does not match expectations")
	}
	cancel()

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.WithError(err).Fatal("Failed to parse Redis URL")
		}
		redisClient = redis.NewClient(opts)
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.WithError(err).Warn("Redis is not reachable, catalog cache will miss until it recovers")
		} else {
			log.Info("Successfully connected to Redis")
		}
		cancel()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewMetrics(cfg.ServiceName, registry)
	go m.CollectDBPoolStats(ctx, conn.DB, 15*time.Second)

	publisher, err := events.NewPublisher(cfg, redisClient)
	if err != nil {
		log.WithError(err).Fatal("Failed to create event publisher")
	}
	publisher = events.WithMetrics(publisher, m)
	defer publisher.Close()
	log.WithField("broker", cfg.EventBroker).Info("Event publisher ready")

	store := repository.NewStore(conn.DB)

	var catalogCache repository.CatalogCache
	if redisClient != nil {
		catalogCache = repository.NewCacheRepository(redisClient, cfg.CatalogCacheTTL)
	}

	tokens := authpkg.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL())

	authService := service.NewAuthService(store.Users(), tokens)
	userService := service.NewUserService(store.Users())
	contractorService := service.NewContractorService(store)
	catalogService := service.NewCatalogService(store, catalogCache, log)
	transactionService := service.NewTransactionService(store, publisher, log)
	presenter := service.NewPresenter(store)

	validator := helpers.NewCustomValidator()

	healthChecks := []handler.HealthCheck{
		{Name: "mysql", Critical: true, Check: conn.Ping},
	}
	if redisClient != nil {
		healthChecks = append(healthChecks, handler.HealthCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		})
	}

	throttle := middleware.NewThrottle(cfg.ThrottleMaxRequests, cfg.ThrottlePeriod)
	go throttle.Run(ctx, cfg.ThrottlePeriod)

	router := handler.NewRouter(handler.RouterDeps{
		Auth:        handler.NewAuthHandler(authService, userService, validator, log),
		Contractors: handler.NewContractorHandler(contractorService, presenter, validator, log),
		Catalog:     handler.NewCatalogHandler(catalogService, log),
		Transaction: handler.NewTransactionHandler(transactionService, presenter, validator, log),
		Health:      handler.NewHealthHandler(healthChecks...),
		Tokens:      tokens,
		Throttle:    throttle,
		Metrics:     m,
		Gatherer:    registry,
		Log:         log,
	})

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		log.WithField("port", cfg.HTTPPort).Info("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("HTTP server failed")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed")
		os.Exit(1)
	}
	log.Info("Server stopped")
}
