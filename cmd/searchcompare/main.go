package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"

	"github.com/kailas-cloud/searchcompare/internal/config"
	"github.com/kailas-cloud/searchcompare/internal/db"
	dbRedis "github.com/kailas-cloud/searchcompare/internal/db/redis"
	logpkg "github.com/kailas-cloud/searchcompare/internal/logger"
	"github.com/kailas-cloud/searchcompare/internal/metrics"
	"github.com/kailas-cloud/searchcompare/internal/provider"
	chiTransport "github.com/kailas-cloud/searchcompare/internal/transport/chi"
	compareuc "github.com/kailas-cloud/searchcompare/internal/usecase/compare"
	healthuc "github.com/kailas-cloud/searchcompare/internal/usecase/health"
	"github.com/kailas-cloud/searchcompare/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting searchcompare server",
		zap.String("build", version.String()),
		zap.String("env", env),
		zap.String("addr", cfg.HTTP.Addr()),
		zap.Strings("providers", cfg.ProviderNames()),
		zap.Bool("cache", cfg.Cache.Enabled),
	)

	// Register metrics explicitly (no init())
	metrics.Register()

	ctx := context.Background()

	// Outbound calls share one client; tracing wraps its transport.
	httpClient := &http.Client{Timeout: time.Duration(cfg.HTTP.OutboundTimeoutSec) * time.Second}
	if cfg.Tracing.Enabled {
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{}, propagation.Baggage{},
		))
		httpClient.Transport = otelhttp.NewTransport(http.DefaultTransport)
	}

	// Optional query-embedding cache
	var cache db.Store
	if cfg.Cache.Enabled {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer store.Close()

		if err := store.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Cache not ready", zap.Error(err))
		}
		logger.Info("Connected to embedding cache", zap.Strings("addrs", cfg.Cache.Addrs))
		cache = store
	}

	deps := provider.Deps{
		HTTPClient:     httpClient,
		CacheTTL:       time.Duration(cfg.Cache.TTLSec) * time.Second,
		CacheKeyPrefix: cfg.Cache.KeyPrefix,
		Logger:         logger,
	}
	// Pass nil interface (not typed nil) when the cache is disabled.
	if cache != nil {
		deps.Cache = cache
	}

	set, err := provider.Build(ctx, cfg, deps)
	if err != nil {
		logger.Fatal("Failed to build providers", zap.Error(err))
	}
	defer func() {
		if err := set.Close(); err != nil {
			logger.Warn("Failed to close providers", zap.Error(err))
		}
	}()

	labels := make(map[string]string, len(set.Providers))
	for _, p := range set.Providers {
		labels[p.Name] = p.Label
		logger.Info("Provider ready",
			zap.String("name", p.Name),
			zap.String("label", p.Label),
			zap.Duration("timeout", p.Timeout),
		)
	}

	// Use case services
	compareSvc := compareuc.New(set.Providers, cfg.Search.QueryLimit())

	var pinger healthuc.CachePinger
	if cache != nil {
		pinger = cache
	}
	healthSvc := healthuc.New(pinger)
	for _, p := range set.Providers {
		if p.HasHealthCheck() {
			healthSvc.WithComponent(p.Name, p)
		}
	}

	server := chiTransport.NewServer(compareSvc, healthSvc, labels, logger)
	handler := chiTransport.NewRouter(server, chiTransport.RouterOptions{
		CORSOrigins: cfg.HTTP.CORSOrigins,
		Tracing:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
	})

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		ReadTimeout:       time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
