package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sofiabenali/lunchwise-backend/api/controllers"
	"github.com/sofiabenali/lunchwise-backend/api/routes"
	"github.com/sofiabenali/lunchwise-backend/internal/catalog"
	"github.com/sofiabenali/lunchwise-backend/internal/checkout"
	"github.com/sofiabenali/lunchwise-backend/internal/errreport"
	"github.com/sofiabenali/lunchwise-backend/internal/i18n"
	"github.com/sofiabenali/lunchwise-backend/internal/onboarding"
	"github.com/sofiabenali/lunchwise-backend/internal/payments"
	"github.com/sofiabenali/lunchwise-backend/internal/session"
	"github.com/sofiabenali/lunchwise-backend/internal/tracking"
	"github.com/sofiabenali/lunchwise-backend/pkg/config"
	"github.com/sofiabenali/lunchwise-backend/pkg/db"
	"github.com/sofiabenali/lunchwise-backend/pkg/kv"
	"github.com/sofiabenali/lunchwise-backend/pkg/logger"
	"github.com/sofiabenali/lunchwise-backend/pkg/metrics"
	"github.com/sofiabenali/lunchwise-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "paywall-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "paywall-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := dbClient.AutoMigrate(); err != nil {
		logg.Error(context.Background(), "failed to migrate database", err)
		os.Exit(1)
	}

	readiness := map[string]controllers.Pinger{"db": dbClient}

	var kvStore kv.Store = kv.NewMemory()
	if cfg.KV.Backend == "redis" {
		redisClient, err := redis.New(context.Background(), cfg.Redis, cfg.KV.SessionTTL)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		kvStore = redisClient
		readiness["redis"] = redisClient
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	sinks := tracking.MultiSink{}
	for _, name := range cfg.Tracking.Sinks {
		switch name {
		case "log":
			sinks = append(sinks, tracking.NewLogSink(logg))
		case "prometheus":
			sinks = append(sinks, tracking.NewPromSink(checkoutMetrics))
		}
	}

	catalogSvc, err := catalog.NewService(cfg.Catalog, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}
	if err := catalogSvc.Refresh(context.Background()); err != nil {
		logg.Warn(context.Background(), "catalog refresh failed, serving bundled data")
	}

	sessionStore, err := session.NewStore(kvStore)
	if err != nil {
		logg.Error(context.Background(), "failed to create session store", err)
		os.Exit(1)
	}

	onboardingSvc, err := onboarding.NewService(sessionStore, onboarding.NewGormRecorder(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create onboarding service", err)
		os.Exit(1)
	}

	paymentsSvc, err := payments.NewService(payments.NewGormRecordStore(dbClient.DB()), cfg.Checkout, checkoutMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create payments service", err)
		os.Exit(1)
	}

	sessionRegistry, err := checkout.NewRegistry(checkout.Deps{
		Clock:    checkout.NewClock(),
		Config:   cfg.Checkout,
		Store:    sessionStore,
		Tracker:  sinks,
		Reporter: errreport.NewLogReporter(logg),
		Metrics:  checkoutMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout registry", err)
		os.Exit(1)
	}

	bundle, err := i18n.LoadBundle()
	if err != nil {
		logg.Error(context.Background(), "failed to load locale bundle", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting paywall api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			readiness,
			catalogSvc,
			onboardingSvc,
			paymentsSvc,
			sessionStore,
			sessionRegistry,
			bundle,
			promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "paywall api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
