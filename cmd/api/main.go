package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/carspace/carspace-backend/api/routes"
	"github.com/carspace/carspace-backend/internal/auth"
	"github.com/carspace/carspace-backend/internal/cars"
	"github.com/carspace/carspace-backend/internal/live"
	"github.com/carspace/carspace-backend/internal/requests"
	"github.com/carspace/carspace-backend/internal/users"
	"github.com/carspace/carspace-backend/pkg/auth/session"
	"github.com/carspace/carspace-backend/pkg/config"
	"github.com/carspace/carspace-backend/pkg/db"
	"github.com/carspace/carspace-backend/pkg/env"
	"github.com/carspace/carspace-backend/pkg/logger"
	"github.com/carspace/carspace-backend/pkg/metrics"
	"github.com/carspace/carspace-backend/pkg/migrate"
	"github.com/carspace/carspace-backend/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	notifier, err := live.NewNotifier(redisClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create feed notifier", err)
		os.Exit(1)
	}

	usersRepo := users.NewRepository(dbClient.DB())
	carsRepo := cars.NewRepository(dbClient.DB())
	requestsRepo := requests.NewRepository(dbClient.DB())

	carsService, err := cars.NewService(carsRepo, dbClient, notifier)
	if err != nil {
		logg.Error(context.Background(), "failed to create cars service", err)
		os.Exit(1)
	}

	requestsService, err := requests.NewService(requestsRepo, usersRepo, carsRepo, dbClient, notifier)
	if err != nil {
		logg.Error(context.Background(), "failed to create requests service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	signupService, err := auth.NewSignupService(auth.SignupServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create signup service", err)
		os.Exit(1)
	}

	hub, err := live.NewHub(logg, httpMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create live hub", err)
		os.Exit(1)
	}
	if err := hub.RegisterCollection(cars.Collection, func(ctx context.Context) (any, error) {
		return carsService.ListCars(ctx)
	}); err != nil {
		logg.Error(context.Background(), "failed to register cars feed", err)
		os.Exit(1)
	}
	if err := hub.RegisterCollection(requests.Collection, func(ctx context.Context) (any, error) {
		return requestsService.Snapshot(ctx)
	}); err != nil {
		logg.Error(context.Background(), "failed to register requests feed", err)
		os.Exit(1)
	}

	source, err := live.NewRedisSource(redisClient, cars.Collection, requests.Collection)
	if err != nil {
		logg.Error(context.Background(), "failed to create feed source", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := hub.Run(ctx, source); err != nil && ctx.Err() == nil {
			logg.Error(ctx, "live hub stopped unexpectedly", err)
		}
	}()

	addr := ":" + env.Get("PORT", cfg.App.Port)
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(logCtx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Params{
			Config:         cfg,
			Logger:         logg,
			DB:             dbClient,
			Redis:          redisClient,
			SessionManager: sessionManager,
			AuthService:    authService,
			SignupService:  signupService,
			CarsService:    carsService,
			RequestsSvc:    requestsService,
			Hub:            hub,
			HTTPMetrics:    httpMetrics,
			PromGatherer:   registry,
		}),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(context.Background(), "server shutdown", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(logCtx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}

	if err := multierr.Combine(redisClient.Close(), dbClient.Close()); err != nil {
		logg.Error(context.Background(), "error closing resources", err)
	}
	logg.Info(context.Background(), "api server stopped")
}
