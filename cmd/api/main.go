package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/flickly-backend/api/routes"
	"github.com/angelmondragon/flickly-backend/internal/auth"
	"github.com/angelmondragon/flickly-backend/internal/genres"
	"github.com/angelmondragon/flickly-backend/internal/movies"
	"github.com/angelmondragon/flickly-backend/internal/users"
	"github.com/angelmondragon/flickly-backend/pkg/config"
	"github.com/angelmondragon/flickly-backend/pkg/db"
	"github.com/angelmondragon/flickly-backend/pkg/logger"
	"github.com/angelmondragon/flickly-backend/pkg/metrics"
	"github.com/angelmondragon/flickly-backend/pkg/migrate"
	"github.com/angelmondragon/flickly-backend/pkg/redis"
	"github.com/angelmondragon/flickly-backend/pkg/youtube"
)

const shutdownTimeout = 15 * time.Second

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

	logg = logger.New(logger.OptionsFromConfig("api", cfg.App))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(ctx, "redis not configured, rate limiting disabled")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	movieParams := movies.ServiceParams{
		Repo:    movies.NewRepository(dbClient.DB()),
		Metrics: metrics.NewTrailerMetrics(reg),
		Logger:  logg,
	}
	if yt, err := youtube.NewClient(cfg.YouTube.APIKey,
		youtube.WithBaseURL(cfg.YouTube.BaseURL),
		youtube.WithEndpoint(cfg.YouTube.Endpoint),
		youtube.WithTimeout(cfg.YouTube.Timeout),
	); err != nil {
		logg.Warn(logg.WithField(ctx, "reason", err.Error()), "youtube client disabled, trailer lookups will fail")
	} else {
		movieParams.Trailers = yt
	}

	movieService, err := movies.NewService(movieParams)
	if err != nil {
		logg.Error(ctx, "failed to create movie service", err)
		os.Exit(1)
	}

	genreService, err := genres.NewService(genres.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(ctx, "failed to create genre service", err)
		os.Exit(1)
	}

	userRepo := users.NewRepository(dbClient.DB())
	userService, err := users.NewService(users.ServiceParams{
		Repo:     userRepo,
		Movies:   movieService,
		Password: cfg.Password,
	})
	if err != nil {
		logg.Error(ctx, "failed to create user service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(ctx, "failed to create auth service", err)
		os.Exit(1)
	}

	addr := ":" + cfg.App.Port
	serverCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(serverCtx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, dbClient, redisClient, reg, authService, movieService, genreService, userService),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	exitCode := 0
	select {
	case err := <-serveErr:
		if err != nil {
			logg.Error(serverCtx, "api server stopped unexpectedly", err)
			exitCode = 1
		}
	case <-ctx.Done():
		logg.Info(serverCtx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	closeErr := server.Shutdown(shutdownCtx)
	closeErr = multierr.Append(closeErr, dbClient.Close())
	if redisClient != nil {
		closeErr = multierr.Append(closeErr, redisClient.Close())
	}
	if closeErr != nil {
		logg.Error(serverCtx, "error during shutdown", closeErr)
		exitCode = 1
	} else {
		logg.Info(serverCtx, "api server stopped")
	}

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
