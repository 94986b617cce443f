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

	"github.com/lopeshyago/fusionbackapp/api/routes"
	"github.com/lopeshyago/fusionbackapp/internal/accounts"
	"github.com/lopeshyago/fusionbackapp/internal/auth"
	"github.com/lopeshyago/fusionbackapp/internal/invites"
	"github.com/lopeshyago/fusionbackapp/internal/records"
	"github.com/lopeshyago/fusionbackapp/pkg/auth/session"
	"github.com/lopeshyago/fusionbackapp/pkg/config"
	"github.com/lopeshyago/fusionbackapp/pkg/db"
	"github.com/lopeshyago/fusionbackapp/pkg/logger"
	"github.com/lopeshyago/fusionbackapp/pkg/metrics"
	"github.com/lopeshyago/fusionbackapp/pkg/migrate"
	"github.com/lopeshyago/fusionbackapp/pkg/redis"
	"github.com/lopeshyago/fusionbackapp/pkg/security"
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

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Console:     cfg.App.ConsoleLogs(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "api exited with error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, dbClient.Close())
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := migrate.AutoRun(ctx, cfg, logg, dbClient, metrics.NewMigrationMetrics(registry)); err != nil {
		return err
	}

	infra := routes.Infra{
		DB:       dbClient,
		Metrics:  metrics.NewHTTPMetrics(registry),
		Gatherer: registry,
	}

	var revoker auth.Revoker
	if cfg.Redis.Enabled() {
		var redisClient *redis.Client
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		defer func() {
			err = multierr.Append(err, redisClient.Close())
		}()

		var sessions *session.Manager
		sessions, err = session.NewManager(redisClient)
		if err != nil {
			return err
		}
		infra.Redis = redisClient
		infra.RateLimits = redisClient
		infra.Revocations = sessions
		revoker = sessions
	} else {
		logg.Warn(ctx, "redis not configured; logout revocation and auth rate limits disabled")
	}

	inviteService, err := invites.NewService(invites.ServiceParams{DB: dbClient, Config: cfg.Invite})
	if err != nil {
		return err
	}
	accountService, err := accounts.NewService(dbClient)
	if err != nil {
		return err
	}
	authService, err := auth.NewService(auth.ServiceParams{
		DB:        dbClient,
		Hasher:    security.NewHasher(cfg.Password),
		Invites:   inviteService,
		JWTConfig: cfg.JWT,
		Revoker:   revoker,
	})
	if err != nil {
		return err
	}

	// Migrations may have added columns since the last probe.
	metadata := records.NewMetadata(dbClient.DB())
	metadata.InvalidateAll()
	recordService, err := records.NewService(records.ServiceParams{
		DB:       dbClient,
		Metadata: metadata,
		Accounts: accountService,
		Invites:  inviteService,
	})
	if err != nil {
		return err
	}

	router := routes.NewRouter(cfg, logg, infra, routes.Services{
		Auth:     authService,
		Accounts: accountService,
		Invites:  inviteService,
		Records:  recordService,
	})

	server := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(logg.WithField(ctx, "port", cfg.App.Port), "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logg.Info(context.Background(), "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
