package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/lopeshyago/fusionbackapp/api/responses"
	"github.com/lopeshyago/fusionbackapp/pkg/config"
	pkgerrors "github.com/lopeshyago/fusionbackapp/pkg/errors"
	"github.com/lopeshyago/fusionbackapp/pkg/logger"
)

const (
	envHeader    = "X-Fusion-Env"
	readyTimeout = 2 * time.Second
)

// Pinger is implemented by every dependency the readiness probe checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the store and, when configured, Redis. A nil cache is
// reported as disabled.
func HealthReady(cfg *config.Config, logg *logger.Logger, store Pinger, cache Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		if store == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeDependency, "database unavailable"))
			return
		}
		if err := store.Ping(ctx); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unavailable"))
			return
		}

		checks := map[string]string{"database": "ok", "redis": "disabled"}
		if cache != nil {
			if err := cache.Ping(ctx); err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable"))
				return
			}
			checks["redis"] = "ok"
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
