package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/angelmondragon/flickly-backend/api/responses"
	pkgerrors "github.com/angelmondragon/flickly-backend/pkg/errors"
	"github.com/angelmondragon/flickly-backend/pkg/logger"
)

const readinessTimeout = 2 * time.Second

// Pinger is any dependency the readiness probe can check.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(env string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Flickly-Env", env)
		responses.WriteSuccess(w, "ok", map[string]string{"status": "live"})
	}
}

// HealthReady pings every named dependency. Nil pingers are skipped so an
// optional Redis does not fail readiness.
func HealthReady(env string, deps map[string]Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Flickly-Env", env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{}
		var failed *pkgerrors.Error
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				checks[name] = "down"
				if failed == nil {
					failed = pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable")
				}
				continue
			}
			checks[name] = "up"
		}

		if failed != nil {
			responses.WriteError(r.Context(), logg, w, failed.WithDetails(checks))
			return
		}

		responses.WriteSuccess(w, "ok", map[string]any{"status": "ready", "checks": checks})
	}
}
