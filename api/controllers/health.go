package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/sofiabenali/lunchwise-backend/api/responses"
	"github.com/sofiabenali/lunchwise-backend/pkg/config"
	pkgerrors "github.com/sofiabenali/lunchwise-backend/pkg/errors"
	"github.com/sofiabenali/lunchwise-backend/pkg/logger"
)

const envHeader = "X-LunchWise-Env"

// Pinger is the health surface a readiness dependency exposes.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every wired dependency. Nil pingers (an optional
// backend that is not configured) are skipped.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status := map[string]string{}
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				status[name] = "down"
				err = pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable").WithDetails(status)
				responses.WriteError(ctx, logg, w, err)
				return
			}
			status[name] = "up"
		}

		status["status"] = "ready"
		responses.WriteSuccess(w, status)
	}
}
