package controllers

import (
	"net/http"

	"github.com/domeohq/doors-backend/api/responses"
	"github.com/domeohq/doors-backend/pkg/config"
	"github.com/domeohq/doors-backend/pkg/db"
	pkgerrors "github.com/domeohq/doors-backend/pkg/errors"
	"github.com/domeohq/doors-backend/pkg/logger"
	"github.com/domeohq/doors-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Domeo-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady probes the database and cache before reporting readiness.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Domeo-Env", cfg.App.Env)

		checks := map[string]string{"db": "ok", "redis": "ok"}
		failed := false

		if dbP == nil {
			checks["db"] = "not configured"
			failed = true
		} else if err := dbP.Ping(r.Context()); err != nil {
			checks["db"] = err.Error()
			failed = true
		}

		if redisP == nil {
			checks["redis"] = "not configured"
			failed = true
		} else if err := redisP.Ping(r.Context()); err != nil {
			checks["redis"] = err.Error()
			failed = true
		}

		if failed {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeDependency, "dependencies unavailable").WithDetails(checks))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
