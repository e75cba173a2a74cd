package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/domeohq/doors-backend/api/controllers"
	"github.com/domeohq/doors-backend/api/middleware"
	"github.com/domeohq/doors-backend/internal/documents"
	"github.com/domeohq/doors-backend/internal/lifecycle"
	"github.com/domeohq/doors-backend/pkg/config"
	"github.com/domeohq/doors-backend/pkg/db"
	"github.com/domeohq/doors-backend/pkg/enums"
	"github.com/domeohq/doors-backend/pkg/logger"
	"github.com/domeohq/doors-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	gatherer prometheus.Gatherer,
	documentsService documents.Service,
	lifecycleService lifecycle.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	// Tokens carry the role as a free-form claim, so mutating routes only
	// admit the roles the transition matrix knows about. Per-type and
	// per-status checks stay in the lifecycle gate.
	writers := middleware.RequireRole(logg,
		enums.UserRoleAdmin,
		enums.UserRoleManager,
		enums.UserRoleComplectator,
		enums.UserRoleExecutor,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/documents", func(r chi.Router) {
			r.With(writers).Post("/", controllers.CreateDocument(documentsService, logg))
			r.Get("/{documentId}", controllers.GetDocument(documentsService, logg))
			r.Get("/{documentId}/related", controllers.GetRelatedDocuments(documentsService, logg))
			r.With(writers).Post("/{documentId}/status", controllers.UpdateDocumentStatus(lifecycleService, logg))
		})

		r.Get("/clients/{clientId}/documents", controllers.ListClientDocuments(documentsService, logg))
	})

	return r
}
