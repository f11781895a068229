package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"water360/backend/libs/httpx"
	"water360/backend/libs/identity"
	"water360/backend/libs/metrics"
	"water360/backend/services/telemetry-service/internal/http/handlers"
)

// ServiceName labels logs and metrics.
const ServiceName = "telemetry-service"

// Routes defines HTTP endpoints.
type Routes struct {
	Health    http.HandlerFunc
	Metrics   http.Handler
	Dashboard *handlers.DashboardHandlers
	Readings  *handlers.ReadingHandlers
}

// NewRouter sets up HTTP routing. Everything under /data requires the identity
// headers set by the gateway; mutations additionally require the admin role.
func NewRouter(routes Routes, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httpx.RequestLogger(logger))
	r.Use(httpx.Recoverer(logger))
	r.Use(metrics.Middleware(ServiceName))

	if routes.Health != nil {
		r.Get("/health", routes.Health)
	}
	if routes.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", routes.Metrics)
	}

	r.Route("/data", func(r chi.Router) {
		r.Use(identity.FromHeaders())
		r.Use(middleware.Timeout(30 * time.Second))

		d := routes.Dashboard
		r.Get("/dashboard/stats", d.Stats)
		r.Get("/series", d.Series)
		r.Get("/series/compare", d.Compare)
		r.Get("/highest-values", d.HighestValues)
		r.Get("/warnings", d.Warnings)
		r.Get("/correlation", d.Correlation)
		r.Get("/insights", d.Insights)
		r.Get("/recent", d.Recent)
		r.Get("/last-24-hours", d.Last24Hours)
		r.Get("/locations", d.Locations)

		rd := routes.Readings
		r.Route("/readings", func(r chi.Router) {
			r.Get("/", rd.List)
			r.Post("/", rd.Create)
			r.Get("/{id}", rd.Get)
			r.With(identity.RequireRole(identity.RoleAdmin)).Put("/{id}", rd.Update)
			r.With(identity.RequireRole(identity.RoleAdmin)).Delete("/{id}", rd.Delete)
		})
	})

	return r
}
