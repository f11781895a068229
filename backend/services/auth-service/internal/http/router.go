package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"water360/backend/libs/httpx"
	"water360/backend/libs/identity"
	"water360/backend/libs/metrics"
	"water360/backend/services/auth-service/internal/http/handlers"
)

// ServiceName labels logs and metrics.
const ServiceName = "auth-service"

// Routes aggregates handlers for HTTP server.
type Routes struct {
	Health  http.HandlerFunc
	Metrics http.Handler
	Auth    *handlers.AuthHandlers
}

// NewRouter wires all HTTP routes.
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

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", routes.Auth.Signup)
		r.Post("/login", routes.Auth.Login)

		r.Group(func(r chi.Router) {
			r.Use(identity.FromHeaders())
			r.Get("/me", routes.Auth.Me)
			r.Put("/profile", routes.Auth.UpdateProfile)
			r.With(identity.RequireRole(identity.RoleAdmin)).Get("/users", routes.Auth.Users)
		})
	})

	return r
}
