package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"go.uber.org/zap"

	"water360/backend/libs/httpx"
	"water360/backend/libs/identity"
	"water360/backend/libs/metrics"
	"water360/backend/services/api-gateway/internal/http/handlers"
)

// ServiceName labels logs and metrics.
const ServiceName = "api-gateway"

// RouterDeps collects handler dependencies.
type RouterDeps struct {
	AuthHandlers  *handlers.AuthHandlers
	DataHandlers  *handlers.DataHandlers
	HealthHandler http.HandlerFunc
	Metrics       http.Handler
	Verifier      *identity.Verifier
}

// Limits configures CORS and per-IP request limits.
type Limits struct {
	AllowedOrigins []string
	RatePerMinute  int
	LoginPerMinute int
}

// NewRouter wires HTTP routes with middleware.
func NewRouter(deps RouterDeps, limits Limits, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httpx.RequestLogger(logger))
	r.Use(httpx.Recoverer(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   limits.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader, "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(metrics.Middleware(ServiceName))

	r.Get("/health", deps.HealthHandler)
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		if limits.RatePerMinute > 0 {
			r.Use(httprate.LimitByIP(limits.RatePerMinute, time.Minute))
		}

		r.Post("/auth/signup", deps.AuthHandlers.Signup)
		if limits.LoginPerMinute > 0 {
			r.With(httprate.LimitByIP(limits.LoginPerMinute, time.Minute)).Post("/auth/login", deps.AuthHandlers.Login)
		} else {
			r.Post("/auth/login", deps.AuthHandlers.Login)
		}

		r.Group(func(r chi.Router) {
			r.Use(identity.Bearer(deps.Verifier))
			r.Get("/auth/me", deps.AuthHandlers.Me)
			r.Put("/auth/profile", deps.AuthHandlers.UpdateProfile)
			r.Post("/auth/logout", deps.AuthHandlers.Logout)
			r.Get("/auth/users", deps.AuthHandlers.Users)
			r.HandleFunc("/data/*", deps.DataHandlers.Proxy)
		})
	})

	return r
}
