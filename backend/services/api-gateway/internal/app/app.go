package app

import (
	"context"

	"go.uber.org/zap"

	"water360/backend/libs/httpx"
	"water360/backend/libs/identity"
	"water360/backend/libs/metrics"
	"water360/backend/services/api-gateway/internal/clients"
	"water360/backend/services/api-gateway/internal/config"
	httpserver "water360/backend/services/api-gateway/internal/http"
	"water360/backend/services/api-gateway/internal/http/handlers"
)

// App wires API gateway dependencies.
type App struct {
	server *httpx.Server
	logger *zap.Logger
}

// New constructs application graph.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	httpClient := clients.NewDefaultHTTPClient(cfg.HTTPTimeout())
	breaker := clients.BreakerSettings{
		Failures: cfg.Breaker.Failures,
		Timeout:  cfg.Breaker.Timeout,
	}

	authClient := clients.NewAuthClient(clients.NewBaseClient("auth-service", cfg.Services.AuthURL, httpClient, breaker, logger))
	telemetryClient := clients.NewTelemetryClient(clients.NewBaseClient("telemetry-service", cfg.Services.TelemetryURL, httpClient, breaker, logger))

	router := httpserver.NewRouter(httpserver.RouterDeps{
		AuthHandlers:  handlers.NewAuthHandlers(authClient, logger),
		DataHandlers:  handlers.NewDataHandlers(telemetryClient, logger),
		HealthHandler: handlers.NewHealthHandler(),
		Metrics:       metrics.Handler(),
		Verifier:      identity.NewVerifier(cfg.JWT.Secret, cfg.JWT.Issuer),
	}, httpserver.Limits{
		AllowedOrigins: cfg.HTTP.CORSOrigins,
		RatePerMinute:  cfg.HTTP.RateLimit,
		LoginPerMinute: cfg.HTTP.LoginRateLimit,
	}, logger)

	return &App{
		server: httpx.NewServer(cfg.HTTPAddress(), router, logger),
		logger: logger,
	}, nil
}

// Run starts serving HTTP traffic.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases resources (none yet).
func (a *App) Close() {}
