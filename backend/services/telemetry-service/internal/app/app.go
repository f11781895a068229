package app

import (
	"context"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	libdb "water360/backend/libs/db"
	"water360/backend/libs/httpx"
	"water360/backend/libs/metrics"
	"water360/backend/services/telemetry-service/internal/config"
	httpserver "water360/backend/services/telemetry-service/internal/http"
	"water360/backend/services/telemetry-service/internal/http/handlers"
	"water360/backend/services/telemetry-service/internal/repository"
	"water360/backend/services/telemetry-service/internal/service"
)

const migrationsTable = "telemetry_schema_migrations"

// App wires telemetry service dependencies.
type App struct {
	server *httpx.Server
	db     *sqlx.DB
	logger *zap.Logger
}

// New constructs application components.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	db, err := libdb.NewPostgresDB(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	if cfg.Database.Migrate {
		if err := libdb.Migrate(db, repository.Migrations, repository.MigrationsDir, migrationsTable, logger); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	readingRepo := repository.NewReadingRepository(db)
	readingService := service.NewReadingService(readingRepo, service.Options{
		Window:      cfg.Readings.Window,
		RecentLimit: cfg.Readings.RecentLimit,
	}, logger)

	routes := httpserver.Routes{
		Health: handlers.NewHealthHandler(func(ctx context.Context) error {
			return libdb.Healthy(ctx, db)
		}),
		Metrics:   metrics.Handler(),
		Dashboard: handlers.NewDashboardHandlers(readingService, logger),
		Readings:  handlers.NewReadingHandlers(readingService, logger),
	}

	router := httpserver.NewRouter(routes, logger)
	server := httpx.NewServer(cfg.HTTPAddress(), router, logger)

	return &App{
		server: server,
		db:     db,
		logger: logger,
	}, nil
}

// Run starts serving HTTP requests.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases resources.
func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
}
