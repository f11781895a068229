package app

import (
	"context"

	"github.com/jmoiron/sqlx"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	libdb "water360/backend/libs/db"
	"water360/backend/libs/httpx"
	"water360/backend/libs/identity"
	"water360/backend/libs/metrics"
	libredis "water360/backend/libs/redis"
	appconfig "water360/backend/services/auth-service/internal/config"
	httpserver "water360/backend/services/auth-service/internal/http"
	"water360/backend/services/auth-service/internal/http/handlers"
	"water360/backend/services/auth-service/internal/lockout"
	"water360/backend/services/auth-service/internal/password"
	"water360/backend/services/auth-service/internal/repository"
	"water360/backend/services/auth-service/internal/service"
)

const migrationsTable = "auth_schema_migrations"

// App wires dependencies for the auth service.
type App struct {
	server *httpx.Server
	db     *sqlx.DB
	redis  *goredis.Client
	logger *zap.Logger
}

// New builds application graph.
func New(cfg *appconfig.Config, logger *zap.Logger) (*App, error) {
	db, err := libdb.NewPostgresDB(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	a := &App{db: db, logger: logger}

	if cfg.Database.Migrate {
		if err := libdb.Migrate(db, repository.Migrations, repository.MigrationsDir, migrationsTable, logger); err != nil {
			a.Close()
			return nil, err
		}
	}

	checks := map[string]func(ctx context.Context) error{
		"postgres": func(ctx context.Context) error { return libdb.Healthy(ctx, db) },
	}

	var store lockout.Store
	if cfg.LockoutEnabled() {
		client, err := libredis.Connect(context.Background(), libredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
			Timeout:  cfg.Redis.Timeout,
		})
		if err != nil {
			a.Close()
			return nil, err
		}
		a.redis = client
		store = lockout.NewRedisStore(client)
		checks["redis"] = func(ctx context.Context) error { return libredis.Healthy(ctx, client, cfg.Redis.Timeout) }
	} else {
		logger.Warn("redis not configured, login lockout disabled")
	}

	guard := lockout.NewGuard(store, lockout.Config{
		MaxAttempts: cfg.Lockout.MaxAttempts,
		Duration:    cfg.Lockout.Duration,
		Window:      cfg.Lockout.Window,
	})
	issuer := identity.NewIssuer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWTExpiration())
	userRepo := repository.NewUserRepository(db)
	authSvc := service.NewAuthService(userRepo, password.NewBcryptHasher(0), issuer, guard, logger)

	routes := httpserver.Routes{
		Health:  handlers.NewHealthHandler(checks),
		Metrics: metrics.Handler(),
		Auth:    handlers.NewAuthHandlers(authSvc, logger),
	}

	router := httpserver.NewRouter(routes, logger)
	a.server = httpx.NewServer(cfg.HTTPAddress(), router, logger)
	return a, nil
}

// Run starts serving HTTP traffic until context cancellation.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases acquired resources.
func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
}
