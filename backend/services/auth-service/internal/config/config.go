package config

import (
	"errors"
	"strings"
	"time"

	libconfig "water360/backend/libs/config"
)

const defaultPort = "8081"

// Config represents service configuration loaded from YAML/env.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"AUTH_HTTP_PORT"`
	} `yaml:"http"`
	Database struct {
		DSN     string `yaml:"dsn" env:"AUTH_POSTGRES_DSN"`
		Migrate bool   `yaml:"migrate" env:"AUTH_MIGRATE"`
	} `yaml:"database"`
	JWT struct {
		Secret           string `yaml:"secret" env:"AUTH_JWT_SECRET"`
		Issuer           string `yaml:"issuer" env:"AUTH_JWT_ISSUER"`
		ExpiresInMinutes int    `yaml:"expiresInMinutes" env:"AUTH_JWT_EXPIRES_MINUTES"`
	} `yaml:"jwt"`
	Redis struct {
		Addr     string        `yaml:"addr" env:"AUTH_REDIS_ADDR"`
		Password string        `yaml:"password" env:"AUTH_REDIS_PASSWORD"`
		DB       int           `yaml:"db" env:"AUTH_REDIS_DB"`
		PoolSize int           `yaml:"poolSize" env:"AUTH_REDIS_POOL_SIZE"`
		Timeout  time.Duration `yaml:"timeout" env:"AUTH_REDIS_TIMEOUT"`
	} `yaml:"redis"`
	Lockout struct {
		MaxAttempts int           `yaml:"maxAttempts" env:"AUTH_LOCKOUT_MAX_ATTEMPTS"`
		Duration    time.Duration `yaml:"duration" env:"AUTH_LOCKOUT_DURATION"`
		Window      time.Duration `yaml:"window" env:"AUTH_LOCKOUT_WINDOW"`
	} `yaml:"lockout"`
}

// Load reads configuration using the shared config loader.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = defaultPort
	cfg.Database.Migrate = true
	cfg.JWT.Issuer = "water360"
	cfg.JWT.ExpiresInMinutes = 60
	cfg.Lockout.MaxAttempts = 5
	cfg.Lockout.Duration = 15 * time.Minute
	cfg.Lockout.Window = 15 * time.Minute

	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return nil, errors.New("config: database DSN is required")
	}
	if cfg.JWT.Secret == "" {
		return nil, errors.New("config: jwt secret is required")
	}
	if cfg.JWT.ExpiresInMinutes <= 0 {
		cfg.JWT.ExpiresInMinutes = 60
	}

	return cfg, nil
}

// HTTPAddress ensures we always return host:port formatted string.
func (c *Config) HTTPAddress() string {
	return libconfig.Address(c.HTTP.Port, defaultPort)
}

// JWTExpiration converts configured expiry to duration.
func (c *Config) JWTExpiration() time.Duration {
	return time.Duration(c.JWT.ExpiresInMinutes) * time.Minute
}

// LockoutEnabled reports whether a Redis address is configured.
func (c *Config) LockoutEnabled() bool {
	return strings.TrimSpace(c.Redis.Addr) != ""
}
