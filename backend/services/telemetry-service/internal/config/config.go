package config

import (
	"errors"
	"strings"
	"time"

	libconfig "water360/backend/libs/config"
)

const defaultPort = "8084"

// Config defines telemetry service configuration.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"TELEMETRY_HTTP_PORT"`
	} `yaml:"http"`
	Database struct {
		DSN     string `yaml:"dsn" env:"TELEMETRY_POSTGRES_DSN"`
		Migrate bool   `yaml:"migrate" env:"TELEMETRY_MIGRATE"`
	} `yaml:"database"`
	Readings struct {
		Window      time.Duration `yaml:"window" env:"TELEMETRY_WINDOW"`
		RecentLimit int           `yaml:"recent_limit" env:"TELEMETRY_RECENT_LIMIT"`
	} `yaml:"readings"`
}

// Load configuration using shared helper.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = defaultPort
	cfg.Database.Migrate = true
	cfg.Readings.Window = 24 * time.Hour
	cfg.Readings.RecentLimit = 5

	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return nil, errors.New("config: database dsn required")
	}
	if cfg.Readings.Window <= 0 {
		return nil, errors.New("config: readings window must be positive")
	}
	if cfg.Readings.RecentLimit <= 0 {
		return nil, errors.New("config: recent limit must be positive")
	}
	return cfg, nil
}

// HTTPAddress returns :port style.
func (c *Config) HTTPAddress() string {
	return libconfig.Address(c.HTTP.Port, defaultPort)
}
