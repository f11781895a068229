package config

import (
	"errors"
	"strings"
	"time"

	libconfig "water360/backend/libs/config"
)

const defaultPort = "8080"

// Config defines gateway configuration.
type Config struct {
	HTTP struct {
		Port           string   `yaml:"port" env:"API_GATEWAY_HTTP_PORT"`
		CORSOrigins    []string `yaml:"corsOrigins" env:"API_GATEWAY_CORS_ORIGINS"`
		RateLimit      int      `yaml:"rateLimit" env:"API_GATEWAY_RATE_LIMIT"`
		LoginRateLimit int      `yaml:"loginRateLimit" env:"API_GATEWAY_LOGIN_RATE_LIMIT"`
	} `yaml:"http"`
	JWT struct {
		Secret string `yaml:"secret" env:"API_GATEWAY_JWT_SECRET"`
		Issuer string `yaml:"issuer" env:"API_GATEWAY_JWT_ISSUER"`
	} `yaml:"jwt"`
	Services struct {
		AuthURL      string `yaml:"authUrl" env:"AUTH_SERVICE_URL"`
		TelemetryURL string `yaml:"telemetryUrl" env:"TELEMETRY_SERVICE_URL"`
	} `yaml:"services"`
	HTTPClient struct {
		TimeoutSeconds int `yaml:"timeoutSeconds" env:"API_GATEWAY_HTTP_TIMEOUT"`
	} `yaml:"httpClient"`
	Breaker struct {
		Failures uint32        `yaml:"failures" env:"API_GATEWAY_BREAKER_FAILURES"`
		Timeout  time.Duration `yaml:"timeout" env:"API_GATEWAY_BREAKER_TIMEOUT"`
	} `yaml:"breaker"`
}

// Load configuration via shared helper.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = defaultPort
	cfg.HTTP.CORSOrigins = []string{"http://localhost:3000"}
	cfg.HTTP.RateLimit = 120
	cfg.HTTP.LoginRateLimit = 10
	cfg.JWT.Issuer = "water360"
	cfg.Services.AuthURL = "http://localhost:8081"
	cfg.Services.TelemetryURL = "http://localhost:8084"
	cfg.HTTPClient.TimeoutSeconds = 5
	cfg.Breaker.Failures = 5
	cfg.Breaker.Timeout = 30 * time.Second

	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.JWT.Secret) == "" {
		return nil, errors.New("config: jwt secret required")
	}
	if strings.TrimSpace(cfg.Services.AuthURL) == "" || strings.TrimSpace(cfg.Services.TelemetryURL) == "" {
		return nil, errors.New("config: upstream service urls required")
	}
	return cfg, nil
}

// HTTPAddress returns :port style.
func (c *Config) HTTPAddress() string {
	return libconfig.Address(c.HTTP.Port, defaultPort)
}

// HTTPTimeout returns http client timeout.
func (c *Config) HTTPTimeout() time.Duration {
	if c.HTTPClient.TimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.HTTPClient.TimeoutSeconds) * time.Second
}
