package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort      string        `env:"SERVER_PORT" envDefault:"8080"`
	MySQLDSN        string        `env:"MYSQL_DSN" envDefault:"user:password@tcp(localhost:3306)/hrms?charset=utf8mb4&parseTime=True&loc=UTC"`
	RedisAddr       string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisDB         int           `env:"REDIS_DB" envDefault:"0"`
	RedisPass       string        `env:"REDIS_PASSWORD"`
	JWTSecret       string        `env:"JWT_SECRET" envDefault:"change-me"`
	SwaggerHost     string        `env:"SWAGGER_HOST"`
	FrontendURL     string        `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"json"`
	ResetDB         bool          `env:"RESET_DB" envDefault:"false"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Requests per second allowed per client IP on the public invitation endpoints.
	InvitationRateLimit float64 `env:"INVITATION_RATE_LIMIT" envDefault:"1"`
	InvitationRateBurst int     `env:"INVITATION_RATE_BURST" envDefault:"10"`

	Seed SeedConfig `envPrefix:"SEED_ADMIN_"`
}

// SeedConfig describes the bootstrap administrator created by cmd/seed.
type SeedConfig struct {
	Email    string `env:"EMAIL" envDefault:"admin@hrms.local"`
	Password string `env:"PASSWORD"`
	Name     string `env:"NAME" envDefault:"System Administrator"`
}

// Load builds Config from environment with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.ServerPort
}

// SwaggerURL returns the externally reachable swagger UI location.
func (c *Config) SwaggerURL() string {
	host := c.SwaggerHost
	if host == "" {
		host = "localhost:" + c.ServerPort
	}
	if strings.HasPrefix(host, "http://") || strings.HasPrefix(host, "https://") {
		return host + "/swagger/index.html"
	}
	return "http://" + host + "/swagger/index.html"
}
