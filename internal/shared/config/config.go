package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration.
type Config struct {
	Port            string   `envconfig:"PORT" default:"8080"`
	Env             string   `envconfig:"ENV" default:"dev" validate:"oneof=dev local staging production"`
	LogLevel        string   `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	CORSAllowOrigin []string `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:5173"`
	DatabaseURL     string   `envconfig:"DATABASE_URL"`
	JWTSecret       string   `envconfig:"JWT_SECRET"`
	RulesFile       string   `envconfig:"RULES_FILE"`
	AWSRegion       string   `envconfig:"AWS_REGION" default:"ap-south-1"`

	SensorInterval time.Duration `envconfig:"SENSOR_INTERVAL" default:"3s" validate:"gt=0"`

	DB        DBConfig
	RateLimit RateLimitConfig
}

// DBConfig tunes the database/sql pool.
type DBConfig struct {
	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"10" validate:"gte=1"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5" validate:"gte=0"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DB_CONN_MAX_IDLE_TIME" default:"2m"`
	PingTimeout     time.Duration `envconfig:"DB_PING_TIMEOUT" default:"5s"`
}

// RateLimitConfig holds token-bucket settings per route group.
type RateLimitConfig struct {
	Rate           float64 `envconfig:"RATE_LIMIT_RPS" default:"5"`
	Burst          int     `envconfig:"RATE_LIMIT_BURST" default:"20"`
	RecommendRate  float64 `envconfig:"RATE_LIMIT_RECOMMEND_RPS" default:"2"`
	RecommendBurst int     `envconfig:"RATE_LIMIT_RECOMMEND_BURST" default:"10"`
}

// Load reads configuration from .env files and the environment.
func Load() (Config, error) {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")
	return fromEnv()
}

func fromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("process env: %w", err)
	}
	cfg.Env = normalizeEnv(cfg.Env)
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.CORSAllowOrigin = splitAndTrim(cfg.CORSAllowOrigin)
	cfg.DatabaseURL = strings.TrimSpace(cfg.DatabaseURL)
	cfg.RulesFile = strings.TrimSpace(cfg.RulesFile)

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	if cfg.Env == "production" {
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL is required in production")
		}
		if cfg.JWTSecret == "" {
			return Config{}, fmt.Errorf("JWT_SECRET is required in production")
		}
	}
	return cfg, nil
}

// IsDevLike reports whether missing infrastructure may fall back to in-memory stand-ins.
func (c Config) IsDevLike() bool {
	return c.Env == "dev" || c.Env == "local"
}

func splitAndTrim(raw []string) []string {
	var out []string
	for _, p := range raw {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}
