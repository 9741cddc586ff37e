// Package config loads application configuration from the environment.
// A local .env file is honored in development (godotenv), real environment
// variables always take precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"fatturo/internal/core/types"
)

// Config holds all runtime configuration for the server.
type Config struct {
	// HTTP
	HTTPAddr        string
	ShutdownTimeout time.Duration

	// Database
	DatabaseURL string
	MaxConns    int32
	MinConns    int32

	// Auth
	JWTSecret      string
	AccessTokenTTL time.Duration

	// Logging
	LogLevel    string
	Development bool

	// Forfettario regime: statutory annual cap on collected revenue and
	// the alert thresholds as fractions of the cap.
	ForfettarioLimit types.Money
	WarningThreshold float64
	DangerThreshold  float64

	// EnableTitleFallback turns on weak invoice matching in the won rollup
	// for invoices created before opportunity links existed.
	EnableTitleFallback bool
}

// Load reads configuration from the environment.
// Returns an error for missing required values or malformed numbers.
func Load() (*Config, error) {
	// Best effort: absence of .env is not an error.
	_ = godotenv.Load()

	cfg := &Config{
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		ShutdownTimeout:  getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		MaxConns:         int32(getEnvInt("DB_MAX_CONNS", 25)),
		MinConns:         int32(getEnvInt("DB_MIN_CONNS", 5)),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		AccessTokenTTL:   getEnvDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		Development:      getEnv("APP_ENV", "development") == "development",
		WarningThreshold: getEnvFloat("FORFETTARIO_WARNING", 0.75),
		DangerThreshold:  getEnvFloat("FORFETTARIO_DANGER", 0.90),

		EnableTitleFallback: getEnv("ENABLE_TITLE_FALLBACK", "true") == "true",
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	limit, err := types.NewMoneyFromString(getEnv("FORFETTARIO_LIMIT", "85000"))
	if err != nil {
		return nil, fmt.Errorf("parse FORFETTARIO_LIMIT: %w", err)
	}
	cfg.ForfettarioLimit = limit

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}
