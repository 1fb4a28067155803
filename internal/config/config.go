// Package config loads process configuration from the environment with
// working fallbacks, so the server runs with no configuration at all
// against the seeded in-memory marketplace.
package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// DatabaseURL selects the Postgres marketplace backend when set;
	// empty keeps the seeded in-memory store.
	DatabaseURL string

	// RedisAddr selects Redis-backed token and reset stores when set.
	RedisAddr string

	TokenTTL time.Duration
	ResetTTL time.Duration

	// SweepInterval enables the background expiry sweep on the memory
	// token store. Zero keeps lazy-only eviction.
	SweepInterval time.Duration

	LoginRateLimit  int
	LoginRateWindow time.Duration

	ForgotRateLimit  int
	ForgotRateWindow time.Duration

	ResetRateLimit  int
	ResetRateWindow time.Duration

	OTLPEndpoint string
}

func Load() Config {
	port := os.Getenv("ADMIN_PORT")
	if port == "" {
		port = "8080"
	}

	return Config{
		Port:        port,
		DatabaseURL: os.Getenv("DB_DSN"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),

		TokenTTL:      readDuration("ADMIN_TOKEN_TTL", 24*time.Hour),
		ResetTTL:      readDuration("ADMIN_RESET_TTL", 15*time.Minute),
		SweepInterval: readDuration("ADMIN_SWEEP_INTERVAL", 0),

		LoginRateLimit:  readInt("ADMIN_LOGIN_RATE_LIMIT", 10),
		LoginRateWindow: readDuration("ADMIN_LOGIN_RATE_WINDOW", 5*time.Minute),

		ForgotRateLimit:  readInt("ADMIN_FORGOT_RATE_LIMIT", 5),
		ForgotRateWindow: readDuration("ADMIN_FORGOT_RATE_WINDOW", 10*time.Minute),

		ResetRateLimit:  readInt("ADMIN_RESET_RATE_LIMIT", 20),
		ResetRateWindow: readDuration("ADMIN_RESET_RATE_WINDOW", 10*time.Minute),

		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}
}

func readInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func readDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return value
}
