package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// EnvFile is loaded into the process environment, if present, before the
// TODO_* variables are read. Variables already set take precedence.
const EnvFile = ".env.local"

// parseEnv overlays TODO_* environment variables onto config.
//
// Supported variables:
//
//	TODO_HTTP_ADDR, TODO_DATABASE_DSN, TODO_SECRET_KEY, TODO_TOKEN_TTL,
//	TODO_HASH_COST, TODO_TOKEN_BACKEND, TODO_REDIS_URL, TODO_LOG_BACKEND,
//	TODO_LOG_LEVEL, TODO_GIN_MODE, TODO_CORS_ALLOWED_ORIGINS,
//	TODO_SHUTDOWN_TIMEOUT, TODO_OTLP_ENDPOINT
func parseEnv(config *Config) error {
	if _, err := os.Stat(EnvFile); err == nil {
		if err := godotenv.Load(EnvFile); err != nil {
			return fmt.Errorf("load %s: %w", EnvFile, err)
		}
	}

	envString("TODO_HTTP_ADDR", &config.HTTPAddr)
	envString("TODO_DATABASE_DSN", &config.DatabaseDSN)
	envString("TODO_SECRET_KEY", &config.SecretKey)
	envString("TODO_TOKEN_BACKEND", &config.TokenBackend)
	envString("TODO_REDIS_URL", &config.RedisURL)
	envString("TODO_LOG_BACKEND", &config.LogBackend)
	envString("TODO_LOG_LEVEL", &config.LogLevel)
	envString("TODO_GIN_MODE", &config.GinMode)
	envString("TODO_CORS_ALLOWED_ORIGINS", &config.CORSAllowedOrigins)
	envString("TODO_OTLP_ENDPOINT", &config.OTLPEndpoint)

	if err := envDuration("TODO_TOKEN_TTL", &config.TokenTTL); err != nil {
		return err
	}
	if err := envDuration("TODO_SHUTDOWN_TIMEOUT", &config.ShutdownTimeout); err != nil {
		return err
	}
	if v, ok := os.LookupEnv("TODO_HASH_COST"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TODO_HASH_COST: %w", err)
		}
		config.HashCost = n
	}
	return nil
}

func envString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func envDuration(key string, dst *time.Duration) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}
