// Package config handles configuration for the server component,
// including defaults, JSON overlay, environment variables and command-line
// flags, applied in that order.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/todoapi/internal/common"
	"github.com/dmitrijs2005/todoapi/internal/logging"
	"github.com/dmitrijs2005/todoapi/internal/server/auth"
)

// Token store backends.
const (
	TokenBackendPostgres = "postgres"
	TokenBackendRedis    = "redis"
)

// Config holds runtime settings for the todo API server.
//
// Fields:
//   - HTTPAddr: bind address for the HTTP API.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty selects the in-memory store.
//   - SecretKey: HMAC secret for signing tokens (HS256), at least 32 bytes.
//   - TokenTTL: optional token lifetime; zero means tokens live until logout.
//   - HashCost: bcrypt work factor.
//   - TokenBackend / RedisURL: where issued tokens are stored.
//   - LogBackend / LogLevel: logger implementation and minimum level.
//   - GinMode / CORSAllowedOrigins: HTTP engine settings.
//   - ShutdownTimeout: grace period for in-flight requests on shutdown.
//   - OTLPEndpoint: host:port of an OTLP/HTTP trace collector; empty disables tracing.
type Config struct {
	HTTPAddr           string
	DatabaseDSN        string
	SecretKey          string
	TokenTTL           time.Duration
	HashCost           int
	TokenBackend       string
	RedisURL           string
	LogBackend         string
	LogLevel           string
	GinMode            string
	CORSAllowedOrigins string
	ShutdownTimeout    time.Duration
	OTLPEndpoint       string
}

// LoadDefaults populates Config with development defaults. The secret key has
// no default and must be supplied.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":8080"
	c.DatabaseDSN = ""
	c.SecretKey = ""
	c.TokenTTL = 0
	c.HashCost = bcrypt.DefaultCost
	c.TokenBackend = TokenBackendPostgres
	c.RedisURL = "redis://127.0.0.1:6379/0"
	c.LogBackend = logging.BackendZap
	c.LogLevel = "info"
	c.GinMode = "release"
	c.CORSAllowedOrigins = "http://localhost:5173"
	c.ShutdownTimeout = 10 * time.Second
	c.OTLPEndpoint = ""
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line flags.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrConfiguration, err)
	}
	if err := parseEnv(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrConfiguration, err)
	}
	if err := parseFlags(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrConfiguration, err)
	}
	return cfg, nil
}

// Validate rejects settings the server must not start with. Errors wrap
// common.ErrConfiguration.
func (c *Config) Validate() error {
	if len(c.SecretKey) < auth.MinSecretLength {
		return fmt.Errorf("%w: secret key must be at least %d bytes", common.ErrConfiguration, auth.MinSecretLength)
	}
	if c.HashCost < bcrypt.MinCost || c.HashCost > auth.MaxHashCost {
		return fmt.Errorf("%w: hash cost must be in [%d, %d]", common.ErrConfiguration, bcrypt.MinCost, auth.MaxHashCost)
	}
	if c.TokenTTL < 0 {
		return fmt.Errorf("%w: token ttl must not be negative", common.ErrConfiguration)
	}
	switch c.TokenBackend {
	case TokenBackendPostgres:
	case TokenBackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("%w: redis url is required for the redis token backend", common.ErrConfiguration)
		}
	default:
		return fmt.Errorf("%w: unknown token backend %q", common.ErrConfiguration, c.TokenBackend)
	}
	switch c.LogBackend {
	case logging.BackendZap, logging.BackendSlog:
	default:
		return fmt.Errorf("%w: unknown log backend %q", common.ErrConfiguration, c.LogBackend)
	}
	switch c.GinMode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
	default:
		return fmt.Errorf("%w: unknown gin mode %q", common.ErrConfiguration, c.GinMode)
	}
	if c.HTTPAddr == "" {
		return fmt.Errorf("%w: http address is required", common.ErrConfiguration)
	}
	return nil
}

// AllowedOrigins splits CORSAllowedOrigins on commas, dropping blanks.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
