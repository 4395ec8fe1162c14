package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_Variables(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TODO_HTTP_ADDR", ":9999")
	t.Setenv("TODO_SECRET_KEY", "env-secret")
	t.Setenv("TODO_TOKEN_TTL", "90m")
	t.Setenv("TODO_HASH_COST", "11")
	t.Setenv("TODO_LOG_BACKEND", "slog")

	cfg := &Config{HTTPAddr: ":8080", LogLevel: "info"}
	require.NoError(t, parseEnv(cfg))

	assert.Equal(t, ":9999", cfg.HTTPAddr)
	assert.Equal(t, "env-secret", cfg.SecretKey)
	assert.Equal(t, 90*time.Minute, cfg.TokenTTL)
	assert.Equal(t, 11, cfg.HashCost)
	assert.Equal(t, "slog", cfg.LogBackend)
	assert.Equal(t, "info", cfg.LogLevel, "unset variables leave values alone")
}

func TestParseEnv_DotEnvFile(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile(EnvFile, []byte("TODO_REDIS_URL=redis://dotenv:6379/2\n"), 0o600))
	t.Setenv("TODO_REDIS_URL", "")
	require.NoError(t, os.Unsetenv("TODO_REDIS_URL"))

	cfg := &Config{}
	require.NoError(t, parseEnv(cfg))
	assert.Equal(t, "redis://dotenv:6379/2", cfg.RedisURL)
}

func TestParseEnv_BadValues(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Run("duration", func(t *testing.T) {
		t.Setenv("TODO_TOKEN_TTL", "later")
		assert.Error(t, parseEnv(&Config{}))
	})
	t.Run("cost", func(t *testing.T) {
		t.Setenv("TODO_HASH_COST", "high")
		assert.Error(t, parseEnv(&Config{}))
	})
}
