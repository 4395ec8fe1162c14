package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected  *Config
		name      string
		args      []string
		expectErr bool
	}{
		{name: "Test1 OK", args: []string{"cmd",
			"-a", "127.0.0.1:9090", "-d", "db", "-s", "secret",
			"-t", "24h", "-k", "12", "-b", "redis", "-r", "redis://r:6379/0", "-l", "debug", "-o", "otel:4318",
		}, expectErr: false,
			expected: &Config{
				HTTPAddr:     "127.0.0.1:9090",
				DatabaseDSN:  "db",
				SecretKey:    "secret",
				TokenTTL:     24 * time.Hour,
				HashCost:     12,
				TokenBackend: "redis",
				RedisURL:     "redis://r:6379/0",
				LogLevel:     "debug",
				OTLPEndpoint: "otel:4318",
			}},
		{name: "unknown flags ignored", args: []string{"cmd", "-c", "cfg.json", "-x", "1"},
			expected: &Config{}},
		{name: "bad duration", args: []string{"cmd", "-t", "soon"}, expectErr: true},
		{name: "bad cost", args: []string{"cmd", "-k", "ten"}, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			config := &Config{}
			err := parseFlags(config)

			if tt.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(config, tt.expected))
		})
	}
}
