package config

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/todoapi/internal/common"
)

// Config holds runtime settings for the todo CLI.
//
// Fields:
//   - ServerURL: base URL of the todo API, e.g. http://127.0.0.1:8080.
//   - SessionFile: where the login token is kept between runs.
//   - RequestTimeout: limit for a single API call; zero disables it.
//   - OnlineCheckInterval: how often the client probes server reachability;
//     zero disables the probe.
type Config struct {
	ServerURL           string
	SessionFile         string
	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.SessionFile = ".todo/session.json"
	c.RequestTimeout = 10 * time.Second
	c.OnlineCheckInterval = 5 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrConfiguration, err)
	}
	if err := parseFlags(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrConfiguration, err)
	}
	return cfg, nil
}
