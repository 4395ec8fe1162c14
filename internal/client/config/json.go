package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/todoapi/internal/flagx"
	"github.com/dmitrijs2005/todoapi/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations
// accept strings like "3s" or integer nanoseconds. Nil fields were absent from
// the file and leave the Config untouched.
type JsonConfig struct {
	ServerURL           *string         `json:"server_url"`
	SessionFile         *string         `json:"session_file"`
	RequestTimeout      *timex.Duration `json:"request_timeout"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
}

// parseJson overlays cfg with the JSON file named by -c or -config. Without
// either flag nothing is loaded.
func parseJson(cfg *Config) error {
	path, err := flagx.ConfigFile(os.Args[1:])
	if err != nil || path == "" {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return err
	}

	if jc.ServerURL != nil {
		cfg.ServerURL = *jc.ServerURL
	}
	if jc.SessionFile != nil {
		cfg.SessionFile = *jc.SessionFile
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	return nil
}
