package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/todoapi/internal/flagx"
	"github.com/dmitrijs2005/todoapi/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "1s" and integer nanoseconds. Pointer fields tell an
// absent key apart from an explicit zero.
//
// This struct is an intermediate DTO used only for reading JSON configuration
// files. After unmarshalling, set fields are copied into the runtime Config.
type JsonConfig struct {
	HTTPAddr           *string         `json:"http_addr"`
	DatabaseDSN        *string         `json:"database_dsn"`
	SecretKey          *string         `json:"secret_key"`
	TokenTTL           *timex.Duration `json:"token_ttl"`
	HashCost           *int            `json:"hash_cost"`
	TokenBackend       *string         `json:"token_backend"`
	RedisURL           *string         `json:"redis_url"`
	LogBackend         *string         `json:"log_backend"`
	LogLevel           *string         `json:"log_level"`
	GinMode            *string         `json:"gin_mode"`
	CORSAllowedOrigins *string         `json:"cors_allowed_origins"`
	ShutdownTimeout    *timex.Duration `json:"shutdown_timeout"`
	OTLPEndpoint       *string         `json:"otlp_endpoint"`
}

// parseJson loads configuration values from a JSON file into config. The file
// path comes from the -c or -config flag; without it nothing is loaded.
func parseJson(config *Config) error {

	jsonConfigFile, err := flagx.ConfigFile(os.Args[1:])
	if err != nil {
		return err
	}

	// nothing to load
	if jsonConfigFile == "" {
		return nil
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(file, c); err != nil {
		return err
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	if c.TokenTTL != nil {
		config.TokenTTL = c.TokenTTL.Duration
	}
	if c.HashCost != nil {
		config.HashCost = *c.HashCost
	}
	setString(&config.TokenBackend, c.TokenBackend)
	setString(&config.RedisURL, c.RedisURL)
	setString(&config.LogBackend, c.LogBackend)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.GinMode, c.GinMode)
	setString(&config.CORSAllowedOrigins, c.CORSAllowedOrigins)
	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	setString(&config.OTLPEndpoint, c.OTLPEndpoint)

	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
