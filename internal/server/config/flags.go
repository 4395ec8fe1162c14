package config

import (
	"flag"
	"io"
	"os"

	"github.com/dmitrijs2005/todoapi/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     HTTP bind address (e.g., ":8080")
//	-d string     PostgreSQL DSN; empty runs on the in-memory store
//	-s string     token signing secret
//	-t duration   token lifetime (e.g., "24h"; 0 disables expiry)
//	-k int        bcrypt cost
//	-b string     token backend: postgres or redis
//	-r string     Redis URL
//	-l string     log level
//	-o string     OTLP/HTTP collector endpoint
//
// Flags owned by other parsers, such as -c/-config, are skipped.
func parseFlags(config *Config) error {
	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.DurationVar(&config.TokenTTL, "t", config.TokenTTL, "token lifetime, 0 for no expiry")
	fs.IntVar(&config.HashCost, "k", config.HashCost, "bcrypt cost")
	fs.StringVar(&config.TokenBackend, "b", config.TokenBackend, "token backend (postgres|redis)")
	fs.StringVar(&config.RedisURL, "r", config.RedisURL, "redis URL")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.OTLPEndpoint, "o", config.OTLPEndpoint, "OTLP/HTTP trace collector endpoint")

	return flagx.ParseKnown(fs, os.Args[1:])
}
