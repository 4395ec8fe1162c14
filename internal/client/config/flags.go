package config

import (
	"flag"
	"io"
	"os"

	"github.com/dmitrijs2005/todoapi/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     base URL of the API server
//	-f string     session file path
//	-t duration   per-request timeout
//	-i duration   online check interval
func parseFlags(cfg *Config) error {
	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the API server")
	fs.StringVar(&cfg.SessionFile, "f", cfg.SessionFile, "session file")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "request timeout")
	fs.DurationVar(&cfg.OnlineCheckInterval, "i", cfg.OnlineCheckInterval, "online check interval")

	return flagx.ParseKnown(fs, os.Args[1:])
}
