// Package config loads runtime configuration for the todo CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string     base URL of the API server
//	-f string     session file path
//	-t duration   per-request timeout
//	-i duration   online status check interval
//
// # JSON schema
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "session_file": ".todo/session.json",
//	  "request_timeout": "10s",
//	  "online_check_interval": "5s"
//	}
package config
