// Package config loads runtime configuration for the pulse CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. PULSE_* environment variables.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the threads API
//	-p string   platform the base URL is derived for (default, android)
//	-t int      request timeout (seconds)
//	-d string   path of the local session database ("" keeps it in memory)
//	-l string   log level
//
// # JSON schema
//
// Durations are strings like "15s" or integer nanoseconds:
//
//	{
//	  "base_url": "http://localhost:3000",
//	  "platform": "default",
//	  "request_timeout": "15s",
//	  "refresh_timeout": "10s",
//	  "database_path": "pulse.db",
//	  "log_level": "warn",
//	  "page_size": 10
//	}
package config
