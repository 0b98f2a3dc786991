// Package config handles configuration for the threads API server,
// including defaults, JSON overlay, environment and command-line flags.
package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the threads API server.
//
// Fields:
//   - EndpointAddr: bind address of the HTTP listener.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use test defaults in prod.
//   - AccessTokenValidityDuration / RefreshTokenValidityDuration: token lifetimes.
//   - RotateRefreshTokens: issue a new refresh token on every /auth/refresh.
//   - SeedDemoData: create a demo account and a few threads at startup.
type Config struct {
	EndpointAddr                 string        `env:"PULSE_SERVER_ADDR"`
	SecretKey                    string        `env:"PULSE_SERVER_SECRET"`
	AccessTokenValidityDuration  time.Duration `env:"PULSE_SERVER_ACCESS_TTL"`
	RefreshTokenValidityDuration time.Duration `env:"PULSE_SERVER_REFRESH_TTL"`
	RotateRefreshTokens          bool          `env:"PULSE_SERVER_ROTATE_REFRESH"`
	SeedDemoData                 bool          `env:"PULSE_SERVER_SEED"`
	LogLevel                     string        `env:"PULSE_SERVER_LOG_LEVEL"`
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":3000"
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 1 * time.Minute
	c.RefreshTokenValidityDuration = 24 * time.Hour
	c.RotateRefreshTokens = true
	c.SeedDemoData = true
	c.LogLevel = "info"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line flags.
// It panics on unreadable input.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, os.Args[1:])
	parseEnv(cfg)
	parseFlags(cfg, os.Args[1:])
	return cfg
}
