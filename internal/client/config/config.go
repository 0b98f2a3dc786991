package config

import (
	"os"
	"strings"
	"time"
)

const (
	PlatformDefault = "default"
	PlatformAndroid = "android"

	localBaseURL = "http://localhost:3000"
	// The Android emulator reaches the host loopback through 10.0.2.2.
	androidEmulatorBaseURL = "http://10.0.2.2:3000"
)

// Config holds runtime settings for the pulse CLI.
//
// BaseURL wins over Platform when both are set.
type Config struct {
	Platform       string        `env:"PULSE_PLATFORM"`
	BaseURL        string        `env:"PULSE_API_URL"`
	RequestTimeout time.Duration `env:"PULSE_TIMEOUT"`
	RefreshTimeout time.Duration `env:"PULSE_REFRESH_TIMEOUT"`
	DatabasePath   string        `env:"PULSE_DB"`
	LogLevel       string        `env:"PULSE_LOG_LEVEL"`
	PageSize       int           `env:"PULSE_PAGE_SIZE"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.Platform = PlatformDefault
	c.BaseURL = ""
	c.RequestTimeout = 15 * time.Second
	c.RefreshTimeout = 10 * time.Second
	c.DatabasePath = "pulse.db"
	c.LogLevel = "warn"
	c.PageSize = 10
}

// ResolveBaseURL returns BaseURL, or the platform default when it is empty.
func (c *Config) ResolveBaseURL() string {
	if c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/")
	}
	if strings.EqualFold(c.Platform, PlatformAndroid) {
		return androidEmulatorBaseURL
	}
	return localBaseURL
}

// LoadConfig constructs a Config, applies defaults, then overlays JSON,
// environment and command-line flags. Later sources take precedence over
// earlier ones. It panics on unreadable input.
func LoadConfig() *Config {
	return load(os.Args[1:])
}

func load(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseEnv(cfg)
	parseFlags(cfg, args)
	return cfg
}
