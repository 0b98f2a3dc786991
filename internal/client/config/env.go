package config

import "github.com/ilyakaznacheev/cleanenv"

// parseEnv overlays PULSE_* variables; unset variables keep the current value.
func parseEnv(cfg *Config) {
	if err := cleanenv.ReadEnv(cfg); err != nil {
		panic(err)
	}
}
