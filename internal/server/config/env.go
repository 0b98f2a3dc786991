package config

import "github.com/ilyakaznacheev/cleanenv"

// parseEnv overlays PULSE_SERVER_* variables; unset variables keep the current value.
func parseEnv(config *Config) {
	if err := cleanenv.ReadEnv(config); err != nil {
		panic(err)
	}
}
