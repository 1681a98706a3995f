// Package config loads runtime configuration for pulsar from the config
// file, PULSAR_* environment variables, and CLI flags, in increasing
// precedence, with built-in defaults underneath.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration for a pulsar invocation.
// Values are populated from .pulsar.yaml, PULSAR_* env vars, and CLI flags.
type Config struct {
	// Damping is the probability of following a link vs teleporting.
	Damping float64 `mapstructure:"damping"`

	// StartNode is where both algorithms begin.
	StartNode int `mapstructure:"start_node"`

	// Seed seeds the surfer's random source. Zero means time-seeded.
	Seed int64 `mapstructure:"seed"`

	// HistoryDB is the SQLite database path for recorded runs.
	HistoryDB string `mapstructure:"history_db"`

	// TelemetryPath is the JSONL event file. Empty disables telemetry.
	TelemetryPath string `mapstructure:"telemetry_path"`

	// Verbose enables diagnostic output on stderr.
	Verbose bool `mapstructure:"verbose"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	viper.SetDefault("damping", 0.9)
	viper.SetDefault("start_node", 0)
	viper.SetDefault("seed", int64(0))
	viper.SetDefault("history_db", ".pulsar/history.db")
	viper.SetDefault("telemetry_path", "")
	viper.SetDefault("verbose", false)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	return cfg, nil
}
