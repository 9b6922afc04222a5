// Package config loads the optional TOML configuration file that supplies
// defaults for the command-line driver: the output base folder and the
// logger's sampling period. CLI flags always take precedence over values
// loaded here.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds the driver-level defaults overridable by CLI flags.
type Config struct {
	// OutputFolder is the parent directory under which each run's
	// timestamped directory is created. Defaults to "simulations".
	OutputFolder string `toml:"output_folder"`
	// LogPeriod is the scheduler's sampling period Δ. Defaults to 0.1.
	LogPeriod float64 `toml:"log_period"`
}

// Default returns the configuration used when no file is loaded.
func Default() Config {
	return Config{OutputFolder: "simulations", LogPeriod: 0.1}
}

// Load reads and decodes the TOML file at path, overlaying it on Default().
// A missing file is not an error: Default() is returned unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: decoding %q: %w", path, err)
	}
	return cfg, nil
}
