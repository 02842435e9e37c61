// Package daemon manages the Ascend daemon lifecycle and configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all daemon configuration.
type Config struct {
	API         APIConfig         `toml:"api"`
	Database    DatabaseConfig    `toml:"database"`
	Progression ProgressionConfig `toml:"progression"`
	Logging     LoggingConfig     `toml:"logging"`
	Telemetry   TelemetryConfig   `toml:"telemetry"`
}

// APIConfig controls the HTTP API server.
type APIConfig struct {
	Host        string   `toml:"host"`
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
}

// DatabaseConfig controls SQLite storage.
type DatabaseConfig struct {
	Dir string `toml:"dir"`
}

// ProgressionConfig tunes the progression engine.
type ProgressionConfig struct {
	MaxMemoLevel int `toml:"max_memo_level"` // size of the precomputed level table
	SweepHourUTC int `toml:"sweep_hour_utc"` // daily rollover sweep hour
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// TelemetryConfig controls observability endpoints.
type TelemetryConfig struct {
	Prometheus bool `toml:"prometheus"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	homeDir := ascendHome()
	return Config{
		API: APIConfig{
			Host:        "127.0.0.1",
			Port:        7845,
			CORSOrigins: []string{"*"},
		},
		Database: DatabaseConfig{
			Dir: homeDir,
		},
		Progression: ProgressionConfig{
			MaxMemoLevel: 200,
			SweepHourUTC: 0,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  filepath.Join(homeDir, "ascend.log"),
		},
		Telemetry: TelemetryConfig{
			Prometheus: true,
		},
	}
}

// LoadConfig reads config from ~/.ascend/config.toml, falling back to defaults.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	path := filepath.Join(ascendHome(), "config.toml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil // No config file yet — use defaults
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

// SaveConfig writes the config to ~/.ascend/config.toml.
func SaveConfig(cfg Config) error {
	path := filepath.Join(ascendHome(), "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}

// ascendHome returns the Ascend data directory.
func ascendHome() string {
	if env := os.Getenv("ASCEND_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".ascend")
}

// AscendHome is exported for use by other packages.
func AscendHome() string {
	return ascendHome()
}
