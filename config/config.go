/*
Package config loads server configuration.

Sources, in precedence order: environment variables (LOGISTICS_*),
an optional YAML config file, built-in defaults. Only the server
binary uses this; the library packages take plain parameters.
*/
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the server settings.
type Config struct {
	// Port the HTTP server listens on.
	Port int
	// DatabasePath is the SQLite run-archive file.
	DatabasePath string
	// DataDir optionally points at a CSV instance directory served in
	// addition to the built-in instances.
	DataDir string
	// DefaultHorizon caps simulations that do not specify one.
	DefaultHorizon int64
}

// Load reads configuration from defaults, an optional config file and
// LOGISTICS_* environment variables. An empty path means "use
// ./config.yaml if present".
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("port", 8080)
	v.SetDefault("database_path", "./data/runs.db")
	v.SetDefault("data_dir", "")
	v.SetDefault("default_horizon", 2400)

	v.SetEnvPrefix("LOGISTICS")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		// A missing default config file is fine; defaults and env
		// carry the server.
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	// Explicit getters rather than Unmarshal, so environment-only
	// overrides are honored.
	return &Config{
		Port:           v.GetInt("port"),
		DatabasePath:   v.GetString("database_path"),
		DataDir:        v.GetString("data_dir"),
		DefaultHorizon: v.GetInt64("default_horizon"),
	}, nil
}
