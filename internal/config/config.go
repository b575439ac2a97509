// Package config handles configuration for the bookshelf tools: defaults, an optional
// JSON file, .env files with environment variables, and command-line flags, each
// overriding the one before.
package config

import (
	"fmt"
	"time"
)

// Config holds runtime settings.
//
// Fields:
//   - Driver: dialect name, "sqlite" or "postgres".
//   - DSN: data source name handed to the driver.
//   - LogLevel / LogFormat: slog level name and "text" or "json".
//   - MaxOpenConns / MaxIdleConns / ConnMaxLifetime: pool limits, zero keeps the
//     database/sql default.
type Config struct {
	Driver          string
	DSN             string
	LogLevel        string
	LogFormat       string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// LoadDefaults populates Config with development defaults: a sqlite file in the
// working directory.
func (c *Config) LoadDefaults() {
	c.Driver = "sqlite"
	c.DSN = "file:bookshelf.db?_foreign_keys=1"
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.MaxOpenConns = 0
	c.MaxIdleConns = 0
	c.ConnMaxLifetime = 0
}

// Load builds a Config from args (without the program name) and the environment. It
// returns the arguments left after the flags, which start with the subcommand.
func Load(args []string) (*Config, []string, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	fs, flags := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	path := flags.configFile
	if path == "" {
		path = lookupEnv(envConfig)
	}
	if path != "" {
		if err := parseJSON(cfg, path); err != nil {
			return nil, nil, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	loadEnvFiles()
	if err := parseEnv(cfg); err != nil {
		return nil, nil, err
	}

	flags.apply(fs, cfg)

	return cfg, fs.Args(), nil
}
