package config

import (
	"encoding/json"
	"os"
	"time"
)

// jsonConfig mirrors Config for decoding. Pointer fields tell a missing key from a
// zero value so the file only overrides what it names.
type jsonConfig struct {
	Driver          *string `json:"driver"`
	DSN             *string `json:"dsn"`
	LogLevel        *string `json:"log_level"`
	LogFormat       *string `json:"log_format"`
	MaxOpenConns    *int    `json:"max_open_conns"`
	MaxIdleConns    *int    `json:"max_idle_conns"`
	ConnMaxLifetime *string `json:"conn_max_lifetime"`
}

func parseJSON(config *Config, path string) error {
	file, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	c := &jsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return err
	}

	set(&config.Driver, c.Driver)
	set(&config.DSN, c.DSN)
	set(&config.LogLevel, c.LogLevel)
	set(&config.LogFormat, c.LogFormat)
	set(&config.MaxOpenConns, c.MaxOpenConns)
	set(&config.MaxIdleConns, c.MaxIdleConns)

	if c.ConnMaxLifetime != nil {
		d, err := time.ParseDuration(*c.ConnMaxLifetime)
		if err != nil {
			return err
		}
		config.ConnMaxLifetime = d
	}

	return nil
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
