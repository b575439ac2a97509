package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	envConfig          = "BOOKSHELF_CONFIG"
	envDriver          = "BOOKSHELF_DRIVER"
	envDSN             = "BOOKSHELF_DSN"
	envLogLevel        = "BOOKSHELF_LOG_LEVEL"
	envLogFormat       = "BOOKSHELF_LOG_FORMAT"
	envMaxOpenConns    = "BOOKSHELF_MAX_OPEN_CONNS"
	envMaxIdleConns    = "BOOKSHELF_MAX_IDLE_CONNS"
	envConnMaxLifetime = "BOOKSHELF_CONN_MAX_LIFETIME"
)

// loadEnvFiles reads .env and .env.local from the working directory. Variables that are
// already set win over the files.
func loadEnvFiles() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

func lookupEnv(key string) string {
	v, _ := os.LookupEnv(key)
	return v
}

func parseEnv(config *Config) error {
	if v := lookupEnv(envDriver); v != "" {
		config.Driver = v
	}
	if v := lookupEnv(envDSN); v != "" {
		config.DSN = v
	}
	if v := lookupEnv(envLogLevel); v != "" {
		config.LogLevel = v
	}
	if v := lookupEnv(envLogFormat); v != "" {
		config.LogFormat = v
	}

	for key, dst := range map[string]*int{
		envMaxOpenConns: &config.MaxOpenConns,
		envMaxIdleConns: &config.MaxIdleConns,
	} {
		v := lookupEnv(key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
	}

	if v := lookupEnv(envConnMaxLifetime); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envConnMaxLifetime, err)
		}
		config.ConnMaxLifetime = d
	}

	return nil
}
