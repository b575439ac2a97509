package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetEnv clears keys for the test and restores them afterwards.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func cleanEnv(t *testing.T) {
	t.Helper()
	unsetEnv(t, envConfig, envDriver, envDSN, envLogLevel, envLogFormat,
		envMaxOpenConns, envMaxIdleConns, envConnMaxLifetime)
	t.Chdir(t.TempDir())
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "sqlite", c.Driver)
	assert.Equal(t, "file:bookshelf.db?_foreign_keys=1", c.DSN)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "text", c.LogFormat)
	assert.Zero(t, c.MaxOpenConns)
	assert.Zero(t, c.ConnMaxLifetime)
}

func TestLoad_DefaultsAndSubcommand(t *testing.T) {
	cleanEnv(t)

	c, rest, err := Load([]string{"books", "-x"})
	require.NoError(t, err)

	var want Config
	want.LoadDefaults()
	assert.Equal(t, &want, c)
	assert.Equal(t, []string{"books", "-x"}, rest)
}

func TestLoad_JSONOverridesOnlyNamedKeys(t *testing.T) {
	cleanEnv(t)
	path := writeFile(t, "bookshelf.json", `{"driver": "postgres", "max_open_conns": 8, "conn_max_lifetime": "5m"}`)

	c, _, err := Load([]string{"-c", path})
	require.NoError(t, err)

	assert.Equal(t, "postgres", c.Driver)
	assert.Equal(t, 8, c.MaxOpenConns)
	assert.Equal(t, 5*time.Minute, c.ConnMaxLifetime)
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoad_JSONPathFromEnv(t *testing.T) {
	cleanEnv(t)
	t.Setenv(envConfig, writeFile(t, "bookshelf.json", `{"log_format": "json"}`))

	c, _, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "json", c.LogFormat)
}

func TestLoad_Precedence(t *testing.T) {
	cleanEnv(t)
	path := writeFile(t, "bookshelf.json", `{"dsn": "from-json", "log_level": "warn", "max_idle_conns": 1}`)
	t.Setenv(envDSN, "from-env")
	t.Setenv(envLogLevel, "error")

	c, rest, err := Load([]string{"-c", path, "-d", "from-flag", "migrate"})
	require.NoError(t, err)

	assert.Equal(t, "from-flag", c.DSN)
	assert.Equal(t, "error", c.LogLevel)
	assert.Equal(t, 1, c.MaxIdleConns)
	assert.Equal(t, []string{"migrate"}, rest)
}

func TestLoad_EnvFileDoesNotOverrideEnvironment(t *testing.T) {
	cleanEnv(t)
	require.NoError(t, os.WriteFile(".env", []byte("BOOKSHELF_DSN=from_file\nBOOKSHELF_DRIVER=postgres\n"), 0o644))
	t.Setenv(envDSN, "from_env")

	c, _, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "from_env", c.DSN)
	assert.Equal(t, "postgres", c.Driver)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		cleanEnv(t)
		_, _, err := Load([]string{"-c", filepath.Join(t.TempDir(), "nope.json")})
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("bad json", func(t *testing.T) {
		cleanEnv(t)
		_, _, err := Load([]string{"-c", writeFile(t, "bad.json", `{"dsn":`)})
		assert.Error(t, err)
	})

	t.Run("bad number in env", func(t *testing.T) {
		cleanEnv(t)
		t.Setenv(envMaxOpenConns, "many")
		_, _, err := Load(nil)
		assert.ErrorContains(t, err, envMaxOpenConns)
	})

	t.Run("unknown flag", func(t *testing.T) {
		cleanEnv(t)
		_, _, err := Load([]string{"-nope"})
		assert.Error(t, err)
	})
}
