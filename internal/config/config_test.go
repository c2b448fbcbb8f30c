package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"API_BASE_URL", "STORAGE_TYPE", "SQLITE_PATH", "POSTGRES_URL",
		"API_PORT", "API_HOST", "API_ENDPOINT", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIBaseURL, cfg.APIBaseURL)
	assert.Equal(t, "sqlite", cfg.StorageType)
	assert.Equal(t, "./repositories.db", cfg.SQLitePath)
	assert.Equal(t, "8080", cfg.APIPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "fetcher.env")
	content := "STORAGE_TYPE=postgres\nPOSTGRES_URL=postgres://localhost/repos\nAPI_BASE_URL=http://127.0.0.1:9000/\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.StorageType)
	assert.Equal(t, "postgres://localhost/repos", cfg.PostgresURL)
	assert.Equal(t, "http://127.0.0.1:9000/", cfg.APIBaseURL)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.env"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := Config{APIBaseURL: DefaultAPIBaseURL, StorageType: "sqlite", SQLitePath: "x.db"}

	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{"relative base url", func(c *Config) { c.APIBaseURL = "users/" }, "API_BASE_URL"},
		{"unknown storage", func(c *Config) { c.StorageType = "mysql" }, "STORAGE_TYPE"},
		{"empty sqlite path", func(c *Config) { c.SQLitePath = " " }, "SQLITE_PATH"},
		{"postgres without url", func(c *Config) { c.StorageType = "postgres" }, "POSTGRES_URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)

			err := cfg.Validate()
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}
