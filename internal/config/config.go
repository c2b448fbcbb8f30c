package config

import (
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultAPIBaseURL is the REST endpoint repositories are fetched from
const DefaultAPIBaseURL = "https://api.github.com/"

// Config holds the application configuration
type Config struct {
	// Remote API
	APIBaseURL string

	// Storage
	StorageType string // "sqlite" or "postgres"
	SQLitePath  string
	PostgresURL string

	// API Server
	APIPort string
	APIHost string

	// Client
	APIEndpoint string

	// Logging
	LogLevel string
}

// Load loads the configuration from environment variables.
// When files are given they are loaded instead of .env.
func Load(files ...string) (*Config, error) {
	if len(files) > 0 {
		if err := godotenv.Load(files...); err != nil {
			return nil, err
		}
	} else {
		// Load .env file if it exists (ignore error if not found)
		_ = godotenv.Load()
	}

	return &Config{
		APIBaseURL:  getEnv("API_BASE_URL", DefaultAPIBaseURL),
		StorageType: getEnv("STORAGE_TYPE", "sqlite"),
		SQLitePath:  getEnv("SQLITE_PATH", "./repositories.db"),
		PostgresURL: getEnv("POSTGRES_URL", ""),
		APIPort:     getEnv("API_PORT", "8080"),
		APIHost:     getEnv("API_HOST", "localhost"),
		APIEndpoint: getEnv("API_ENDPOINT", "http://localhost:8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}, nil
}

// getEnv returns the value of an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Validate validates the configuration
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return &ConfigError{Field: "API_BASE_URL", Message: "must be an absolute URL"}
	}
	if c.StorageType != "sqlite" && c.StorageType != "postgres" {
		return &ConfigError{Field: "STORAGE_TYPE", Message: "must be 'sqlite' or 'postgres'"}
	}
	if c.StorageType == "sqlite" && strings.TrimSpace(c.SQLitePath) == "" {
		return &ConfigError{Field: "SQLITE_PATH", Message: "SQLite path is required when STORAGE_TYPE is 'sqlite'"}
	}
	if c.StorageType == "postgres" && c.PostgresURL == "" {
		return &ConfigError{Field: "POSTGRES_URL", Message: "PostgreSQL URL is required when STORAGE_TYPE is 'postgres'"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
