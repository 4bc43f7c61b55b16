package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"merchhold/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database  DatabaseConfig
	Server    ServerConfig
	Resources ResourceConfig
	Search    SearchConfig
}

// DatabaseConfig holds database connection settings. An empty URL
// means the in-memory stores are used instead of Postgres.
type DatabaseConfig struct {
	URL string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// ResourceConfig holds the spreadsheet files linked per resource kind
type ResourceConfig struct {
	HoldFile string
	RMFile   string
}

// SearchConfig holds search behavior settings
type SearchConfig struct {
	ResultCap int
}

// Load reads configuration from the environment (and a .env file when
// present) and validates it.
func Load() (*Config, error) {
	// Missing .env is fine; real environments set variables directly.
	_ = godotenv.Load()

	config := &Config{
		Database: DatabaseConfig{
			URL: getEnvOrDefault("DATABASE_URL", ""),
		},
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Resources: ResourceConfig{
			HoldFile: getEnvOrDefault("HOLD_FILE", ""),
			RMFile:   getEnvOrDefault("RM_FILE", ""),
		},
		Search: SearchConfig{
			ResultCap: getEnvIntOrDefault("SEARCH_RESULT_CAP", 20),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Search.ResultCap <= 0 {
		return errors.ConfigInvalid("SEARCH_RESULT_CAP must be positive")
	}
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT must not be empty")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
