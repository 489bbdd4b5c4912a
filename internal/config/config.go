package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server
	Port int
	Env  string

	// NATS
	NATSURL string

	// Session lifecycle
	SessionTTL time.Duration

	// Repository workspace
	WorkspaceDir string

	// GitHub
	GitHubToken string

	// Upper bound on inline source accepted for analysis
	MaxSourceBytes int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:           getEnvInt("PORT", 8080),
		Env:            getEnv("ENV", "development"),
		NATSURL:        getEnv("NATS_URL", "nats://localhost:4222"),
		SessionTTL:     getEnvDuration("SESSION_TTL", time.Hour),
		WorkspaceDir:   getEnv("WORKSPACE_DIR", "/tmp/testlens-workspaces"),
		GitHubToken:    getEnv("GITHUB_TOKEN", ""),
		MaxSourceBytes: getEnvInt("MAX_SOURCE_BYTES", 1<<20),
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	if c.MaxSourceBytes <= 0 {
		return fmt.Errorf("MAX_SOURCE_BYTES must be positive, got %d", c.MaxSourceBytes)
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
