// Package config loads service configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// Server configuration
	ServerAddress   string
	ShutdownTimeout time.Duration

	// Storage
	DatabaseDSN string

	// Authentication
	JWTSecret string
	JWTIssuer string

	// Cache
	CacheEvictionInterval time.Duration

	// Logging
	Environment string
	LogLevel    string
}

// Load reads configuration from environment variables, applying defaults
// where a variable is unset.
func Load() (*Config, error) {
	cfg := &Config{
		ServerAddress:   getEnv("SERVER_ADDRESS", ":8080"),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		DatabaseDSN: getEnv("DATABASE_DSN", "file:logitrack.db?cache=shared&_fk=1"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTIssuer: getEnv("JWT_ISSUER", "logitrack"),

		CacheEvictionInterval: getEnvDuration("CACHE_EVICTION_INTERVAL", time.Minute),

		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.JWTSecret == "" && c.IsProduction() {
		return fmt.Errorf("JWT_SECRET is required in production")
	}
	if c.DatabaseDSN == "" {
		return fmt.Errorf("DATABASE_DSN must not be empty")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

// IsDevelopment checks if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration gets a duration environment variable with a default value.
// Accepts Go duration syntax ("30s") or a bare number of seconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
