package cacheinfra

import "time"

// Config holds the configuration for the in-process cache adapter.
type Config struct {
	// EvictionInterval sets how often the background janitor sweeps
	// expired entries. Expiration is always evaluated lazily at Get time,
	// so the janitor is an optimization that bounds memory held by
	// entries nobody reads again. Zero disables it.
	EvictionInterval time.Duration

	// Clock returns the current time. Nil means time.Now. Tests inject a
	// fake clock to drive expiration deterministically.
	Clock func() time.Time
}

// DefaultConfig returns a Config with sensible defaults for most use cases.
func DefaultConfig() Config {
	return Config{
		EvictionInterval: time.Minute,
	}
}

// Validate checks if the configuration values are valid.
func (c Config) Validate() error {
	if c.EvictionInterval < 0 {
		return &ConfigError{Field: "EvictionInterval", Message: "must be non-negative"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}
