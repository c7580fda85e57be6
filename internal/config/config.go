// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// DefaultUsersURL is the public users endpoint the directory is built against.
const DefaultUsersURL = "https://jsonplaceholder.typicode.com/users"

// Config holds the directory service settings.
type Config struct {
	Port             string
	UsersURL         string
	FetchTimeout     time.Duration
	CacheTTL         time.Duration
	RefreshPerMinute int
	LogLevel         string
	OTLPEndpoint     string
	ChaosFailureRate float64
	ChaosLatency     time.Duration
	ChaosJitter      time.Duration
}

// Load reads the configuration from the environment, applying defaults for
// anything unset. Malformed values are reported rather than silently ignored.
func Load() (*Config, error) {
	cfg := &Config{
		Port:         getEnv("PORT", "8084"),
		UsersURL:     getEnv("USERS_API_URL", DefaultUsersURL),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	var err error
	if cfg.FetchTimeout, err = getDuration("FETCH_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = getDuration("CACHE_TTL", 0); err != nil {
		return nil, err
	}
	if cfg.ChaosLatency, err = getDuration("CHAOS_LATENCY", 0); err != nil {
		return nil, err
	}
	if cfg.ChaosJitter, err = getDuration("CHAOS_JITTER", 0); err != nil {
		return nil, err
	}
	if cfg.RefreshPerMinute, err = getInt("REFRESH_PER_MINUTE", 5); err != nil {
		return nil, err
	}
	if cfg.ChaosFailureRate, err = getFloat("CHAOS_FAILURE_RATE", 0); err != nil {
		return nil, err
	}
	if cfg.ChaosFailureRate < 0 || cfg.ChaosFailureRate > 1 {
		return nil, fmt.Errorf("CHAOS_FAILURE_RATE must be within [0, 1], got %v", cfg.ChaosFailureRate)
	}
	if cfg.RefreshPerMinute <= 0 {
		return nil, fmt.Errorf("REFRESH_PER_MINUTE must be positive, got %d", cfg.RefreshPerMinute)
	}

	return cfg, nil
}

// ChaosEnabled reports whether any fault injection is configured.
func (c *Config) ChaosEnabled() bool {
	return c.ChaosFailureRate > 0 || c.ChaosLatency > 0 || c.ChaosJitter > 0
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}

func getFloat(key string, defaultValue float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return f, nil
}
