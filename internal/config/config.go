// Package config provides application configuration management.
// It loads settings from environment variables (after an optional .env file)
// and validates them before the server starts.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/garyellow/kitaku-linebot-go/internal/lineutil"
)

// Config holds all application configuration
type Config struct {
	// LINE Bot Configuration
	LineChannelToken  string
	LineChannelSecret string

	// Server Configuration
	Port            string
	LogLevel        string
	ShutdownTimeout time.Duration

	// Reply Configuration
	MaxMessagesPerReply int     // LINE accepts at most 5 messages per reply
	GlobalRateLimitRPS  float64 // Outbound reply calls per second

	// Station lookup (empty URL disables location handling)
	StationAPIURL        string
	StationLookupTimeout time.Duration

	// Metrics Authentication (empty password = no auth)
	MetricsUsername string
	MetricsPassword string

	// Sentry (Better Stack errors)
	SentryToken       string
	SentryHost        string
	SentryEnvironment string

	// Better Stack logs
	BetterStackToken    string
	BetterStackEndpoint string
}

// Load reads configuration from environment variables
// It attempts to load .env file first, then reads from env vars
func Load() (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		LineChannelToken:  getEnv(EnvLineChannelAccessToken, ""),
		LineChannelSecret: getEnv(EnvLineChannelSecret, ""),

		Port:            getEnv(EnvPort, "5000"),
		LogLevel:        getEnv(EnvLogLevel, "info"),
		ShutdownTimeout: getDurationEnv(EnvShutdownTimeout, GracefulShutdown),

		MaxMessagesPerReply: getIntEnv(EnvMaxMessagesPerReply, lineutil.MaxMessagesPerReply),
		GlobalRateLimitRPS:  getFloatEnv(EnvGlobalRateRPS, 100.0),

		StationAPIURL:        getEnv(EnvStationAPIURL, ""),
		StationLookupTimeout: getDurationEnv(EnvStationLookupTimeout, StationLookup),

		MetricsUsername: getEnv(EnvMetricsUsername, "prometheus"),
		MetricsPassword: getEnv(EnvMetricsPassword, ""),

		SentryToken:       getEnv(EnvSentryToken, ""),
		SentryHost:        getEnv(EnvSentryHost, ""),
		SentryEnvironment: getEnv(EnvSentryEnvironment, "production"),

		BetterStackToken:    getEnv(EnvBetterStackToken, ""),
		BetterStackEndpoint: getEnv(EnvBetterStackEndpoint, ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	var errs []error

	if c.LineChannelToken == "" {
		errs = append(errs, errors.New(EnvLineChannelAccessToken+" is required"))
	}
	if c.LineChannelSecret == "" {
		errs = append(errs, errors.New(EnvLineChannelSecret+" is required"))
	}
	if c.Port == "" {
		errs = append(errs, errors.New(EnvPort+" is required"))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvShutdownTimeout, c.ShutdownTimeout))
	}
	if c.MaxMessagesPerReply < 1 || c.MaxMessagesPerReply > lineutil.MaxMessagesPerReply {
		errs = append(errs, fmt.Errorf("%s must be between 1 and %d, got %d",
			EnvMaxMessagesPerReply, lineutil.MaxMessagesPerReply, c.MaxMessagesPerReply))
	}
	if c.GlobalRateLimitRPS <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvGlobalRateRPS, c.GlobalRateLimitRPS))
	}
	if c.StationAPIURL != "" {
		if u, err := url.Parse(c.StationAPIURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("%s must be an absolute URL, got %q", EnvStationAPIURL, c.StationAPIURL))
		}
		if c.StationLookupTimeout <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvStationLookupTimeout, c.StationLookupTimeout))
		}
	}
	if c.SentryToken != "" && c.SentryHost == "" {
		errs = append(errs, errors.New(EnvSentryHost+" is required when "+EnvSentryToken+" is set"))
	}

	return errors.Join(errs...)
}

// StationLookupEnabled reports whether location events trigger a lookup.
func (c *Config) StationLookupEnabled() bool {
	return c.StationAPIURL != ""
}

// MetricsAuthEnabled reports whether /metrics requires Basic Auth.
func (c *Config) MetricsAuthEnabled() bool {
	return c.MetricsPassword != ""
}

// getEnv retrieves environment variable with fallback to default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv retrieves integer environment variable with fallback to default value
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getDurationEnv retrieves duration environment variable with fallback to default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getFloatEnv retrieves float64 environment variable with fallback to default value
func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
