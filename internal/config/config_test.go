package config

import (
	"strings"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv(EnvLineChannelAccessToken, "test_token")
	t.Setenv(EnvLineChannelSecret, "test_secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.LineChannelToken != "test_token" || cfg.LineChannelSecret != "test_secret" {
		t.Errorf("Unexpected credentials: %+v", cfg)
	}
	if cfg.Port != "5000" {
		t.Errorf("Expected default port 5000, got %q", cfg.Port)
	}
	if cfg.MaxMessagesPerReply != 5 {
		t.Errorf("Expected 5 messages per reply, got %d", cfg.MaxMessagesPerReply)
	}
	if cfg.ShutdownTimeout != 30*time.Second {
		t.Errorf("Expected 30s shutdown timeout, got %v", cfg.ShutdownTimeout)
	}
	if cfg.StationLookupEnabled() {
		t.Error("Expected station lookup disabled by default")
	}
	if cfg.MetricsAuthEnabled() {
		t.Error("Expected metrics auth disabled by default")
	}
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv(EnvPort, "8080")
	t.Setenv(EnvMaxMessagesPerReply, "3")
	t.Setenv(EnvGlobalRateRPS, "2.5")
	t.Setenv(EnvStationAPIURL, "https://express.heartrails.com/api/json")
	t.Setenv(EnvStationLookupTimeout, "3s")
	t.Setenv(EnvMetricsPassword, "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Port != "8080" || cfg.MaxMessagesPerReply != 3 || cfg.GlobalRateLimitRPS != 2.5 {
		t.Errorf("Overrides not applied: %+v", cfg)
	}
	if !cfg.StationLookupEnabled() || cfg.StationLookupTimeout != 3*time.Second {
		t.Errorf("Station settings not applied: %+v", cfg)
	}
	if !cfg.MetricsAuthEnabled() {
		t.Error("Expected metrics auth enabled")
	}
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	setRequired(t)
	t.Setenv(EnvMaxMessagesPerReply, "five")
	t.Setenv(EnvShutdownTimeout, "soon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.MaxMessagesPerReply != 5 || cfg.ShutdownTimeout != GracefulShutdown {
		t.Errorf("Expected defaults for unparsable values, got %+v", cfg)
	}
}

func TestLoad_MissingCredentials(t *testing.T) {
	t.Setenv(EnvLineChannelAccessToken, "")
	t.Setenv(EnvLineChannelSecret, "")

	_, err := Load()
	if err == nil {
		t.Fatal("Expected error without credentials")
	}
	for _, want := range []string{EnvLineChannelAccessToken, EnvLineChannelSecret} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Expected error to mention %s, got %v", want, err)
		}
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := func() Config {
		return Config{
			LineChannelToken:     "token",
			LineChannelSecret:    "secret",
			Port:                 "5000",
			ShutdownTimeout:      time.Second,
			MaxMessagesPerReply:  5,
			GlobalRateLimitRPS:   100,
			StationLookupTimeout: time.Second,
		}
	}

	tests := []struct {
		name        string
		mutate      func(*Config)
		errContains string
	}{
		{"valid", func(*Config) {}, ""},
		{"empty port", func(c *Config) { c.Port = "" }, EnvPort},
		{"zero messages", func(c *Config) { c.MaxMessagesPerReply = 0 }, EnvMaxMessagesPerReply},
		{"too many messages", func(c *Config) { c.MaxMessagesPerReply = 6 }, EnvMaxMessagesPerReply},
		{"zero rps", func(c *Config) { c.GlobalRateLimitRPS = 0 }, EnvGlobalRateRPS},
		{"relative station url", func(c *Config) { c.StationAPIURL = "/api/json" }, EnvStationAPIURL},
		{"station timeout", func(c *Config) {
			c.StationAPIURL = "https://example.com/api"
			c.StationLookupTimeout = 0
		}, EnvStationLookupTimeout},
		{"sentry without host", func(c *Config) { c.SentryToken = "tok" }, EnvSentryHost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()

			if tt.errContains == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.errContains)
			}
		})
	}
}
