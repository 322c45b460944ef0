package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Addr:               ":8080",
		Environment:        "test",
		APIBaseURL:         "http://localhost:4000",
		SessionSecret:      "test-secret",
		SessionTTL:         time.Hour,
		SessionBackend:     SessionBackendMemory,
		PageSize:           5,
		NavigateDelay:      2 * time.Second,
		MaxBodyBytes:       65536,
		RateLimitPerMinute: 60,
	}
}

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://api.internal:4000/")
	t.Setenv("PAGE_SIZE", "")
	t.Setenv("NAVIGATE_DELAY", "3")

	cfg := FromEnv()
	assert.Equal(t, "http://api.internal:4000", cfg.APIBaseURL)
	assert.Equal(t, 5, cfg.PageSize)
	assert.Equal(t, 3*time.Second, cfg.NavigateDelay)
	assert.Equal(t, SessionBackendMemory, cfg.SessionBackend)
	assert.Equal(t, 10*time.Minute, cfg.SweepInterval)
}

func TestFromEnvBadValuesFallBack(t *testing.T) {
	t.Setenv("PAGE_SIZE", "many")
	t.Setenv("METRICS_ENABLED", "maybe")
	t.Setenv("SESSION_TTL", "soon")

	cfg := FromEnv()
	assert.Equal(t, 5, cfg.PageSize)
	assert.True(t, cfg.MetricsEnabled)
	assert.Equal(t, 8*time.Hour, cfg.SessionTTL)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing api url", mutate: func(c *Config) { c.APIBaseURL = "" }, wantErr: true},
		{name: "non http api url", mutate: func(c *Config) { c.APIBaseURL = "ftp://x" }, wantErr: true},
		{name: "postgres without dsn", mutate: func(c *Config) { c.SessionBackend = SessionBackendPostgres }, wantErr: true},
		{name: "postgres with dsn", mutate: func(c *Config) {
			c.SessionBackend = SessionBackendPostgres
			c.DatabaseURL = "postgres://localhost/portal"
		}},
		{name: "unknown backend", mutate: func(c *Config) { c.SessionBackend = "redis" }, wantErr: true},
		{name: "weak production secret", mutate: func(c *Config) { c.Environment = "production" }, wantErr: true},
		{name: "zero page size", mutate: func(c *Config) { c.PageSize = 0 }, wantErr: true},
		{name: "negative sweep interval", mutate: func(c *Config) { c.SweepInterval = -time.Second }, wantErr: true},
		{name: "tiny body limit", mutate: func(c *Config) { c.MaxBodyBytes = 10 }, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}
