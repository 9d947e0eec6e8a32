package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DOCTORS_SOURCE_URL", "")
	t.Setenv("DOCTORS_FIXTURE_PATH", "")
	t.Setenv("REDIS_ENABLED", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultSourceURL, cfg.Source.URL)
	assert.Equal(t, "", cfg.Source.FixturePath)
	assert.Equal(t, 10*time.Second, cfg.Source.Timeout)
	assert.Equal(t, 3, cfg.Source.MaxAttempts)
	assert.Equal(t, 10*time.Minute, cfg.Source.CacheTTL)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
}

func TestLoad_SourceOverrides(t *testing.T) {
	t.Setenv("DOCTORS_SOURCE_URL", "http://feed.internal/doctors.json")
	t.Setenv("DOCTORS_FIXTURE_PATH", "testdata/doctors.yaml")
	t.Setenv("DOCTORS_SOURCE_TIMEOUT", "2s")
	t.Setenv("DOCTORS_SOURCE_MAX_ATTEMPTS", "5")
	t.Setenv("DOCTORS_SOURCE_CACHE_TTL", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://feed.internal/doctors.json", cfg.Source.URL)
	assert.Equal(t, "testdata/doctors.yaml", cfg.Source.FixturePath)
	assert.Equal(t, 2*time.Second, cfg.Source.Timeout)
	assert.Equal(t, 5, cfg.Source.MaxAttempts)
	assert.Equal(t, 10*time.Minute, cfg.Source.CacheTTL)
}

func TestLoad_RedisAndCORS(t *testing.T) {
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173, ,https://doctors.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "cache:6380", cfg.Redis.RedisAddr())
	assert.Equal(t, []string{"http://localhost:5173", "https://doctors.example.com"}, cfg.CORS.AllowedOrigins)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(*Config) {},
		},
		{
			name: "fixture only is enough",
			mutate: func(c *Config) {
				c.Source.URL = ""
				c.Source.FixturePath = "doctors.json"
			},
		},
		{
			name: "no source",
			mutate: func(c *Config) {
				c.Source.URL = ""
			},
			wantErr: "DOCTORS_SOURCE_URL",
		},
		{
			name: "zero attempts",
			mutate: func(c *Config) {
				c.Source.MaxAttempts = 0
			},
			wantErr: "MAX_ATTEMPTS",
		},
		{
			name: "bad port",
			mutate: func(c *Config) {
				c.Server.Port = 70000
			},
			wantErr: "SERVER_PORT",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{
				Server: ServerConfig{Port: 8080},
				Source: SourceConfig{URL: DefaultSourceURL, MaxAttempts: 1},
			}
			tc.mutate(cfg)

			err := cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
