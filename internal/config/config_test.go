package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProductionConfig() *Config {
	return &Config{
		Port:       "5000",
		JWTSecret:  strings.Repeat("s", 32),
		UploadDir:  "uploads",
		DBPassword: "a-strong-password",
		DBSSLMode:  "require",
		Env:        "production",
	}
}

func TestValidateRequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing port", func(c *Config) { c.Port = "" }},
		{"missing jwt secret", func(c *Config) { c.JWTSecret = "" }},
		{"missing upload dir", func(c *Config) { c.UploadDir = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validProductionConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateProductionHardening(t *testing.T) {
	t.Run("valid production config passes", func(t *testing.T) {
		require.NoError(t, validProductionConfig().Validate())
	})

	t.Run("default jwt secret rejected", func(t *testing.T) {
		cfg := validProductionConfig()
		cfg.JWTSecret = "your-secret-key-change-in-production"
		assert.Error(t, cfg.Validate())
	})

	t.Run("short jwt secret rejected", func(t *testing.T) {
		cfg := validProductionConfig()
		cfg.JWTSecret = "too-short"
		assert.Error(t, cfg.Validate())
	})

	t.Run("default db password rejected", func(t *testing.T) {
		cfg := validProductionConfig()
		cfg.DBPassword = "password"
		assert.Error(t, cfg.Validate())
	})

	t.Run("development tolerates weak values", func(t *testing.T) {
		cfg := validProductionConfig()
		cfg.Env = "development"
		cfg.JWTSecret = "dev-secret"
		cfg.DBPassword = "password"
		assert.NoError(t, cfg.Validate())
	})
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "linkup", cfg.DBName)
	assert.Equal(t, "development", cfg.Env)
	assert.NotEmpty(t, cfg.JWTSecret)
	assert.Equal(t, "stdout", cfg.TracingExporter)
	assert.InDelta(t, 1.0, cfg.SamplerRatio, 0.0001)
}
