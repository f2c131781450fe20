package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"HANDCOACH_API_KEY", "HANDCOACH_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY",
		"HANDCOACH_ENDPOINT", "HANDCOACH_MODEL", "HANDCOACH_LOCALE",
		"HANDCOACH_LOG_LEVEL", "HANDCOACH_PORT",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "handcoach.hcl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 120*time.Second, cfg.AnalysisTimeout())
	assert.Equal(t, "localhost:8090", cfg.GetServerAddress())
	assert.Equal(t, log.InfoLevel, cfg.LogLevel())
}

func TestLoadBackfillsPartialFile(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, `
analysis {
  model   = "claude-sonnet-4-0"
  timeout = 30
}

ui {
  locale = "en"
}
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "claude-sonnet-4-0", cfg.Analysis.Model)
	assert.Equal(t, 30*time.Second, cfg.AnalysisTimeout())
	assert.Equal(t, "https://api.anthropic.com", cfg.Analysis.Endpoint)
	assert.Equal(t, 4096, cfg.Analysis.MaxTokens)
	assert.Equal(t, "en", cfg.UI.Locale)
	assert.Equal(t, "handcoach.log", cfg.UI.LogFile)
	assert.Equal(t, 8090, cfg.Server.Port)
	require.NoError(t, cfg.Validate())
}

func TestLoadRejectsBadHCL(t *testing.T) {
	clearEnv(t)

	_, err := Load(writeConfig(t, `analysis { model = `))
	assert.ErrorContains(t, err, "failed to parse HCL")

	_, err = Load(writeConfig(t, `analysis { colour = "red" }`))
	assert.ErrorContains(t, err, "failed to decode HCL")
}

func TestEnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ANTHROPIC_API_KEY", "fallback-key")
	t.Setenv("HANDCOACH_MODEL", "env-model")
	t.Setenv("HANDCOACH_PORT", "9100")
	t.Setenv("HANDCOACH_LOG_LEVEL", "debug")

	path := writeConfig(t, `server { port = 7000 }`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "fallback-key", cfg.APIKey)
	assert.Equal(t, "env-model", cfg.Analysis.Model)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, log.DebugLevel, cfg.LogLevel())

	t.Setenv("HANDCOACH_API_KEY", "primary-key")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "primary-key", cfg.APIKey)

	t.Setenv("HANDCOACH_PORT", "not-a-port")
	_, err = Load(path)
	assert.ErrorContains(t, err, "read environment")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"locale", func(c *Config) { c.UI.Locale = "fr" }, "unsupported locale"},
		{"log level", func(c *Config) { c.UI.LogLevel = "loud" }, "ui:"},
		{"port", func(c *Config) { c.Server.Port = 70000 }, "invalid port"},
		{"tokens", func(c *Config) { c.Analysis.MaxTokens = -1 }, "max_tokens"},
		{"timeout", func(c *Config) { c.Analysis.Timeout = -5 }, "timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.errMsg)
		})
	}
}
