package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pam-ai/pamgate/internal/core/constants"
	"github.com/pam-ai/pamgate/internal/core/domain"
)

func newTestLoader(t *testing.T, dir string, environ ...string) *Loader {
	t.Helper()
	l := NewLoader(dir)
	l.environ = func() []string { return environ }
	return l
}

func writeConfig(t *testing.T, dir, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o600))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, DefaultHost, cfg.Server.Host)
	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.Equal(t, "localhost:19842", cfg.Server.GetAddress())

	assert.Equal(t, constants.DefaultPrimaryModel, cfg.Models.Primary)
	assert.Equal(t, constants.DefaultFallbackModels, cfg.Models.Fallbacks)

	assert.True(t, cfg.Routing.Enabled)
	assert.True(t, cfg.Routing.RequireTools)
	assert.Equal(t, 100, cfg.Routing.HistorySize)
	assert.Equal(t, 60*time.Second, cfg.Routing.UnhealthyDuration)

	assert.True(t, cfg.Safety.ValidatorEnabled)
	assert.Equal(t, 3*time.Second, cfg.Safety.Timeout)
	assert.Equal(t, 3, cfg.Safety.CircuitThreshold)
	assert.Equal(t, 60*time.Second, cfg.Safety.OpenDuration)
	assert.Equal(t, 100, cfg.Safety.PreviewLength)

	assert.Equal(t, "info", cfg.Logging.Level)
	require.NoError(t, cfg.Validate())
}

func TestDefaultConfig_DoesNotShareSlices(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Models.Fallbacks[0] = "mutated"

	assert.NotEqual(t, "mutated", constants.DefaultFallbackModels[0])
}

func TestLoad_WithoutFile(t *testing.T) {
	cfg, err := newTestLoader(t, t.TempDir()).Load()
	require.NoError(t, err)

	assert.Empty(t, cfg.Filename)
	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.Equal(t, constants.DefaultPrimaryModel, cfg.Models.Primary)
	assert.Equal(t, constants.DefaultFallbackModels, cfg.Models.Fallbacks)
	assert.Equal(t, constants.DefaultComplexPreferences, cfg.Routing.ComplexPreferences)
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
server:
  port: 9000
  rate_limits:
    per_ip_requests_per_minute: 30
models:
  primary: gpt-5
  fallbacks:
    - claude-haiku-4-5
routing:
  enabled: false
  unhealthy_duration: 2m
safety:
  provider: gemini
  timeout: 1500ms
  allow_list:
    - '\bshow me the old itinerary\b'
`)

	cfg, err := newTestLoader(t, dir).Load()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "config.yaml"), cfg.Filename)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 30, cfg.Server.RateLimits.PerIPRequestsPerMinute)
	assert.Equal(t, 50, cfg.Server.RateLimits.BurstSize, "untouched keys keep their defaults")
	assert.Equal(t, "gpt-5", cfg.Models.Primary)
	assert.Equal(t, []string{"claude-haiku-4-5"}, cfg.Models.Fallbacks)
	assert.False(t, cfg.Routing.Enabled)
	assert.Equal(t, 2*time.Minute, cfg.Routing.UnhealthyDuration)
	assert.Equal(t, "gemini", cfg.Safety.Provider)
	assert.Equal(t, 1500*time.Millisecond, cfg.Safety.Timeout)
	assert.Equal(t, []string{`\bshow me the old itinerary\b`}, cfg.Safety.AllowList)
}

func TestLoad_PrefixedEnvironment(t *testing.T) {
	t.Setenv("PAMGATE_SERVER_PORT", "8080")
	t.Setenv("PAMGATE_SAFETY_VALIDATOR_ENABLED", "false")
	t.Setenv("PAMGATE_SAFETY_OPEN_DURATION", "90s")
	t.Setenv("PAMGATE_LOGGING_LEVEL", "debug")

	cfg, err := newTestLoader(t, t.TempDir()).Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.False(t, cfg.Safety.ValidatorEnabled)
	assert.Equal(t, 90*time.Second, cfg.Safety.OpenDuration)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_ModelChainEnvironment(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
models:
  primary: gpt-5
  fallbacks: [claude-haiku-4-5, gpt-4o]
`)

	t.Run("overrides file", func(t *testing.T) {
		cfg, err := newTestLoader(t, dir,
			"PRIMARY_MODEL=gemini-2.5-pro",
			"FALLBACK_MODEL_2=gpt-4o-mini",
			"FALLBACK_MODEL_1=claude-sonnet-4-5",
		).Load()
		require.NoError(t, err)

		assert.Equal(t, "gemini-2.5-pro", cfg.Models.Primary)
		assert.Equal(t, []string{"claude-sonnet-4-5", "gpt-4o-mini"}, cfg.Models.Fallbacks)
	})

	t.Run("primary only keeps file fallbacks", func(t *testing.T) {
		cfg, err := newTestLoader(t, dir, "PRIMARY_MODEL=gpt-4o").Load()
		require.NoError(t, err)

		assert.Equal(t, "gpt-4o", cfg.Models.Primary)
		assert.Equal(t, []string{"claude-haiku-4-5", "gpt-4o"}, cfg.Models.Fallbacks)
	})

	t.Run("blank keys leave file chain", func(t *testing.T) {
		cfg, err := newTestLoader(t, dir, "PRIMARY_MODEL=", "FALLBACK_MODEL_1=  ").Load()
		require.NoError(t, err)

		assert.Equal(t, "gpt-5", cfg.Models.Primary)
		assert.Equal(t, []string{"claude-haiku-4-5", "gpt-4o"}, cfg.Models.Fallbacks)
	})
}

func TestLoad_ExplicitConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 7000\n"), 0o600))
	t.Setenv(ConfigFileEnv, path)

	cfg, err := newTestLoader(t, t.TempDir()).Load()
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, path, cfg.Filename)
}

func TestLoad_MissingExplicitConfigFile(t *testing.T) {
	t.Setenv(ConfigFileEnv, filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := newTestLoader(t, t.TempDir()).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.yaml")
}

func TestLoad_Reload(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "models:\n  primary: gpt-5\n")
	loader := newTestLoader(t, dir)

	cfg, err := loader.Load()
	require.NoError(t, err)
	require.Equal(t, "gpt-5", cfg.Models.Primary)

	writeConfig(t, dir, "models:\n  primary: claude-haiku-4-5\n")
	cfg, err = loader.Load()
	require.NoError(t, err)
	assert.Equal(t, "claude-haiku-4-5", cfg.Models.Primary)
}

func TestLoad_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "server: [not, a, map")

	_, err := newTestLoader(t, dir).Load()
	require.Error(t, err)
}

func TestConfigValidation(t *testing.T) {
	testCases := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"default config is valid", func(*Config) {}, ""},
		{"port too low", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"negative history", func(c *Config) { c.Routing.HistorySize = -1 }, "routing.history_size"},
		{"negative timeout", func(c *Config) { c.Safety.Timeout = -time.Second }, "safety.timeout"},
		{"unknown provider", func(c *Config) { c.Safety.Provider = "bedrock" }, "safety.provider"},
		{"unknown provider ignored when disabled", func(c *Config) {
			c.Safety.Provider = "bedrock"
			c.Safety.ValidatorEnabled = false
		}, ""},
		{"negative rps", func(c *Config) { c.Safety.RequestsPerSecond = -1 }, "safety.requests_per_second"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.modify(cfg)

			err := cfg.Validate()
			if tc.field == "" {
				require.NoError(t, err)
				return
			}

			var validationErr *domain.ConfigValidationError
			require.True(t, errors.As(err, &validationErr))
			assert.Equal(t, tc.field, validationErr.Field)
		})
	}
}

func TestSafetyConfig_APIKey(t *testing.T) {
	t.Setenv("PAMGATE_TEST_VALIDATOR_KEY", "sk-123")

	assert.Equal(t, "sk-123", SafetyConfig{APIKeyEnv: "PAMGATE_TEST_VALIDATOR_KEY"}.APIKey())
	assert.Empty(t, SafetyConfig{}.APIKey())
}
