package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/pam-ai/pamgate/internal/core/constants"
	"github.com/pam-ai/pamgate/internal/core/domain"
	"github.com/pam-ai/pamgate/internal/env"
)

const (
	DefaultPort = 19842
	DefaultHost = "localhost"

	EnvPrefix     = "PAMGATE"
	ConfigFileEnv = "PAMGATE_CONFIG_FILE"

	DefaultAPIKeyEnv = "OPENAI_API_KEY"
)

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            DefaultHost,
			Port:            DefaultPort,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RequestLogging:  true,
			RequestLimits: ServerRequestLimits{
				MaxBodySize:   1 << 20,
				MaxHeaderSize: 16 << 10,
			},
			RateLimits: ServerRateLimits{
				GlobalRequestsPerMinute: 6000,
				PerIPRequestsPerMinute:  600,
				BurstSize:               50,
				HealthRequestsPerMinute: 1000,
				CleanupInterval:         5 * time.Minute,
			},
		},
		Models: ModelsConfig{
			Primary:   constants.DefaultPrimaryModel,
			Fallbacks: append([]string(nil), constants.DefaultFallbackModels...),
		},
		Routing: RoutingConfig{
			Enabled:            true,
			RequireTools:       true,
			MediumPreferences:  append([]string(nil), constants.DefaultMediumPreferences...),
			ComplexPreferences: append([]string(nil), constants.DefaultComplexPreferences...),
			UnhealthyDuration:  constants.DefaultUnhealthyDuration,
			FailureThreshold:   constants.DefaultModelFailureThreshold,
			FailureCooldown:    constants.DefaultModelFailureCooldown,
			HistorySize:        constants.MaxPerformanceSamples,
		},
		Safety: SafetyConfig{
			ValidatorEnabled:  true,
			Provider:          constants.ValidatorProviderOpenAI,
			APIKeyEnv:         DefaultAPIKeyEnv,
			Timeout:           constants.DefaultValidatorTimeout,
			CircuitThreshold:  constants.DefaultCircuitFailureThreshold,
			OpenDuration:      constants.DefaultCircuitOpenDuration,
			RequestsPerSecond: constants.DefaultValidatorRPS,
			PreviewLength:     constants.DefaultPreviewLength,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// Loader owns a viper instance so a reload re-reads the same sources
type Loader struct {
	v       *viper.Viper
	environ func() []string
	mu      sync.Mutex
}

func NewLoader(searchPaths ...string) *Loader {
	if len(searchPaths) == 0 {
		searchPaths = []string{".", "./config"}
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, path := range searchPaths {
		v.AddConfigPath(path)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, DefaultConfig())

	return &Loader{v: v, environ: os.Environ}
}

// Load reads the file (if any), layers PAMGATE_ variables on top and finally
// applies PRIMARY_MODEL / FALLBACK_MODEL_N
func (l *Loader) Load() (*Config, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.readConfigFile(); err != nil {
		return nil, err
	}

	// decode into a zero value, pre-filled slices would be merged rather than replaced
	cfg := &Config{}
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.Filename = l.v.ConfigFileUsed()

	applyModelChain(cfg, env.ModelChainFromEnviron(l.environ()))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (l *Loader) readConfigFile() error {
	if configFile := os.Getenv(ConfigFileEnv); configFile != "" {
		l.v.SetConfigFile(configFile)
		if err := l.v.ReadInConfig(); err != nil {
			return fmt.Errorf("error reading config file %s: %w", configFile, err)
		}
		return nil
	}

	if err := l.v.ReadInConfig(); err != nil {
		// It's okay if config file doesn't exist
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

// Watch calls onChange with the re-read configuration whenever the config
// file is written. Returns false when no file is in use.
func (l *Loader) Watch(onChange func(*Config, error)) bool {
	if l.v.ConfigFileUsed() == "" {
		return false
	}

	l.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		onChange(l.Load())
	})
	l.v.WatchConfig()
	return true
}

func applyModelChain(cfg *Config, chain env.ModelChain) {
	if !chain.IsSet() {
		return
	}
	if chain.Primary != "" {
		cfg.Models.Primary = chain.Primary
	}
	if len(chain.Fallbacks) > 0 {
		cfg.Models.Fallbacks = chain.Fallbacks
	}
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("server.host", cfg.Server.Host)
	v.SetDefault("server.port", cfg.Server.Port)
	v.SetDefault("server.read_timeout", cfg.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", cfg.Server.WriteTimeout)
	v.SetDefault("server.idle_timeout", cfg.Server.IdleTimeout)
	v.SetDefault("server.shutdown_timeout", cfg.Server.ShutdownTimeout)
	v.SetDefault("server.request_logging", cfg.Server.RequestLogging)
	v.SetDefault("server.request_limits.max_body_size", cfg.Server.RequestLimits.MaxBodySize)
	v.SetDefault("server.request_limits.max_header_size", cfg.Server.RequestLimits.MaxHeaderSize)
	v.SetDefault("server.rate_limits.global_requests_per_minute", cfg.Server.RateLimits.GlobalRequestsPerMinute)
	v.SetDefault("server.rate_limits.per_ip_requests_per_minute", cfg.Server.RateLimits.PerIPRequestsPerMinute)
	v.SetDefault("server.rate_limits.burst_size", cfg.Server.RateLimits.BurstSize)
	v.SetDefault("server.rate_limits.health_requests_per_minute", cfg.Server.RateLimits.HealthRequestsPerMinute)
	v.SetDefault("server.rate_limits.cleanup_interval", cfg.Server.RateLimits.CleanupInterval)
	v.SetDefault("server.rate_limits.trust_proxy_headers", cfg.Server.RateLimits.TrustProxyHeaders)

	v.SetDefault("models.primary", cfg.Models.Primary)
	v.SetDefault("models.fallbacks", cfg.Models.Fallbacks)
	v.SetDefault("models.catalog_file", cfg.Models.CatalogFile)

	v.SetDefault("routing.enabled", cfg.Routing.Enabled)
	v.SetDefault("routing.require_tools", cfg.Routing.RequireTools)
	v.SetDefault("routing.medium_preferences", cfg.Routing.MediumPreferences)
	v.SetDefault("routing.complex_preferences", cfg.Routing.ComplexPreferences)
	v.SetDefault("routing.unhealthy_duration", cfg.Routing.UnhealthyDuration)
	v.SetDefault("routing.failure_threshold", cfg.Routing.FailureThreshold)
	v.SetDefault("routing.failure_cooldown", cfg.Routing.FailureCooldown)
	v.SetDefault("routing.history_size", cfg.Routing.HistorySize)

	v.SetDefault("safety.validator_enabled", cfg.Safety.ValidatorEnabled)
	v.SetDefault("safety.provider", cfg.Safety.Provider)
	v.SetDefault("safety.endpoint", cfg.Safety.Endpoint)
	v.SetDefault("safety.model", cfg.Safety.Model)
	v.SetDefault("safety.api_key_env", cfg.Safety.APIKeyEnv)
	v.SetDefault("safety.timeout", cfg.Safety.Timeout)
	v.SetDefault("safety.circuit_threshold", cfg.Safety.CircuitThreshold)
	v.SetDefault("safety.open_duration", cfg.Safety.OpenDuration)
	v.SetDefault("safety.requests_per_second", cfg.Safety.RequestsPerSecond)
	v.SetDefault("safety.allow_list", cfg.Safety.AllowList)
	v.SetDefault("safety.preview_length", cfg.Safety.PreviewLength)

	v.SetDefault("metrics.enabled", cfg.Metrics.Enabled)
	v.SetDefault("metrics.path", cfg.Metrics.Path)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.output", cfg.Logging.Output)
}

// Validate rejects values the services cannot run with
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return &domain.ConfigValidationError{Field: "server.port", Value: c.Server.Port, Reason: "must be between 1 and 65535"}
	}
	if c.Routing.HistorySize < 0 {
		return &domain.ConfigValidationError{Field: "routing.history_size", Value: c.Routing.HistorySize, Reason: "must not be negative"}
	}

	durations := map[string]time.Duration{
		"routing.unhealthy_duration": c.Routing.UnhealthyDuration,
		"routing.failure_cooldown":   c.Routing.FailureCooldown,
		"safety.timeout":             c.Safety.Timeout,
		"safety.open_duration":       c.Safety.OpenDuration,
	}
	for field, d := range durations {
		if d < 0 {
			return &domain.ConfigValidationError{Field: field, Value: d, Reason: "must not be negative"}
		}
	}

	if c.Safety.ValidatorEnabled {
		switch strings.ToLower(c.Safety.Provider) {
		case constants.ValidatorProviderOpenAI, constants.ValidatorProviderGemini:
		default:
			return &domain.ConfigValidationError{Field: "safety.provider", Value: c.Safety.Provider, Reason: "must be openai or gemini"}
		}
	}
	if c.Safety.RequestsPerSecond < 0 {
		return &domain.ConfigValidationError{Field: "safety.requests_per_second", Value: c.Safety.RequestsPerSecond, Reason: "must not be negative"}
	}
	return nil
}

// APIKey resolves the validator key from the configured variable
func (s SafetyConfig) APIKey() string {
	if s.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(s.APIKeyEnv)
}
