package config

import (
	"fmt"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	Filename string        `yaml:"-" mapstructure:"-"`
	Logging  LoggingConfig `yaml:"logging" mapstructure:"logging"`
	Models   ModelsConfig  `yaml:"models" mapstructure:"models"`
	Routing  RoutingConfig `yaml:"routing" mapstructure:"routing"`
	Safety   SafetyConfig  `yaml:"safety" mapstructure:"safety"`
	Server   ServerConfig  `yaml:"server" mapstructure:"server"`
	Metrics  MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string              `yaml:"host" mapstructure:"host"`
	RateLimits      ServerRateLimits    `yaml:"rate_limits" mapstructure:"rate_limits"`
	RequestLimits   ServerRequestLimits `yaml:"request_limits" mapstructure:"request_limits"`
	Port            int                 `yaml:"port" mapstructure:"port"`
	ReadTimeout     time.Duration       `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout    time.Duration       `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout     time.Duration       `yaml:"idle_timeout" mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration       `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
	RequestLogging  bool                `yaml:"request_logging" mapstructure:"request_logging"`
}

// GetAddress returns the server address in host:port format
func (s *ServerConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ServerRequestLimits defines request size limits
type ServerRequestLimits struct {
	MaxBodySize   int64 `yaml:"max_body_size" mapstructure:"max_body_size"`
	MaxHeaderSize int64 `yaml:"max_header_size" mapstructure:"max_header_size"`
}

// ServerRateLimits defines rate limiting configuration
type ServerRateLimits struct {
	GlobalRequestsPerMinute int           `yaml:"global_requests_per_minute" mapstructure:"global_requests_per_minute"`
	PerIPRequestsPerMinute  int           `yaml:"per_ip_requests_per_minute" mapstructure:"per_ip_requests_per_minute"`
	BurstSize               int           `yaml:"burst_size" mapstructure:"burst_size"`
	HealthRequestsPerMinute int           `yaml:"health_requests_per_minute" mapstructure:"health_requests_per_minute"`
	CleanupInterval         time.Duration `yaml:"cleanup_interval" mapstructure:"cleanup_interval"`
	TrustProxyHeaders       bool          `yaml:"trust_proxy_headers" mapstructure:"trust_proxy_headers"`
}

// ModelsConfig is the primary/fallback chain plus an optional catalog override
type ModelsConfig struct {
	Primary     string   `yaml:"primary" mapstructure:"primary"`
	CatalogFile string   `yaml:"catalog_file" mapstructure:"catalog_file"`
	Fallbacks   []string `yaml:"fallbacks" mapstructure:"fallbacks"`
}

// RoutingConfig holds the router tunables
type RoutingConfig struct {
	MediumPreferences  []string      `yaml:"medium_preferences" mapstructure:"medium_preferences"`
	ComplexPreferences []string      `yaml:"complex_preferences" mapstructure:"complex_preferences"`
	UnhealthyDuration  time.Duration `yaml:"unhealthy_duration" mapstructure:"unhealthy_duration"`
	FailureCooldown    time.Duration `yaml:"failure_cooldown" mapstructure:"failure_cooldown"`
	FailureThreshold   int           `yaml:"failure_threshold" mapstructure:"failure_threshold"`
	HistorySize        int           `yaml:"history_size" mapstructure:"history_size"`
	Enabled            bool          `yaml:"enabled" mapstructure:"enabled"`
	RequireTools       bool          `yaml:"require_tools" mapstructure:"require_tools"`
}

// SafetyConfig holds the safety gate and stage 2 validator settings. The API
// key itself is never stored in the file, only the variable holding it.
type SafetyConfig struct {
	Provider          string        `yaml:"provider" mapstructure:"provider"`
	Endpoint          string        `yaml:"endpoint" mapstructure:"endpoint"`
	Model             string        `yaml:"model" mapstructure:"model"`
	APIKeyEnv         string        `yaml:"api_key_env" mapstructure:"api_key_env"`
	AllowList         []string      `yaml:"allow_list" mapstructure:"allow_list"`
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"`
	OpenDuration      time.Duration `yaml:"open_duration" mapstructure:"open_duration"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	CircuitThreshold  int           `yaml:"circuit_threshold" mapstructure:"circuit_threshold"`
	PreviewLength     int           `yaml:"preview_length" mapstructure:"preview_length"`
	ValidatorEnabled  bool          `yaml:"validator_enabled" mapstructure:"validator_enabled"`
}

// MetricsConfig toggles the Prometheus endpoint
type MetricsConfig struct {
	Path    string `yaml:"path" mapstructure:"path"`
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
	Output string `yaml:"output" mapstructure:"output"`
}
