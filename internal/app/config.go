package app

import (
	"github.com/pam-ai/pamgate/internal/adapter/health"
	"github.com/pam-ai/pamgate/internal/adapter/registry"
	"github.com/pam-ai/pamgate/internal/adapter/routing"
	"github.com/pam-ai/pamgate/internal/adapter/safety"
	"github.com/pam-ai/pamgate/internal/adapter/validator"
	"github.com/pam-ai/pamgate/internal/config"
)

func trackerConfiguration(cfg *config.Config) health.TrackerConfig {
	return health.TrackerConfig{
		UnhealthyDuration: cfg.Routing.UnhealthyDuration,
		FailureThreshold:  cfg.Routing.FailureThreshold,
		FailureCooldown:   cfg.Routing.FailureCooldown,
	}
}

func chainConfiguration(cfg *config.Config) registry.ChainConfig {
	return registry.ChainConfig{
		Primary:   cfg.Models.Primary,
		Fallbacks: append([]string(nil), cfg.Models.Fallbacks...),
	}
}

func routingConfiguration(cfg *config.Config) routing.Config {
	return routing.NewConfig(
		cfg.Routing.Enabled,
		cfg.Routing.RequireTools,
		cfg.Routing.MediumPreferences,
		cfg.Routing.ComplexPreferences,
		cfg.Routing.UnhealthyDuration,
	)
}

func gateConfiguration(cfg *config.Config) safety.GateConfig {
	return safety.GateConfig{
		AllowList:        append([]string(nil), cfg.Safety.AllowList...),
		Timeout:          cfg.Safety.Timeout,
		OpenDuration:     cfg.Safety.OpenDuration,
		CircuitThreshold: cfg.Safety.CircuitThreshold,
		PreviewLength:    cfg.Safety.PreviewLength,
		ValidatorEnabled: cfg.Safety.ValidatorEnabled,
	}
}

// validatorConfiguration leaves HTTPTimeout unset, the gate owns the deadline
func validatorConfiguration(cfg *config.Config, apiKey string) validator.Config {
	return validator.Config{
		Provider:          cfg.Safety.Provider,
		Endpoint:          cfg.Safety.Endpoint,
		Model:             cfg.Safety.Model,
		APIKey:            apiKey,
		RequestsPerSecond: cfg.Safety.RequestsPerSecond,
	}
}
