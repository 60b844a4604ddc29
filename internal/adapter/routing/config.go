package routing

import (
	"time"

	"github.com/pam-ai/pamgate/internal/core/constants"
	"github.com/pam-ai/pamgate/internal/core/domain"
)

// Config holds the router tunables, swapped atomically on reload
type Config struct {
	MediumPreferences  []domain.ModelID
	ComplexPreferences []domain.ModelID
	UnhealthyDuration  time.Duration
	Enabled            bool
	RequireTools       bool
}

func DefaultConfig() Config {
	return Config{
		Enabled:            true,
		RequireTools:       true,
		MediumPreferences:  toModelIDs(constants.DefaultMediumPreferences),
		ComplexPreferences: toModelIDs(constants.DefaultComplexPreferences),
		UnhealthyDuration:  constants.DefaultUnhealthyDuration,
	}
}

// NewConfig converts the string ids read from configuration
func NewConfig(enabled, requireTools bool, medium, complex []string, unhealthy time.Duration) Config {
	cfg := DefaultConfig()
	cfg.Enabled = enabled
	cfg.RequireTools = requireTools
	if len(medium) > 0 {
		cfg.MediumPreferences = toModelIDs(medium)
	}
	if len(complex) > 0 {
		cfg.ComplexPreferences = toModelIDs(complex)
	}
	if unhealthy > 0 {
		cfg.UnhealthyDuration = unhealthy
	}
	return cfg
}
