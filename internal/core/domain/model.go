package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/pam-ai/pamgate/internal/core/constants"
)

// ModelID is the stable identifier of a backend model, unique within the registry
type ModelID string

func (id ModelID) String() string {
	return string(id)
}

func (id ModelID) IsEmpty() bool {
	return strings.TrimSpace(string(id)) == ""
}

type Provider int

const (
	ProviderUnknown Provider = iota
	ProviderAnthropic
	ProviderOpenAI
	ProviderGoogle
	ProviderOpenRouter
)

func (p Provider) String() string {
	switch p {
	case ProviderAnthropic:
		return constants.ProviderTypeAnthropic
	case ProviderOpenAI:
		return constants.ProviderTypeOpenAI
	case ProviderGoogle:
		return constants.ProviderTypeGoogle
	case ProviderOpenRouter:
		return constants.ProviderTypeOpenRouter
	default:
		return "unknown"
	}
}

func (p Provider) DisplayName() string {
	switch p {
	case ProviderAnthropic:
		return constants.ProviderDisplayAnthropic
	case ProviderOpenAI:
		return constants.ProviderDisplayOpenAI
	case ProviderGoogle:
		return constants.ProviderDisplayGoogle
	case ProviderOpenRouter:
		return constants.ProviderDisplayOpenRouter
	default:
		return "Unknown"
	}
}

func ParseProvider(s string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case constants.ProviderTypeAnthropic:
		return ProviderAnthropic, nil
	case constants.ProviderTypeOpenAI:
		return ProviderOpenAI, nil
	case constants.ProviderTypeGoogle, "gemini":
		return ProviderGoogle, nil
	case constants.ProviderTypeOpenRouter:
		return ProviderOpenRouter, nil
	default:
		return ProviderUnknown, fmt.Errorf("unknown provider %q", s)
	}
}

func (p Provider) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Provider) UnmarshalText(text []byte) error {
	parsed, err := ParseProvider(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ModelDescriptor is immutable once the catalog is loaded, always pass by value
type ModelDescriptor struct {
	ID                ModelID  `json:"id" yaml:"id"`
	Provider          Provider `json:"provider" yaml:"provider"`
	CostInPerMillion  float64  `json:"cost_in_per_million" yaml:"cost_in"`
	CostOutPerMillion float64  `json:"cost_out_per_million" yaml:"cost_out"`
	MaxContext        int      `json:"max_context" yaml:"max_context"`
	SupportsTools     bool     `json:"supports_tools" yaml:"supports_tools"`
	SupportsStreaming bool     `json:"supports_streaming" yaml:"supports_streaming"`
}

// TotalCost is the blended per-million price used to rank models by cost
func (m ModelDescriptor) TotalCost() float64 {
	return m.CostInPerMillion + m.CostOutPerMillion
}

func (m ModelDescriptor) IsZero() bool {
	return m.ID == ""
}

// HealthMark is a transient unhealthy window, it expires lazily on read once
// the window has fully elapsed
type HealthMark struct {
	UnhealthyUntil time.Time `json:"unhealthy_until"`
	ModelID        ModelID   `json:"model_id"`
	Reason         string    `json:"reason,omitempty"`
}

func (h HealthMark) Expired(now time.Time) bool {
	return !now.Before(h.UnhealthyUntil)
}

// ModelHealth is a point in time view of one model used by the status endpoints
type ModelHealth struct {
	UnhealthyUntil *time.Time `json:"unhealthy_until,omitempty"`
	ID             ModelID    `json:"id"`
	Provider       string     `json:"provider"`
	Role           string     `json:"role"`
	Healthy        bool       `json:"healthy"`
}

const (
	ModelRolePrimary  = "primary"
	ModelRoleFallback = "fallback"
	ModelRoleCatalog  = "catalog"
)
