package handlers

import (
	"net/http"
	"time"

	"github.com/pam-ai/pamgate/internal/adapter/safety"
	"github.com/pam-ai/pamgate/internal/core/domain"
	"github.com/pam-ai/pamgate/pkg/format"
)

type ModelStatus struct {
	domain.ModelHealth
	RecoversIn string `json:"recovers_in,omitempty"`
}

type ModelsStatusResponse struct {
	Timestamp    time.Time        `json:"timestamp"`
	Primary      domain.ModelID   `json:"primary"`
	Active       domain.ModelID   `json:"active"`
	Fallbacks    []domain.ModelID `json:"fallbacks"`
	Models       []ModelStatus    `json:"models"`
	HealthyCount int              `json:"healthy_count"`
	TotalModels  int              `json:"total_models"`
}

type SafetyStatusResponse struct {
	Timestamp        time.Time            `json:"timestamp"`
	Circuit          domain.CircuitStatus `json:"circuit"`
	Timeout          string               `json:"timeout,omitempty"`
	AllowListEntries int                  `json:"allow_list_entries"`
	ValidatorEnabled bool                 `json:"validator_enabled"`
}

// gateConfigProvider is satisfied by the concrete gate, fakes may skip it
type gateConfigProvider interface {
	Config() safety.GateConfig
}

func (a *Application) modelsStatusHandler(w http.ResponseWriter, r *http.Request) {
	now := a.clock()
	snapshot := a.registry.HealthSnapshot()

	response := ModelsStatusResponse{
		Timestamp:   now,
		Primary:     a.registry.GetPrimary().ID,
		Active:      a.registry.GetHealthy().ID,
		Fallbacks:   make([]domain.ModelID, 0, len(a.registry.GetFallbackChain())),
		Models:      make([]ModelStatus, 0, len(snapshot)),
		TotalModels: len(snapshot),
	}

	for _, fallback := range a.registry.GetFallbackChain() {
		response.Fallbacks = append(response.Fallbacks, fallback.ID)
	}

	for _, health := range snapshot {
		status := ModelStatus{ModelHealth: health}
		if health.Healthy {
			response.HealthyCount++
		} else if health.UnhealthyUntil != nil {
			status.RecoversIn = format.TimeUntil(*health.UnhealthyUntil, now)
		}
		response.Models = append(response.Models, status)
	}

	a.writeJSON(w, http.StatusOK, response)
}

func (a *Application) safetyStatusHandler(w http.ResponseWriter, r *http.Request) {
	response := SafetyStatusResponse{
		Timestamp: a.clock(),
		Circuit:   a.gate.CircuitStatus(),
	}

	if provider, ok := a.gate.(gateConfigProvider); ok {
		cfg := provider.Config()
		response.ValidatorEnabled = cfg.ValidatorEnabled
		response.AllowListEntries = len(cfg.AllowList)
		response.Timeout = format.Duration(cfg.Timeout)
	}

	a.writeJSON(w, http.StatusOK, response)
}
