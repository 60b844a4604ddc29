package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pam-ai/pamgate/internal/app/middleware"
	"github.com/pam-ai/pamgate/internal/core/domain"
)

type MessageRequest struct {
	Message    string `json:"message"`
	UserID     string `json:"user_id,omitempty"`
	SessionID  string `json:"session_id,omitempty"`
	ForceModel string `json:"force_model,omitempty"`
}

func (m MessageRequest) requestContext(r *http.Request) domain.RequestContext {
	return domain.RequestContext{
		UserID:    m.UserID,
		SessionID: m.SessionID,
		RequestID: middleware.GetRequestID(r.Context()),
	}
}

type AdmitResponse struct {
	Selection *domain.ModelSelection `json:"selection,omitempty"`
	Safety    domain.SafetyVerdict   `json:"safety"`
	Allowed   bool                   `json:"allowed"`
}

// OutcomeRequest is reported by the caller after invoking the selected
// model. UnhealthyFor is a Go duration ("90s") and marks the model directly
// instead of feeding its failure breaker.
type OutcomeRequest struct {
	ModelID      string  `json:"model_id"`
	Tier         string  `json:"tier,omitempty"`
	Error        string  `json:"error,omitempty"`
	UnhealthyFor string  `json:"unhealthy_for,omitempty"`
	LatencyMs    int64   `json:"latency_ms"`
	Cost         float64 `json:"cost"`
	Success      bool    `json:"success"`
}

func (o OutcomeRequest) toOutcome() (domain.Outcome, error) {
	if strings.TrimSpace(o.ModelID) == "" {
		return domain.Outcome{}, fmt.Errorf("model_id is required")
	}
	if o.LatencyMs < 0 {
		return domain.Outcome{}, fmt.Errorf("latency_ms must not be negative")
	}
	if o.Cost < 0 {
		return domain.Outcome{}, fmt.Errorf("cost must not be negative")
	}

	tier, err := domain.ParseComplexityTier(o.Tier)
	if err != nil {
		return domain.Outcome{}, err
	}

	var unhealthyFor time.Duration
	if o.UnhealthyFor != "" {
		unhealthyFor, err = time.ParseDuration(o.UnhealthyFor)
		if err != nil || unhealthyFor < 0 {
			return domain.Outcome{}, fmt.Errorf("invalid unhealthy_for %q", o.UnhealthyFor)
		}
	}

	return domain.Outcome{
		ModelID:      domain.ModelID(strings.TrimSpace(o.ModelID)),
		Tier:         tier,
		Latency:      time.Duration(o.LatencyMs) * time.Millisecond,
		Cost:         o.Cost,
		Error:        o.Error,
		UnhealthyFor: unhealthyFor,
		Success:      o.Success,
	}, nil
}

type OutcomeResponse struct {
	Next     domain.ModelDescriptor `json:"next_model"`
	Healthy  bool                   `json:"healthy"`
	Recorded bool                   `json:"recorded"`
}

// admitHandler is the one call the assistant makes per message: a malicious
// verdict short circuits before any model is chosen
func (a *Application) admitHandler(w http.ResponseWriter, r *http.Request) {
	var req MessageRequest
	if status, err := decodeBody(r, &req); err != nil {
		a.writeError(w, status, err.Error())
		return
	}

	rc := req.requestContext(r)
	response := AdmitResponse{
		Safety: a.gate.Check(r.Context(), req.Message, rc),
	}

	if !response.Safety.IsMalicious {
		selection := a.router.Select(r.Context(), req.Message, rc, domain.ModelID(req.ForceModel))
		response.Selection = &selection
		response.Allowed = true
	}

	a.writeJSON(w, http.StatusOK, response)
}

func (a *Application) safetyCheckHandler(w http.ResponseWriter, r *http.Request) {
	var req MessageRequest
	if status, err := decodeBody(r, &req); err != nil {
		a.writeError(w, status, err.Error())
		return
	}

	a.writeJSON(w, http.StatusOK, a.gate.Check(r.Context(), req.Message, req.requestContext(r)))
}

func (a *Application) routeSelectHandler(w http.ResponseWriter, r *http.Request) {
	var req MessageRequest
	if status, err := decodeBody(r, &req); err != nil {
		a.writeError(w, status, err.Error())
		return
	}

	a.writeJSON(w, http.StatusOK, a.router.Select(r.Context(), req.Message, req.requestContext(r), domain.ModelID(req.ForceModel)))
}

func (a *Application) routeOutcomeHandler(w http.ResponseWriter, r *http.Request) {
	var req OutcomeRequest
	if status, err := decodeBody(r, &req); err != nil {
		a.writeError(w, status, err.Error())
		return
	}

	outcome, err := req.toOutcome()
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !a.registry.IsKnown(outcome.ModelID) {
		a.writeError(w, http.StatusNotFound, domain.NewUnknownModelError(outcome.ModelID, "outcome").Error())
		return
	}

	next := a.router.ReportOutcome(outcome)
	a.writeJSON(w, http.StatusOK, OutcomeResponse{
		Next:     next,
		Healthy:  a.registry.IsHealthy(outcome.ModelID),
		Recorded: true,
	})
}
