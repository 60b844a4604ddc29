package domain

import "time"

// RequestContext carries what the caller knows about the conversation. The
// gate and router only ever use it for logging and the validator prompt.
type RequestContext struct {
	UserID    string `json:"user_id,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type ModelSelection struct {
	Model         ModelDescriptor   `json:"model"`
	Verdict       ComplexityVerdict `json:"complexity"`
	Reasoning     string            `json:"reasoning"`
	Reason        string            `json:"reason"`
	EstimatedCost float64           `json:"estimated_cost_usd"`
}

// Outcome is what the caller reports back after invoking the selected model
type Outcome struct {
	ModelID      ModelID        `json:"model_id"`
	Error        string         `json:"error,omitempty"`
	Tier         ComplexityTier `json:"tier"`
	Latency      time.Duration  `json:"latency"`
	Cost         float64        `json:"cost"`
	UnhealthyFor time.Duration  `json:"unhealthy_for,omitempty"`
	Success      bool           `json:"success"`
}
