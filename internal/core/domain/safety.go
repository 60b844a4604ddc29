package domain

import (
	"time"

	"github.com/pam-ai/pamgate/internal/core/constants"
)

type DetectionMethod string

const (
	DetectionRegex            DetectionMethod = constants.DetectionMethodRegex
	DetectionLLM              DetectionMethod = constants.DetectionMethodLLM
	DetectionRegexOnly        DetectionMethod = constants.DetectionMethodRegexOnly
	DetectionCircuitOpen      DetectionMethod = constants.DetectionMethodCircuitOpen
	DetectionLLMErrorFallback DetectionMethod = constants.DetectionMethodLLMErrorFallback
)

func (m DetectionMethod) String() string {
	return string(m)
}

// IsFailOpen reports whether the verdict was produced without a completed check
func (m DetectionMethod) IsFailOpen() bool {
	return m == DetectionCircuitOpen || m == DetectionLLMErrorFallback
}

type SafetyVerdict struct {
	DetectionMethod DetectionMethod `json:"detection_method"`
	Reason          string          `json:"reason"`
	AttackType      string          `json:"attack_type,omitempty"`
	Confidence      float64         `json:"confidence"`
	LatencyMs       float64         `json:"latency_ms"`
	IsMalicious     bool            `json:"is_malicious"`
}

// CircuitStatus is a snapshot of a circuit breaker for status reporting
type CircuitStatus struct {
	OpenUntil           *time.Time `json:"open_until,omitempty"`
	State               string     `json:"state"`
	ConsecutiveFailures int        `json:"consecutive_failures"`
	Threshold           int        `json:"threshold"`
}
