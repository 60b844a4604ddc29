package ports

import (
	"context"

	"github.com/pam-ai/pamgate/internal/core/domain"
)

// DetectionRequest flows through the local detector chain. Text is the NFKC
// lowercased message and is never rewritten. Allowed collects byte ranges of
// Text that earlier detectors vouched for.
type DetectionRequest struct {
	Context domain.RequestContext
	Text    string
	Allowed []Span
}

// Span is a half open byte range [Start, End) of DetectionRequest.Text
type Span struct {
	Start int
	End   int
}

// Covers reports whether [start, end) lies entirely inside one allowed span
func (r *DetectionRequest) Covers(start, end int) bool {
	for _, span := range r.Allowed {
		if start >= span.Start && end <= span.End {
			return true
		}
	}
	return false
}

type Finding struct {
	Detector   string
	Family     string
	Reason     string
	Confidence float64
	Matched    bool
}

// Detector is one local (stage 1) strategy, it must be fast and side effect
// free apart from appending to req.Allowed
type Detector interface {
	Detect(ctx context.Context, req *DetectionRequest) Finding
	Name() string
}

type DetectorChain struct {
	detectors []Detector
}

func NewDetectorChain(detectors ...Detector) *DetectorChain {
	return &DetectorChain{
		detectors: detectors,
	}
}

// Detect runs each detector in order, the first match wins
func (dc *DetectorChain) Detect(ctx context.Context, req *DetectionRequest) Finding {
	for _, detector := range dc.detectors {
		if finding := detector.Detect(ctx, req); finding.Matched {
			return finding
		}
	}
	return Finding{}
}

type ValidationRequest struct {
	Context     domain.RequestContext
	Instruction string
	Prompt      string
}

// SafetyValidator is the remote (stage 2) collaborator. It returns the raw
// model text, the gate owns parsing so every validator is held to one format.
type SafetyValidator interface {
	Validate(ctx context.Context, req ValidationRequest) (string, error)
	Name() string
}

// SafetyGate never fails, callers decide what to do with a malicious verdict
type SafetyGate interface {
	Check(ctx context.Context, message string, rc domain.RequestContext) domain.SafetyVerdict
	CircuitStatus() domain.CircuitStatus
}
