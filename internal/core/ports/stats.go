package ports

import (
	"github.com/pam-ai/pamgate/internal/core/domain"
)

type PerformanceCollector interface {
	Record(id domain.ModelID, sample domain.PerformanceSample)
	Stats(id domain.ModelID) (domain.PerformanceStats, bool)
	AllStats() map[domain.ModelID]domain.PerformanceStats
	Samples(id domain.ModelID) []domain.PerformanceSample
}

// DecisionRecorder receives every decision made by this layer, the metrics
// adapter implements it and NoopRecorder is used when metrics are off
type DecisionRecorder interface {
	RecordSafetyVerdict(verdict domain.SafetyVerdict)
	RecordCircuitOpen(open bool)
	RecordSelection(selection domain.ModelSelection)
	RecordOutcome(outcome domain.Outcome)
	RecordUnhealthy(id domain.ModelID)
}

type NoopRecorder struct{}

func (NoopRecorder) RecordSafetyVerdict(domain.SafetyVerdict) {}
func (NoopRecorder) RecordCircuitOpen(bool)                   {}
func (NoopRecorder) RecordSelection(domain.ModelSelection)    {}
func (NoopRecorder) RecordOutcome(domain.Outcome)             {}
func (NoopRecorder) RecordUnhealthy(domain.ModelID)           {}
