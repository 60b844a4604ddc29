package ports

import (
	"context"

	"github.com/pam-ai/pamgate/internal/core/domain"
)

type ComplexityClassifier interface {
	Classify(message string) domain.ComplexityVerdict
}

type CostEstimator interface {
	Estimate(model domain.ModelDescriptor, messageLength int) float64
}

// ModelRouter selects the backend model for a message. Select never fails,
// it always returns a usable selection with its reasoning attached.
type ModelRouter interface {
	Select(ctx context.Context, message string, rc domain.RequestContext, forceModel domain.ModelID) domain.ModelSelection
	Fallback(failed domain.ModelID, reason string) domain.ModelDescriptor

	TrackPerformance(id domain.ModelID, tier domain.ComplexityTier, latencyMs int64, success bool, cost float64)
	ReportOutcome(outcome domain.Outcome) domain.ModelDescriptor
	GetPerformanceStats(id domain.ModelID) (domain.PerformanceStats, bool)
	GetAllPerformanceStats() map[domain.ModelID]domain.PerformanceStats
}

// TierStrategy picks a model for one complexity tier out of the healthy,
// capability filtered candidates. Candidates are never empty.
type TierStrategy interface {
	Choose(candidates []domain.ModelDescriptor) (domain.ModelDescriptor, string)
	Name() string
}
