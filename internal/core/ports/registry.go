package ports

import (
	"time"

	"github.com/pam-ai/pamgate/internal/core/domain"
)

// ModelRegistry exposes the configured catalog and the health of each model.
// None of these methods fail, unknown ids are substituted and logged instead.
type ModelRegistry interface {
	GetPrimary() domain.ModelDescriptor
	GetFallbackChain() []domain.ModelDescriptor
	GetAll() []domain.ModelDescriptor
	Get(id domain.ModelID) (domain.ModelDescriptor, bool)
	IsKnown(id domain.ModelID) bool

	MarkUnhealthy(id domain.ModelID, duration time.Duration, reason string)
	IsHealthy(id domain.ModelID) bool

	// RecordOutcome feeds consecutive failures into the health tracker,
	// returns true when the model was marked unhealthy as a result
	RecordOutcome(id domain.ModelID, success bool) bool

	// GetHealthy prefers the primary, then the fallback chain in order and
	// finally returns the primary anyway when nothing is healthy
	GetHealthy() domain.ModelDescriptor
	HealthSnapshot() []domain.ModelHealth

	// Reload re-reads configuration and clears every health mark
	Reload() error
}

// HealthTracker holds time boxed unhealthy marks, expiry is lazy
type HealthTracker interface {
	MarkUnhealthy(id domain.ModelID, duration time.Duration, reason string) domain.HealthMark
	IsHealthy(id domain.ModelID) bool
	Mark(id domain.ModelID) (domain.HealthMark, bool)

	// RecordOutcome feeds the per model breaker, returns true when this
	// outcome caused the model to be marked unhealthy
	RecordOutcome(id domain.ModelID, success bool) bool
	Clear()
}
