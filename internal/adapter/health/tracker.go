package health

import (
	"time"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/pam-ai/pamgate/internal/core/constants"
	"github.com/pam-ai/pamgate/internal/core/domain"
)

type TrackerConfig struct {
	Clock Clock

	// UnhealthyDuration is used when a caller marks a model without a window
	UnhealthyDuration time.Duration

	// FailureThreshold consecutive failed outcomes mark a model unhealthy
	// for FailureCooldown
	FailureThreshold int
	FailureCooldown  time.Duration
}

func DefaultTrackerConfig() TrackerConfig {
	return TrackerConfig{
		UnhealthyDuration: DefaultUnhealthyDuration,
		FailureThreshold:  constants.DefaultModelFailureThreshold,
		FailureCooldown:   constants.DefaultModelFailureCooldown,
	}
}

// Tracker keeps transient unhealthy marks per model. Marks are never removed
// on expiry, a read past UnhealthyUntil simply reports the model healthy.
type Tracker struct {
	marks    *xsync.Map[domain.ModelID, domain.HealthMark]
	breakers *xsync.Map[domain.ModelID, *CircuitBreaker]
	clock    Clock
	config   TrackerConfig
}

func NewTracker(config TrackerConfig) *Tracker {
	if config.UnhealthyDuration <= 0 {
		config.UnhealthyDuration = DefaultUnhealthyDuration
	}
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = constants.DefaultModelFailureThreshold
	}
	if config.FailureCooldown <= 0 {
		config.FailureCooldown = config.UnhealthyDuration
	}
	clock := config.Clock
	if clock == nil {
		clock = systemClock
	}

	return &Tracker{
		marks:    xsync.NewMap[domain.ModelID, domain.HealthMark](),
		breakers: xsync.NewMap[domain.ModelID, *CircuitBreaker](),
		clock:    clock,
		config:   config,
	}
}

// MarkUnhealthy overwrites any existing mark for id, the latest call wins
func (t *Tracker) MarkUnhealthy(id domain.ModelID, duration time.Duration, reason string) domain.HealthMark {
	if duration <= 0 {
		duration = t.config.UnhealthyDuration
	}
	mark := domain.HealthMark{
		ModelID:        id,
		UnhealthyUntil: t.clock().Add(duration),
		Reason:         reason,
	}
	t.marks.Store(id, mark)
	return mark
}

func (t *Tracker) IsHealthy(id domain.ModelID) bool {
	mark, ok := t.marks.Load(id)
	if !ok {
		return true
	}
	return mark.Expired(t.clock())
}

// Mark returns the active mark for id, expired marks are not returned
func (t *Tracker) Mark(id domain.ModelID) (domain.HealthMark, bool) {
	mark, ok := t.marks.Load(id)
	if !ok || mark.Expired(t.clock()) {
		return domain.HealthMark{}, false
	}
	return mark, true
}

// RecordOutcome feeds a call result into the per model breaker. Returns true
// when this failure tripped the breaker and the model was marked unhealthy.
func (t *Tracker) RecordOutcome(id domain.ModelID, success bool) bool {
	breaker, _ := t.breakers.LoadOrCompute(id, func() (*CircuitBreaker, bool) {
		return NewCircuitBreaker(CircuitBreakerConfig{
			FailureThreshold: t.config.FailureThreshold,
			OpenDuration:     t.config.FailureCooldown,
			Clock:            t.clock,
		}), false
	})

	if success {
		breaker.RecordSuccess()
		return false
	}

	if !breaker.RecordFailure() {
		return false
	}
	t.MarkUnhealthy(id, t.config.FailureCooldown, "consecutive failures")
	// the health mark carries the cooldown, the counter starts over
	breaker.Reset()
	return true
}

// Clear drops every mark and failure count
func (t *Tracker) Clear() {
	t.marks.Clear()
	t.breakers.Clear()
}

// UnhealthyCount reports marks that are still active
func (t *Tracker) UnhealthyCount() int {
	now := t.clock()
	count := 0
	t.marks.Range(func(_ domain.ModelID, mark domain.HealthMark) bool {
		if !mark.Expired(now) {
			count++
		}
		return true
	})
	return count
}
