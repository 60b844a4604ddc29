package health

import (
	"sync"
	"time"

	"github.com/pam-ai/pamgate/internal/core/domain"
)

type CircuitBreakerState int32

const (
	CircuitClosed CircuitBreakerState = iota
	CircuitOpen
	CircuitHalfOpen
)

func (s CircuitBreakerState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

type CircuitBreakerConfig struct {
	Clock            Clock
	FailureThreshold int
	OpenDuration     time.Duration
	HalfOpenRequests int
}

// CircuitBreaker stops calling a failing operation for a cooldown window once
// FailureThreshold consecutive failures are seen. After the window a limited
// number of half-open trials are let through, a success closes the circuit and
// a failure opens it again straight away.
type CircuitBreaker struct {
	openUntil        time.Time
	clock            Clock
	config           CircuitBreakerConfig
	state            CircuitBreakerState
	failures         int
	halfOpenRequests int
	mu               sync.Mutex
}

func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = DefaultCircuitBreakerThreshold
	}
	if config.OpenDuration <= 0 {
		config.OpenDuration = DefaultCircuitBreakerTimeout
	}
	if config.HalfOpenRequests <= 0 {
		config.HalfOpenRequests = DefaultHalfOpenRequests
	}
	clock := config.Clock
	if clock == nil {
		clock = systemClock
	}

	return &CircuitBreaker{
		config: config,
		clock:  clock,
		state:  CircuitClosed,
	}
}

// Allow reports whether the protected call may go ahead. An open circuit whose
// window has elapsed moves to half-open here.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case CircuitClosed:
		return true

	case CircuitOpen:
		if cb.clock().Before(cb.openUntil) {
			return false
		}
		cb.state = CircuitHalfOpen
		cb.halfOpenRequests = 0
		return cb.allowHalfOpen()

	case CircuitHalfOpen:
		return cb.allowHalfOpen()

	default:
		return false
	}
}

// RecordSuccess resets the failure count and closes the circuit, returns true
// if the circuit was not already closed
func (cb *CircuitBreaker) RecordSuccess() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	wasClosed := cb.state == CircuitClosed
	cb.failures = 0
	cb.halfOpenRequests = 0
	cb.state = CircuitClosed
	cb.openUntil = time.Time{}
	return !wasClosed
}

// RecordFailure counts a consecutive failure, returns true when this failure
// opened the circuit
func (cb *CircuitBreaker) RecordFailure() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures++

	switch cb.state {
	case CircuitClosed:
		if cb.failures >= cb.config.FailureThreshold {
			cb.transitionToOpen()
			return true
		}

	case CircuitHalfOpen:
		// a failed trial reopens immediately
		cb.transitionToOpen()
		return true

	case CircuitOpen:
	}
	return false
}

func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.state = CircuitClosed
	cb.failures = 0
	cb.halfOpenRequests = 0
	cb.openUntil = time.Time{}
}

func (cb *CircuitBreaker) GetState() CircuitBreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

func (cb *CircuitBreaker) Status() domain.CircuitStatus {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	status := domain.CircuitStatus{
		State:               cb.state.String(),
		ConsecutiveFailures: cb.failures,
		Threshold:           cb.config.FailureThreshold,
	}
	if cb.state != CircuitClosed {
		until := cb.openUntil
		status.OpenUntil = &until
	}
	return status
}

func (cb *CircuitBreaker) transitionToOpen() {
	cb.state = CircuitOpen
	cb.openUntil = cb.clock().Add(cb.config.OpenDuration)
	cb.halfOpenRequests = 0
}

func (cb *CircuitBreaker) allowHalfOpen() bool {
	if cb.halfOpenRequests >= cb.config.HalfOpenRequests {
		return false
	}
	cb.halfOpenRequests++
	return true
}
