package health

import (
	"time"

	"github.com/pam-ai/pamgate/internal/core/constants"
)

const (
	DefaultCircuitBreakerThreshold = constants.DefaultCircuitFailureThreshold
	DefaultCircuitBreakerTimeout   = constants.DefaultCircuitOpenDuration
	DefaultHalfOpenRequests        = 1

	DefaultUnhealthyDuration = constants.DefaultUnhealthyDuration
)

// Clock lets tests move time without sleeping
type Clock func() time.Time

func systemClock() time.Time {
	return time.Now()
}
