package security

import "time"

// RejectionRecorder counts requests a limiter turned away
type RejectionRecorder interface {
	RecordRejection(reason string)
}

// Result is the outcome of a limiter check, echoed back in X-RateLimit headers
type Result struct {
	ResetTime  time.Time
	Reason     string
	RateLimit  int
	Remaining  int
	RetryAfter int
	Allowed    bool
}

type noopRejections struct{}

func (noopRejections) RecordRejection(string) {}
