package stats

import (
	"sync"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/pam-ai/pamgate/internal/core/domain"
)

// history is a fixed size ring of samples for one model, oldest overwritten first
type history struct {
	recorded *xsync.Counter
	samples  []domain.PerformanceSample
	next     int
	full     bool
	mu       sync.Mutex
}

func newHistory(capacity int) *history {
	return &history{
		samples:  make([]domain.PerformanceSample, capacity),
		recorded: xsync.NewCounter(),
	}
}

func (h *history) add(sample domain.PerformanceSample) {
	h.mu.Lock()
	h.samples[h.next] = sample
	h.next = (h.next + 1) % len(h.samples)
	if h.next == 0 {
		h.full = true
	}
	h.mu.Unlock()

	h.recorded.Inc()
}

// snapshot returns retained samples oldest first
func (h *history) snapshot() []domain.PerformanceSample {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.full {
		out := make([]domain.PerformanceSample, h.next)
		copy(out, h.samples[:h.next])
		return out
	}

	out := make([]domain.PerformanceSample, 0, len(h.samples))
	out = append(out, h.samples[h.next:]...)
	out = append(out, h.samples[:h.next]...)
	return out
}
