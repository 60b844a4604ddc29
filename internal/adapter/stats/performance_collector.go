package stats

import (
	"github.com/puzpuzpuz/xsync/v4"

	"github.com/pam-ai/pamgate/internal/core/constants"
	"github.com/pam-ai/pamgate/internal/core/domain"
	"github.com/pam-ai/pamgate/internal/core/ports"
)

// PerformanceCollector keeps a bounded history per model and aggregates it
// on every read
type PerformanceCollector struct {
	models   *xsync.Map[domain.ModelID, *history]
	capacity int
}

var _ ports.PerformanceCollector = (*PerformanceCollector)(nil)

func NewPerformanceCollector(capacity int) *PerformanceCollector {
	if capacity <= 0 {
		capacity = constants.MaxPerformanceSamples
	}
	return &PerformanceCollector{
		models:   xsync.NewMap[domain.ModelID, *history](),
		capacity: capacity,
	}
}

func (pc *PerformanceCollector) Record(id domain.ModelID, sample domain.PerformanceSample) {
	h, _ := pc.models.LoadOrCompute(id, func() (*history, bool) {
		return newHistory(pc.capacity), false
	})
	h.add(sample)
}

func (pc *PerformanceCollector) Samples(id domain.ModelID) []domain.PerformanceSample {
	h, ok := pc.models.Load(id)
	if !ok {
		return nil
	}
	return h.snapshot()
}

func (pc *PerformanceCollector) Stats(id domain.ModelID) (domain.PerformanceStats, bool) {
	h, ok := pc.models.Load(id)
	if !ok {
		return domain.PerformanceStats{}, false
	}
	return aggregate(id, h.snapshot(), h.recorded.Value()), true
}

func (pc *PerformanceCollector) AllStats() map[domain.ModelID]domain.PerformanceStats {
	result := make(map[domain.ModelID]domain.PerformanceStats, pc.models.Size())
	pc.models.Range(func(id domain.ModelID, h *history) bool {
		result[id] = aggregate(id, h.snapshot(), h.recorded.Value())
		return true
	})
	return result
}

func aggregate(id domain.ModelID, samples []domain.PerformanceSample, recorded int64) domain.PerformanceStats {
	stats := domain.PerformanceStats{
		ModelID:       id,
		Recorded:      recorded,
		Count:         len(samples),
		TierBreakdown: make(map[string]int, len(domain.AllTiers)),
	}
	if len(samples) == 0 {
		return stats
	}

	latencies := make([]int64, 0, len(samples))
	var totalLatency int64

	for _, s := range samples {
		if s.Success {
			stats.Successes++
		}
		stats.TotalCost += s.Cost
		stats.TierBreakdown[s.Tier.String()]++
		totalLatency += s.LatencyMs
		latencies = append(latencies, s.LatencyMs)
		if s.Timestamp.After(stats.LastSample) {
			stats.LastSample = s.Timestamp
		}
	}

	stats.SuccessRate = float64(stats.Successes) / float64(stats.Count)
	stats.AverageLatencyMs = float64(totalLatency) / float64(stats.Count)
	stats.P50LatencyMs, stats.P95LatencyMs = percentiles(latencies)
	return stats
}
