package stats

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pam-ai/pamgate/internal/core/domain"
)

var baseTime = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func sample(i int, latency int64, success bool, tier domain.ComplexityTier) domain.PerformanceSample {
	return domain.PerformanceSample{
		Timestamp: baseTime.Add(time.Duration(i) * time.Second),
		Tier:      tier,
		LatencyMs: latency,
		Cost:      0.01,
		Success:   success,
	}
}

func TestPerformanceCollector_UnknownModel(t *testing.T) {
	pc := NewPerformanceCollector(0)

	_, ok := pc.Stats("gpt-4o")
	assert.False(t, ok)
	assert.Nil(t, pc.Samples("gpt-4o"))
	assert.Empty(t, pc.AllStats())
}

func TestPerformanceCollector_Aggregates(t *testing.T) {
	pc := NewPerformanceCollector(100)

	pc.Record("gpt-4o", sample(0, 100, true, domain.TierSimple))
	pc.Record("gpt-4o", sample(1, 300, false, domain.TierComplex))
	pc.Record("gpt-4o", sample(2, 200, true, domain.TierComplex))
	pc.Record("gpt-4o", sample(3, 400, true, domain.TierMedium))

	stats, ok := pc.Stats("gpt-4o")
	require.True(t, ok)

	assert.Equal(t, 4, stats.Count)
	assert.Equal(t, int64(4), stats.Recorded)
	assert.Equal(t, 3, stats.Successes)
	assert.InDelta(t, 0.75, stats.SuccessRate, 1e-9)
	assert.InDelta(t, 250.0, stats.AverageLatencyMs, 1e-9)
	assert.InDelta(t, 0.04, stats.TotalCost, 1e-9)
	assert.Equal(t, int64(300), stats.P50LatencyMs)
	assert.Equal(t, int64(400), stats.P95LatencyMs)
	assert.Equal(t, map[string]int{"simple": 1, "medium": 1, "complex": 2}, stats.TierBreakdown)
	assert.Equal(t, baseTime.Add(3*time.Second), stats.LastSample)
}

func TestPerformanceCollector_BoundedHistory(t *testing.T) {
	pc := NewPerformanceCollector(100)

	for i := 0; i < 150; i++ {
		pc.Record("gemini-2.5-flash", sample(i, int64(i), true, domain.TierMedium))
	}

	samples := pc.Samples("gemini-2.5-flash")
	require.Len(t, samples, 100)
	assert.Equal(t, int64(50), samples[0].LatencyMs, "oldest fifty evicted")
	assert.Equal(t, int64(149), samples[99].LatencyMs)

	stats, _ := pc.Stats("gemini-2.5-flash")
	assert.Equal(t, 100, stats.Count)
	assert.Equal(t, int64(150), stats.Recorded)
}

func TestPerformanceCollector_ExactlyFull(t *testing.T) {
	pc := NewPerformanceCollector(3)
	for i := 0; i < 3; i++ {
		pc.Record("m", sample(i, int64(i), true, domain.TierSimple))
	}

	samples := pc.Samples("m")
	require.Len(t, samples, 3)
	assert.Equal(t, int64(0), samples[0].LatencyMs)
}

func TestPerformanceCollector_AllStats(t *testing.T) {
	pc := NewPerformanceCollector(10)
	pc.Record("a", sample(0, 10, true, domain.TierSimple))
	pc.Record("b", sample(0, 20, false, domain.TierSimple))

	all := pc.AllStats()
	require.Len(t, all, 2)
	assert.InDelta(t, 0.0, all["b"].SuccessRate, 1e-9)
}

func TestPerformanceCollector_Concurrent(t *testing.T) {
	pc := NewPerformanceCollector(100)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				pc.Record("claude-haiku-4-5", sample(i, 5, true, domain.TierSimple))
				pc.Stats("claude-haiku-4-5")
			}
		}()
	}
	wg.Wait()

	stats, _ := pc.Stats("claude-haiku-4-5")
	assert.Equal(t, 100, stats.Count)
	assert.Equal(t, int64(400), stats.Recorded)
}

func TestPercentiles(t *testing.T) {
	p50, p95 := percentiles(nil)
	assert.Zero(t, p50)
	assert.Zero(t, p95)

	values := []int64{5, 1, 3}
	p50, p95 = percentiles(values)
	assert.Equal(t, int64(3), p50)
	assert.Equal(t, int64(5), p95)
	assert.Equal(t, []int64{5, 1, 3}, values, "input is not reordered")
}
