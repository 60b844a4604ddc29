package domain

import "time"

type PerformanceSample struct {
	Timestamp time.Time      `json:"timestamp"`
	Tier      ComplexityTier `json:"tier"`
	LatencyMs int64          `json:"latency_ms"`
	Cost      float64        `json:"cost"`
	Success   bool           `json:"success"`
}

// PerformanceStats is aggregated on read from the retained samples, never
// cached. Recorded counts every sample ever seen, Count only the retained ones.
type PerformanceStats struct {
	LastSample       time.Time      `json:"last_sample"`
	TierBreakdown    map[string]int `json:"tier_breakdown"`
	ModelID          ModelID        `json:"model_id"`
	Recorded         int64          `json:"recorded"`
	Count            int            `json:"count"`
	Successes        int            `json:"successes"`
	SuccessRate      float64        `json:"success_rate"`
	AverageLatencyMs float64        `json:"avg_latency_ms"`
	P50LatencyMs     int64          `json:"p50_latency_ms"`
	P95LatencyMs     int64          `json:"p95_latency_ms"`
	TotalCost        float64        `json:"total_cost"`
}
