package handlers

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/pam-ai/pamgate/internal/core/domain"
	"github.com/pam-ai/pamgate/pkg/format"
)

type ModelStatsSummary struct {
	ModelID     domain.ModelID `json:"model_id"`
	SuccessRate string         `json:"success_rate"`
	AvgLatency  string         `json:"avg_latency"`
	P95Latency  string         `json:"p95_latency"`
	TotalCost   string         `json:"total_cost"`
	LastSample  string         `json:"last_sample"`
	Requests    int64          `json:"requests"`
}

type ModelStatsResponse struct {
	Timestamp time.Time                 `json:"timestamp"`
	Models    []domain.PerformanceStats `json:"models"`
	Summary   []ModelStatsSummary       `json:"summary"`
}

func (a *Application) summarise(stats domain.PerformanceStats, now time.Time) ModelStatsSummary {
	return ModelStatsSummary{
		ModelID:     stats.ModelID,
		Requests:    stats.Recorded,
		SuccessRate: format.Percentage(stats.SuccessRate),
		AvgLatency:  format.Latency(stats.AverageLatencyMs),
		P95Latency:  format.Latency(float64(stats.P95LatencyMs)),
		TotalCost:   format.Cost(stats.TotalCost),
		LastSample:  format.TimeAgo(stats.LastSample, now),
	}
}

// modelStatsHandler reports every model with samples, or one with ?model=
func (a *Application) modelStatsHandler(w http.ResponseWriter, r *http.Request) {
	now := a.clock()

	if id := strings.TrimSpace(r.URL.Query().Get("model")); id != "" {
		stats, ok := a.router.GetPerformanceStats(domain.ModelID(id))
		if !ok {
			a.writeError(w, http.StatusNotFound, "no performance samples for model "+id)
			return
		}
		a.writeJSON(w, http.StatusOK, ModelStatsResponse{
			Timestamp: now,
			Models:    []domain.PerformanceStats{stats},
			Summary:   []ModelStatsSummary{a.summarise(stats, now)},
		})
		return
	}

	all := a.router.GetAllPerformanceStats()
	response := ModelStatsResponse{
		Timestamp: now,
		Models:    make([]domain.PerformanceStats, 0, len(all)),
		Summary:   make([]ModelStatsSummary, 0, len(all)),
	}
	for _, stats := range all {
		response.Models = append(response.Models, stats)
	}
	sort.Slice(response.Models, func(i, j int) bool {
		return response.Models[i].ModelID < response.Models[j].ModelID
	})
	for _, stats := range response.Models {
		response.Summary = append(response.Summary, a.summarise(stats, now))
	}

	a.writeJSON(w, http.StatusOK, response)
}
