package routing

import (
	"sort"

	"github.com/pam-ai/pamgate/internal/core/constants"
	"github.com/pam-ai/pamgate/internal/core/domain"
	"github.com/pam-ai/pamgate/internal/core/ports"
)

const (
	StrategyCheapest      = "cheapest"
	StrategyPreferMedian  = "prefer-median"
	StrategyPreferQuality = "prefer-quality"
)

// CheapestStrategy picks the lowest cost_in+cost_out, ties go to the lower id
type CheapestStrategy struct{}

var _ ports.TierStrategy = CheapestStrategy{}

func (CheapestStrategy) Name() string {
	return StrategyCheapest
}

func (CheapestStrategy) Choose(candidates []domain.ModelDescriptor) (domain.ModelDescriptor, string) {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if lessByCost(c, best) {
			best = c
		}
	}
	return best, constants.RoutingReasonCheapest
}

// PreferenceStrategy walks an ordered list of known good ids and, when none
// of them is a candidate, falls back on cost: the median for the medium tier
// or the most expensive as a stand-in for quality on the complex tier
type PreferenceStrategy struct {
	name        string
	preferences []domain.ModelID
	useMedian   bool
}

var _ ports.TierStrategy = (*PreferenceStrategy)(nil)

func NewMedianPreferenceStrategy(preferences []domain.ModelID) *PreferenceStrategy {
	return &PreferenceStrategy{name: StrategyPreferMedian, preferences: preferences, useMedian: true}
}

func NewQualityPreferenceStrategy(preferences []domain.ModelID) *PreferenceStrategy {
	return &PreferenceStrategy{name: StrategyPreferQuality, preferences: preferences}
}

func (s *PreferenceStrategy) Name() string {
	return s.name
}

func (s *PreferenceStrategy) Choose(candidates []domain.ModelDescriptor) (domain.ModelDescriptor, string) {
	for _, preferred := range s.preferences {
		for _, c := range candidates {
			if c.ID == preferred {
				return c, constants.RoutingReasonPreferred
			}
		}
	}

	if s.useMedian {
		return medianByCost(candidates), constants.RoutingReasonMedianCost
	}
	return mostExpensive(candidates), constants.RoutingReasonMostExpensive
}

func medianByCost(candidates []domain.ModelDescriptor) domain.ModelDescriptor {
	sorted := make([]domain.ModelDescriptor, len(candidates))
	copy(sorted, candidates)
	sort.Slice(sorted, func(i, j int) bool {
		return lessByCost(sorted[i], sorted[j])
	})
	return sorted[len(sorted)/2]
}

func mostExpensive(candidates []domain.ModelDescriptor) domain.ModelDescriptor {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.TotalCost() > best.TotalCost() || (c.TotalCost() == best.TotalCost() && c.ID < best.ID) {
			best = c
		}
	}
	return best
}

func lessByCost(a, b domain.ModelDescriptor) bool {
	if a.TotalCost() != b.TotalCost() {
		return a.TotalCost() < b.TotalCost()
	}
	return a.ID < b.ID
}

func toModelIDs(ids []string) []domain.ModelID {
	out := make([]domain.ModelID, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.ModelID(id))
	}
	return out
}
