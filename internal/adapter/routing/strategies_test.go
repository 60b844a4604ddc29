package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pam-ai/pamgate/internal/core/constants"
	"github.com/pam-ai/pamgate/internal/core/domain"
)

func model(id string, in, out float64) domain.ModelDescriptor {
	return domain.ModelDescriptor{ID: domain.ModelID(id), CostInPerMillion: in, CostOutPerMillion: out, SupportsTools: true}
}

func TestCheapestStrategy_TiesBreakOnID(t *testing.T) {
	candidates := []domain.ModelDescriptor{model("b", 1, 1), model("a", 1, 1), model("c", 5, 5)}

	got, reason := CheapestStrategy{}.Choose(candidates)
	assert.Equal(t, domain.ModelID("a"), got.ID)
	assert.Equal(t, constants.RoutingReasonCheapest, reason)
}

func TestPreferenceStrategy(t *testing.T) {
	candidates := []domain.ModelDescriptor{model("x", 1, 1), model("y", 2, 2), model("z", 3, 3)}

	tests := []struct {
		name     string
		strategy *PreferenceStrategy
		wantID   domain.ModelID
		reason   string
	}{
		{name: "first present preference", strategy: NewMedianPreferenceStrategy([]domain.ModelID{"missing", "z", "x"}), wantID: "z", reason: constants.RoutingReasonPreferred},
		{name: "median fallback", strategy: NewMedianPreferenceStrategy(nil), wantID: "y", reason: constants.RoutingReasonMedianCost},
		{name: "most expensive fallback", strategy: NewQualityPreferenceStrategy([]domain.ModelID{"missing"}), wantID: "z", reason: constants.RoutingReasonMostExpensive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, reason := tt.strategy.Choose(candidates)
			assert.Equal(t, tt.wantID, got.ID)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestMedianByCost_DoesNotReorderInput(t *testing.T) {
	candidates := []domain.ModelDescriptor{model("z", 3, 3), model("x", 1, 1)}
	got := medianByCost(candidates)

	assert.Equal(t, domain.ModelID("z"), got.ID)
	assert.Equal(t, domain.ModelID("z"), candidates[0].ID)
}

func TestStrategyNames(t *testing.T) {
	assert.Equal(t, StrategyCheapest, CheapestStrategy{}.Name())
	assert.Equal(t, StrategyPreferQuality, NewQualityPreferenceStrategy(nil).Name())
}
