package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pam-ai/pamgate/internal/core/domain"
)

func TestPrometheusRecorder_SafetyVerdicts(t *testing.T) {
	r := NewPrometheusRecorder()

	r.RecordSafetyVerdict(domain.SafetyVerdict{DetectionMethod: domain.DetectionRegex, IsMalicious: true, LatencyMs: 0.4})
	r.RecordSafetyVerdict(domain.SafetyVerdict{DetectionMethod: domain.DetectionLLM, LatencyMs: 72})
	r.RecordSafetyVerdict(domain.SafetyVerdict{DetectionMethod: domain.DetectionLLM, LatencyMs: 81})

	assert.Equal(t, 1.0, testutil.ToFloat64(r.safetyVerdicts.WithLabelValues("regex", "true")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.safetyVerdicts.WithLabelValues("llm", "false")))
	assert.Equal(t, 2, testutil.CollectAndCount(r.safetyDuration))
}

func TestPrometheusRecorder_CircuitGauge(t *testing.T) {
	r := NewPrometheusRecorder()

	r.RecordCircuitOpen(true)
	assert.Equal(t, 1.0, testutil.ToFloat64(r.circuitOpen))

	r.RecordCircuitOpen(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(r.circuitOpen))
}

func TestPrometheusRecorder_Routing(t *testing.T) {
	r := NewPrometheusRecorder()

	r.RecordSelection(domain.ModelSelection{
		Model:   domain.ModelDescriptor{ID: "gpt-4o-mini"},
		Verdict: domain.ComplexityVerdict{Tier: domain.TierSimple},
	})
	r.RecordOutcome(domain.Outcome{ModelID: "gpt-4o-mini", Success: true, Latency: 800 * time.Millisecond, Cost: 0.002})
	r.RecordOutcome(domain.Outcome{ModelID: "gpt-4o-mini", Success: false, Cost: 0.001})
	r.RecordUnhealthy("gpt-4o-mini")

	assert.Equal(t, 1.0, testutil.ToFloat64(r.routeSelections.WithLabelValues("gpt-4o-mini", "simple")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.modelOutcomes.WithLabelValues("gpt-4o-mini", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.modelOutcomes.WithLabelValues("gpt-4o-mini", "false")))
	assert.InDelta(t, 0.003, testutil.ToFloat64(r.modelCost.WithLabelValues("gpt-4o-mini")), 1e-9)
	assert.Equal(t, 1.0, testutil.ToFloat64(r.modelUnhealthy.WithLabelValues("gpt-4o-mini")))
}

func TestPrometheusRecorder_Handler(t *testing.T) {
	r := NewPrometheusRecorder()
	r.RecordUnhealthy("claude-sonnet-4-5")

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `pamgate_model_unhealthy_total{model="claude-sonnet-4-5"} 1`)
	assert.Contains(t, string(body), "pamgate_safety_circuit_open 0")
}

func TestPrometheusRecorder_IndependentRegistries(t *testing.T) {
	a := NewPrometheusRecorder()
	b := NewPrometheusRecorder()

	a.RecordUnhealthy("gpt-4o")

	assert.Equal(t, 1.0, testutil.ToFloat64(a.modelUnhealthy.WithLabelValues("gpt-4o")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.modelUnhealthy.WithLabelValues("gpt-4o")))
}

func TestPrometheusRecorder_Rejections(t *testing.T) {
	r := NewPrometheusRecorder()

	r.RecordRejection("rate_limit")
	r.RecordRejection("rate_limit")
	r.RecordRejection("body_size")

	assert.Equal(t, 2.0, testutil.ToFloat64(r.rejections.WithLabelValues("rate_limit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.rejections.WithLabelValues("body_size")))
}
