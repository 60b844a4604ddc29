package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pam-ai/pamgate/internal/core/domain"
	"github.com/pam-ai/pamgate/internal/core/ports"
)

const namespace = "pamgate"

// latency buckets in seconds, stage 2 calls sit around 50-100ms
var safetyBuckets = []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 3}

var modelBuckets = []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60}

// PrometheusRecorder exports every gate and router decision. It owns its
// registry so tests and multiple instances never collide on the default one.
type PrometheusRecorder struct {
	registry        *prometheus.Registry
	safetyVerdicts  *prometheus.CounterVec
	safetyDuration  *prometheus.HistogramVec
	circuitOpen     prometheus.Gauge
	routeSelections *prometheus.CounterVec
	modelOutcomes   *prometheus.CounterVec
	modelLatency    *prometheus.HistogramVec
	modelCost       *prometheus.CounterVec
	modelUnhealthy  *prometheus.CounterVec
	rejections      *prometheus.CounterVec
}

var _ ports.DecisionRecorder = (*PrometheusRecorder)(nil)

func NewPrometheusRecorder() *PrometheusRecorder {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &PrometheusRecorder{
		registry: registry,
		safetyVerdicts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "safety_verdicts_total",
				Help:      "Safety verdicts by detection method and outcome",
			},
			[]string{"method", "malicious"},
		),
		safetyDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "safety_check_duration_seconds",
				Help:      "End to end safety check latency",
				Buckets:   safetyBuckets,
			},
			[]string{"method"},
		),
		circuitOpen: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "safety_circuit_open",
				Help:      "1 while the safety validator circuit is open",
			},
		),
		routeSelections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "route_selections_total",
				Help:      "Model selections by model and complexity tier",
			},
			[]string{"model", "tier"},
		),
		modelOutcomes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "model_outcomes_total",
				Help:      "Reported model call outcomes",
			},
			[]string{"model", "success"},
		),
		modelLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "model_latency_seconds",
				Help:      "Reported model call latency",
				Buckets:   modelBuckets,
			},
			[]string{"model"},
		),
		modelCost: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "model_cost_usd_total",
				Help:      "Reported model spend in USD",
			},
			[]string{"model"},
		),
		modelUnhealthy: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "model_unhealthy_total",
				Help:      "Times a model was marked unhealthy",
			},
			[]string{"model"},
		),
		rejections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_rejections_total",
				Help:      "Requests rejected by the rate and size limiters",
			},
			[]string{"reason"},
		),
	}
}

func (r *PrometheusRecorder) RecordSafetyVerdict(verdict domain.SafetyVerdict) {
	method := verdict.DetectionMethod.String()
	r.safetyVerdicts.WithLabelValues(method, strconv.FormatBool(verdict.IsMalicious)).Inc()
	r.safetyDuration.WithLabelValues(method).Observe(verdict.LatencyMs / 1000)
}

func (r *PrometheusRecorder) RecordCircuitOpen(open bool) {
	if open {
		r.circuitOpen.Set(1)
		return
	}
	r.circuitOpen.Set(0)
}

func (r *PrometheusRecorder) RecordSelection(selection domain.ModelSelection) {
	r.routeSelections.WithLabelValues(selection.Model.ID.String(), selection.Verdict.Tier.String()).Inc()
}

func (r *PrometheusRecorder) RecordOutcome(outcome domain.Outcome) {
	model := outcome.ModelID.String()
	r.modelOutcomes.WithLabelValues(model, strconv.FormatBool(outcome.Success)).Inc()
	if outcome.Latency > 0 {
		r.modelLatency.WithLabelValues(model).Observe(outcome.Latency.Seconds())
	}
	if outcome.Cost > 0 {
		r.modelCost.WithLabelValues(model).Add(outcome.Cost)
	}
}

func (r *PrometheusRecorder) RecordUnhealthy(id domain.ModelID) {
	r.modelUnhealthy.WithLabelValues(id.String()).Inc()
}

// RecordRejection counts a request turned away before reaching a handler
func (r *PrometheusRecorder) RecordRejection(reason string) {
	r.rejections.WithLabelValues(reason).Inc()
}

// Handler serves this recorder's registry in the Prometheus text format
func (r *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *PrometheusRecorder) Registry() *prometheus.Registry {
	return r.registry
}
