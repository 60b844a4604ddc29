package routing

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/pam-ai/pamgate/internal/core/constants"
	"github.com/pam-ai/pamgate/internal/core/domain"
	"github.com/pam-ai/pamgate/internal/core/ports"
	"github.com/pam-ai/pamgate/internal/logger"
)

const RuleRoutingDisabled = "routing_disabled"

type tierStrategies struct {
	byTier map[domain.ComplexityTier]ports.TierStrategy
	config Config
}

// Router composes the registry, classifier, estimator and performance
// collector. Select never fails, an empty candidate set falls through to the
// registry's healthy chain.
type Router struct {
	registry   ports.ModelRegistry
	classifier ports.ComplexityClassifier
	estimator  ports.CostEstimator
	collector  ports.PerformanceCollector
	recorder   ports.DecisionRecorder
	logger     logger.StyledLogger
	clock      func() time.Time
	state      atomic.Pointer[tierStrategies]
}

var _ ports.ModelRouter = (*Router)(nil)

type Dependencies struct {
	Registry   ports.ModelRegistry
	Classifier ports.ComplexityClassifier
	Estimator  ports.CostEstimator
	Collector  ports.PerformanceCollector
	Recorder   ports.DecisionRecorder
	Clock      func() time.Time
}

func NewRouter(deps Dependencies, cfg Config, log logger.StyledLogger) (*Router, error) {
	if deps.Registry == nil || deps.Classifier == nil || deps.Estimator == nil || deps.Collector == nil {
		return nil, fmt.Errorf("router requires registry, classifier, estimator and collector")
	}
	if deps.Recorder == nil {
		deps.Recorder = ports.NoopRecorder{}
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}

	r := &Router{
		registry:   deps.Registry,
		classifier: deps.Classifier,
		estimator:  deps.Estimator,
		collector:  deps.Collector,
		recorder:   deps.Recorder,
		clock:      deps.Clock,
		logger:     log,
	}
	r.UpdateConfig(cfg)
	return r, nil
}

// UpdateConfig swaps tunables without blocking in-flight selections
func (r *Router) UpdateConfig(cfg Config) {
	if cfg.UnhealthyDuration <= 0 {
		cfg.UnhealthyDuration = constants.DefaultUnhealthyDuration
	}
	r.state.Store(&tierStrategies{
		config: cfg,
		byTier: map[domain.ComplexityTier]ports.TierStrategy{
			domain.TierSimple:  CheapestStrategy{},
			domain.TierMedium:  NewMedianPreferenceStrategy(cfg.MediumPreferences),
			domain.TierComplex: NewQualityPreferenceStrategy(cfg.ComplexPreferences),
		},
	})
}

func (r *Router) Config() Config {
	return r.state.Load().config
}

func (r *Router) Select(ctx context.Context, message string, rc domain.RequestContext, forceModel domain.ModelID) domain.ModelSelection {
	state := r.state.Load()
	if rc.RequestID == "" {
		if id, ok := ctx.Value(constants.ContextRequestIdKey).(string); ok {
			rc.RequestID = id
		}
	}
	messageLength := utf8.RuneCountInString(message)

	var selection domain.ModelSelection
	switch {
	case !state.config.Enabled:
		selection = r.disabledSelection(messageLength)

	case !forceModel.IsEmpty() && r.registry.IsKnown(forceModel):
		selection = r.forcedSelection(forceModel, message, messageLength)

	default:
		if !forceModel.IsEmpty() {
			r.logger.WarnWithModel("Ignoring unknown forced model", forceModel.String(), "request_id", rc.RequestID)
		}
		selection = r.routedSelection(state, message, messageLength)
	}

	r.recorder.RecordSelection(selection)
	r.logger.Debug("Model selected",
		"model", selection.Model.ID,
		"tier", selection.Verdict.Tier.String(),
		"confidence", selection.Verdict.Confidence,
		"reason", selection.Reason,
		"estimated_cost", selection.EstimatedCost,
		"request_id", rc.RequestID,
		"user_id", rc.UserID,
		"session_id", rc.SessionID)

	return selection
}

func (r *Router) disabledSelection(messageLength int) domain.ModelSelection {
	primary := r.registry.GetPrimary()
	verdict := domain.ComplexityVerdict{
		Rule:       RuleRoutingDisabled,
		Tier:       domain.TierMedium,
		Confidence: constants.ConfidenceRoutingBypass,
	}
	return domain.ModelSelection{
		Model:         primary,
		Verdict:       verdict,
		Reason:        constants.RoutingReasonDisabled,
		Reasoning:     "routing disabled, using primary " + primary.ID.String(),
		EstimatedCost: r.estimator.Estimate(primary, messageLength),
	}
}

// forcedSelection keeps the classified tier so telemetry still buckets the
// request, only the confidence is pinned
func (r *Router) forcedSelection(id domain.ModelID, message string, messageLength int) domain.ModelSelection {
	model, _ := r.registry.Get(id)
	verdict := r.classifier.Classify(message)
	verdict.Confidence = constants.ConfidenceRoutingBypass

	cost := r.estimator.Estimate(model, messageLength)
	return domain.ModelSelection{
		Model:         model,
		Verdict:       verdict,
		Reason:        constants.RoutingReasonForced,
		Reasoning:     fmt.Sprintf("model %s forced by caller, estimated $%.5f", model.ID, cost),
		EstimatedCost: cost,
	}
}

func (r *Router) routedSelection(state *tierStrategies, message string, messageLength int) domain.ModelSelection {
	verdict := r.classifier.Classify(message)
	candidates := r.candidates(state.config)

	var model domain.ModelDescriptor
	var reason string
	if len(candidates) == 0 {
		model = r.registry.GetHealthy()
		reason = constants.RoutingReasonHealthyFallback
	} else {
		model, reason = state.byTier[verdict.Tier].Choose(candidates)
	}

	cost := r.estimator.Estimate(model, messageLength)
	return domain.ModelSelection{
		Model:         model,
		Verdict:       verdict,
		Reason:        reason,
		Reasoning:     buildReasoning(verdict, model, reason, cost, len(candidates)),
		EstimatedCost: cost,
	}
}

// candidates are the healthy catalog models, tool capable ones only when
// policy requires tools
func (r *Router) candidates(cfg Config) []domain.ModelDescriptor {
	all := r.registry.GetAll()
	filtered := make([]domain.ModelDescriptor, 0, len(all))
	for _, m := range all {
		if cfg.RequireTools && !m.SupportsTools {
			continue
		}
		if !r.registry.IsHealthy(m.ID) {
			continue
		}
		filtered = append(filtered, m)
	}
	return filtered
}

// Fallback marks the failed model unhealthy and walks the chain past it
func (r *Router) Fallback(failed domain.ModelID, reason string) domain.ModelDescriptor {
	return r.markAndWalk(failed, r.state.Load().config.UnhealthyDuration, reason)
}

func (r *Router) markAndWalk(failed domain.ModelID, duration time.Duration, reason string) domain.ModelDescriptor {
	r.registry.MarkUnhealthy(failed, duration, reason)
	r.recorder.RecordUnhealthy(failed)
	return r.nextHealthy(failed)
}

// nextHealthy returns the first healthy model after failed in primary then
// fallback order. A model outside the chain walks from the start.
func (r *Router) nextHealthy(failed domain.ModelID) domain.ModelDescriptor {
	chain := append([]domain.ModelDescriptor{r.registry.GetPrimary()}, r.registry.GetFallbackChain()...)

	start := 0
	for i, m := range chain {
		if m.ID == failed {
			start = i + 1
			break
		}
	}

	for _, m := range chain[start:] {
		if m.ID != failed && r.registry.IsHealthy(m.ID) {
			return m
		}
	}

	next := r.registry.GetHealthy()
	r.logger.WarnWithModel("Fallback chain exhausted, using", next.ID.String(), "failed", failed)
	return next
}

func (r *Router) TrackPerformance(id domain.ModelID, tier domain.ComplexityTier, latencyMs int64, success bool, cost float64) {
	if latencyMs < 0 {
		latencyMs = 0
	}
	r.collector.Record(id, domain.PerformanceSample{
		Timestamp: r.clock(),
		Tier:      tier,
		LatencyMs: latencyMs,
		Success:   success,
		Cost:      cost,
	})
}

// ReportOutcome records the sample and feeds health. On failure it returns
// the model the caller should retry with, on success the model itself.
func (r *Router) ReportOutcome(outcome domain.Outcome) domain.ModelDescriptor {
	r.TrackPerformance(outcome.ModelID, outcome.Tier, outcome.Latency.Milliseconds(), outcome.Success, outcome.Cost)
	r.recorder.RecordOutcome(outcome)

	if outcome.Success {
		r.registry.RecordOutcome(outcome.ModelID, true)
		if model, ok := r.registry.Get(outcome.ModelID); ok {
			return model
		}
		return r.registry.GetHealthy()
	}

	if outcome.UnhealthyFor > 0 {
		return r.markAndWalk(outcome.ModelID, outcome.UnhealthyFor, outcome.Error)
	}

	if r.registry.RecordOutcome(outcome.ModelID, false) {
		r.recorder.RecordUnhealthy(outcome.ModelID)
	}
	return r.nextHealthy(outcome.ModelID)
}

func (r *Router) GetPerformanceStats(id domain.ModelID) (domain.PerformanceStats, bool) {
	return r.collector.Stats(id)
}

func (r *Router) GetAllPerformanceStats() map[domain.ModelID]domain.PerformanceStats {
	return r.collector.AllStats()
}

func buildReasoning(verdict domain.ComplexityVerdict, model domain.ModelDescriptor, reason string, cost float64, candidates int) string {
	return fmt.Sprintf("%s complexity (confidence %.2f, rule %s), %d candidates, chose %s from %s (%s), estimated $%.5f",
		verdict.Tier, verdict.Confidence, verdict.Rule, candidates,
		model.ID, model.Provider.DisplayName(), reason, cost)
}
