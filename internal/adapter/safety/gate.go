package safety

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/pam-ai/pamgate/internal/adapter/health"
	"github.com/pam-ai/pamgate/internal/core/constants"
	"github.com/pam-ai/pamgate/internal/core/domain"
	"github.com/pam-ai/pamgate/internal/core/ports"
	"github.com/pam-ai/pamgate/internal/logger"
)

type GateConfig struct {
	AllowList        []string
	Timeout          time.Duration
	OpenDuration     time.Duration
	CircuitThreshold int
	PreviewLength    int
	ValidatorEnabled bool
}

func DefaultGateConfig() GateConfig {
	return GateConfig{
		ValidatorEnabled: true,
		Timeout:          constants.DefaultValidatorTimeout,
		OpenDuration:     constants.DefaultCircuitOpenDuration,
		CircuitThreshold: constants.DefaultCircuitFailureThreshold,
		PreviewLength:    constants.DefaultPreviewLength,
	}
}

func (c GateConfig) withDefaults() GateConfig {
	if c.Timeout <= 0 {
		c.Timeout = constants.DefaultValidatorTimeout
	}
	if c.OpenDuration <= 0 {
		c.OpenDuration = constants.DefaultCircuitOpenDuration
	}
	if c.CircuitThreshold <= 0 {
		c.CircuitThreshold = constants.DefaultCircuitFailureThreshold
	}
	if c.PreviewLength <= 0 {
		c.PreviewLength = constants.DefaultPreviewLength
	}
	return c
}

type gateState struct {
	chain   *ports.DetectorChain
	breaker *health.CircuitBreaker
	config  GateConfig
}

// Gate is the two stage injection check. Stage 1 runs the local detector
// chain, stage 2 asks the remote validator behind a circuit breaker. Check
// always returns a verdict, validator trouble fails open.
type Gate struct {
	validator ports.SafetyValidator
	recorder  ports.DecisionRecorder
	logger    logger.StyledLogger
	clock     func() time.Time
	state     atomic.Pointer[gateState]
}

var _ ports.SafetyGate = (*Gate)(nil)

type GateDependencies struct {
	// Validator may be nil when stage 2 is disabled
	Validator ports.SafetyValidator
	Recorder  ports.DecisionRecorder
	Clock     func() time.Time
}

func NewGate(deps GateDependencies, cfg GateConfig, log logger.StyledLogger) (*Gate, error) {
	if deps.Recorder == nil {
		deps.Recorder = ports.NoopRecorder{}
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}

	g := &Gate{
		validator: deps.Validator,
		recorder:  deps.Recorder,
		logger:    log,
		clock:     deps.Clock,
	}
	if err := g.UpdateConfig(cfg); err != nil {
		return nil, err
	}
	return g, nil
}

// UpdateConfig swaps the tunables. The breaker survives unless its threshold
// or window changed.
func (g *Gate) UpdateConfig(cfg GateConfig) error {
	cfg = cfg.withDefaults()

	allowList, err := NewAllowListDetector(cfg.AllowList)
	if err != nil {
		return err
	}

	next := &gateState{
		config: cfg,
		chain:  ports.NewDetectorChain(allowList, NewRegexDetector()),
	}

	current := g.state.Load()
	if current != nil &&
		current.config.CircuitThreshold == cfg.CircuitThreshold &&
		current.config.OpenDuration == cfg.OpenDuration {
		next.breaker = current.breaker
	} else {
		next.breaker = health.NewCircuitBreaker(health.CircuitBreakerConfig{
			FailureThreshold: cfg.CircuitThreshold,
			OpenDuration:     cfg.OpenDuration,
			HalfOpenRequests: health.DefaultHalfOpenRequests,
			Clock:            g.clock,
		})
	}

	if cfg.ValidatorEnabled && g.validator == nil {
		g.logger.Warn("Safety validator enabled but none configured, running regex only")
		next.config.ValidatorEnabled = false
	}

	g.state.Store(next)
	return nil
}

func (g *Gate) Config() GateConfig {
	return g.state.Load().config
}

func (g *Gate) CircuitStatus() domain.CircuitStatus {
	return g.state.Load().breaker.Status()
}

func (g *Gate) Check(ctx context.Context, message string, rc domain.RequestContext) domain.SafetyVerdict {
	start := g.clock()
	state := g.state.Load()
	if rc.RequestID == "" {
		if id, ok := ctx.Value(constants.ContextRequestIdKey).(string); ok {
			rc.RequestID = id
		}
	}

	normalized := Normalize(message)
	req := &ports.DetectionRequest{
		Context: rc,
		Text:    normalized,
	}

	var verdict domain.SafetyVerdict
	if finding := state.chain.Detect(ctx, req); finding.Matched {
		verdict = domain.SafetyVerdict{
			IsMalicious:     true,
			Confidence:      finding.Confidence,
			Reason:          finding.Reason,
			AttackType:      finding.Family,
			DetectionMethod: domain.DetectionRegex,
		}
	} else {
		verdict = g.remoteCheck(ctx, state, normalized, rc)
	}

	verdict.LatencyMs = float64(g.clock().Sub(start).Microseconds()) / 1000.0

	if verdict.IsMalicious {
		g.logger.WarnWithContext("Prompt injection detected", string(verdict.DetectionMethod), logger.LogContext{
			UserArgs: []any{
				"attack_type", verdict.AttackType,
				"confidence", verdict.Confidence,
				"user_id", rc.UserID,
				"request_id", rc.RequestID,
			},
			DetailedArgs: []any{
				"reason", verdict.Reason,
				"session_id", rc.SessionID,
				"latency_ms", verdict.LatencyMs,
				logger.Preview("preview", message, state.config.PreviewLength),
			},
		})
	} else if verdict.DetectionMethod == domain.DetectionLLM {
		g.logger.InfoVerdict("Safety validator", false,
			"confidence", verdict.Confidence,
			"latency_ms", verdict.LatencyMs,
			"request_id", rc.RequestID)
	} else {
		g.logger.Debug("Safety check passed",
			"method", verdict.DetectionMethod.String(),
			"confidence", verdict.Confidence,
			"latency_ms", verdict.LatencyMs,
			"request_id", rc.RequestID)
	}

	g.recorder.RecordSafetyVerdict(verdict)
	return verdict
}

func (g *Gate) remoteCheck(ctx context.Context, state *gateState, normalized string, rc domain.RequestContext) domain.SafetyVerdict {
	if !state.config.ValidatorEnabled {
		return domain.SafetyVerdict{
			Confidence:      constants.ConfidenceRegexOnly,
			Reason:          "no local pattern matched, remote validation disabled",
			DetectionMethod: domain.DetectionRegexOnly,
		}
	}

	if !state.breaker.Allow() {
		status := state.breaker.Status()
		args := []any{"request_id", rc.RequestID, "failures", status.ConsecutiveFailures}
		if status.OpenUntil != nil {
			args = append(args, "open_until", status.OpenUntil.Format(time.RFC3339))
		}
		g.logger.Warn("Safety validator circuit open, failing open", args...)
		return domain.SafetyVerdict{
			Confidence:      constants.ConfidenceFailOpen,
			Reason:          "remote validation skipped, circuit open",
			DetectionMethod: domain.DetectionCircuitOpen,
		}
	}

	parsed, err := g.validate(ctx, state, normalized, rc)
	if err != nil {
		opened := state.breaker.RecordFailure()
		g.logger.Warn("Safety validator failed, failing open",
			"validator", g.validator.Name(),
			"error", err,
			"request_id", rc.RequestID)
		if opened {
			g.logger.WarnWithContext("Safety validator circuit opened", g.validator.Name(), logger.LogContext{
				UserArgs:     []any{"threshold", state.config.CircuitThreshold, "open_for", state.config.OpenDuration},
				DetailedArgs: []any{"last_error", err},
			})
			g.recorder.RecordCircuitOpen(true)
		}
		return domain.SafetyVerdict{
			Confidence:      constants.ConfidenceFailOpen,
			Reason:          "remote validation failed: " + err.Error(),
			DetectionMethod: domain.DetectionLLMErrorFallback,
		}
	}

	if state.breaker.RecordSuccess() {
		g.logger.Info("Safety validator circuit closed", "validator", g.validator.Name())
		g.recorder.RecordCircuitOpen(false)
	}

	return domain.SafetyVerdict{
		IsMalicious:     parsed.IsMalicious,
		Confidence:      parsed.Confidence,
		Reason:          parsed.Reason,
		AttackType:      parsed.AttackType,
		DetectionMethod: domain.DetectionLLM,
	}
}

func (g *Gate) validate(ctx context.Context, state *gateState, normalized string, rc domain.RequestContext) (ValidatorVerdict, error) {
	callCtx, cancel := context.WithTimeout(ctx, state.config.Timeout)
	defer cancel()

	raw, err := g.validator.Validate(callCtx, ports.ValidationRequest{
		Context:     rc,
		Instruction: validationInstruction,
		Prompt:      buildValidationPrompt(normalized, rc),
	})
	if err != nil {
		return ValidatorVerdict{}, fmt.Errorf("validator %s: %w", g.validator.Name(), err)
	}
	// a validator that ignores ctx still counts as timed out
	if callErr := callCtx.Err(); callErr != nil {
		return ValidatorVerdict{}, fmt.Errorf("validator %s: %w", g.validator.Name(), callErr)
	}

	verdict, err := ParseVerdict(raw)
	if err != nil {
		g.logger.Debug("Unparseable validator response", slog.String("validator", g.validator.Name()), "error", err)
		return ValidatorVerdict{}, err
	}
	return verdict, nil
}
