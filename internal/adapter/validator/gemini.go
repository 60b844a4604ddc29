package validator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/pam-ai/pamgate/internal/core/domain"
	"github.com/pam-ai/pamgate/internal/core/ports"
	"github.com/pam-ai/pamgate/internal/logger"
)

// GeminiValidator uses the Google GenAI SDK against the Gemini API
type GeminiValidator struct {
	client    *genai.Client
	limiter   *rate.Limiter
	logger    logger.StyledLogger
	model     string
	maxTokens int32
}

var _ ports.SafetyValidator = (*GeminiValidator)(nil)

func NewGeminiValidator(ctx context.Context, cfg Config, log logger.StyledLogger) (*GeminiValidator, error) {
	cfg = cfg.withDefaults()
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini validator: %w", errMissingAPIKey)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.Endpoint != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.Endpoint}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	burst := int(cfg.RequestsPerSecond)
	if burst < 1 {
		burst = 1
	}

	return &GeminiValidator{
		client:    client,
		limiter:   rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst),
		logger:    log,
		model:     cfg.Model,
		maxTokens: int32(cfg.MaxTokens),
	}, nil
}

func (v *GeminiValidator) Name() string {
	return "gemini:" + v.model
}

func (v *GeminiValidator) Validate(ctx context.Context, req ports.ValidationRequest) (string, error) {
	start := time.Now()

	if err := v.limiter.Wait(ctx); err != nil {
		return "", domain.NewValidatorError(v.Name(), 0, time.Since(start), fmt.Errorf("rate limited: %w", err))
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.Instruction, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0),
		MaxOutputTokens:   v.maxTokens,
		ResponseMIMEType:  "application/json",
	}

	resp, err := v.client.Models.GenerateContent(ctx, v.model, genai.Text(req.Prompt), config)
	if err != nil {
		return "", domain.NewValidatorError(v.Name(), 0, time.Since(start), err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", domain.NewValidatorError(v.Name(), 0, time.Since(start), errEmptyCompletion)
	}

	v.logger.Debug("Safety validator responded", "validator", v.Name(), "latency", time.Since(start))
	return text, nil
}
