package validator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"github.com/pam-ai/pamgate/internal/core/domain"
	"github.com/pam-ai/pamgate/internal/core/ports"
	"github.com/pam-ai/pamgate/internal/logger"
)

var (
	errMissingAPIKey   = errors.New("api key not configured")
	errEmptyCompletion = errors.New("no completion returned")
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	Temperature    float64         `json:"temperature"`
}

// OpenAIValidator talks to any OpenAI compatible chat completions endpoint
type OpenAIValidator struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     logger.StyledLogger
	endpoint   string
	model      string
	apiKey     string
	maxTokens  int
}

var _ ports.SafetyValidator = (*OpenAIValidator)(nil)

func NewOpenAIValidator(cfg Config, log logger.StyledLogger) (*OpenAIValidator, error) {
	cfg = cfg.withDefaults()
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai validator: %w", errMissingAPIKey)
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultOpenAIEndpoint
	}
	if cfg.Model == "" {
		cfg.Model = DefaultOpenAIModel
	}

	burst := int(cfg.RequestsPerSecond)
	if burst < 1 {
		burst = 1
	}

	return &OpenAIValidator{
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst),
		logger:     log,
		endpoint:   strings.TrimSuffix(cfg.Endpoint, "/"),
		model:      cfg.Model,
		apiKey:     cfg.APIKey,
		maxTokens:  cfg.MaxTokens,
	}, nil
}

func (v *OpenAIValidator) Name() string {
	return "openai:" + v.model
}

func (v *OpenAIValidator) Validate(ctx context.Context, req ports.ValidationRequest) (string, error) {
	start := time.Now()

	// waiting for a token counts against the caller's deadline
	if err := v.limiter.Wait(ctx); err != nil {
		return "", domain.NewValidatorError(v.Name(), 0, time.Since(start), fmt.Errorf("rate limited: %w", err))
	}

	payload, err := json.Marshal(chatRequest{
		Model: v.model,
		Messages: []chatMessage{
			{Role: "system", Content: req.Instruction},
			{Role: "user", Content: req.Prompt},
		},
		MaxTokens:      v.maxTokens,
		Temperature:    0,
		ResponseFormat: &responseFormat{Type: "json_object"},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+v.apiKey)
	if req.Context.RequestID != "" {
		httpReq.Header.Set("X-Request-ID", req.Context.RequestID)
	}

	resp, err := v.httpClient.Do(httpReq)
	if err != nil {
		return "", domain.NewValidatorError(v.Name(), 0, time.Since(start), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return "", domain.NewValidatorError(v.Name(), resp.StatusCode, time.Since(start), fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		msg := gjson.GetBytes(body, "error.message").String()
		if msg == "" {
			msg = strings.TrimSpace(string(body))
		}
		return "", domain.NewValidatorError(v.Name(), resp.StatusCode, time.Since(start), errors.New(msg))
	}

	content := gjson.GetBytes(body, "choices.0.message.content")
	if !content.Exists() || strings.TrimSpace(content.String()) == "" {
		return "", domain.NewValidatorError(v.Name(), resp.StatusCode, time.Since(start), errEmptyCompletion)
	}

	v.logger.Debug("Safety validator responded",
		"validator", v.Name(),
		"latency", time.Since(start),
		"tokens", gjson.GetBytes(body, "usage.total_tokens").Int())

	return content.String(), nil
}
