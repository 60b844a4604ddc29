package validator

import (
	"time"

	"github.com/pam-ai/pamgate/internal/core/constants"
)

const (
	DefaultOpenAIEndpoint = "https://api.openai.com/v1"
	DefaultOpenAIModel    = "gpt-4o-mini"
	DefaultGeminiModel    = "gemini-2.5-flash"

	defaultMaxTokens    = 256
	maxResponseBodySize = 1 << 20
)

// Config describes the remote stage 2 validator
type Config struct {
	Provider          string
	Endpoint          string
	Model             string
	APIKey            string
	HTTPTimeout       time.Duration
	RequestsPerSecond float64
	MaxTokens         int
}

func (c Config) withDefaults() Config {
	if c.RequestsPerSecond <= 0 {
		c.RequestsPerSecond = constants.DefaultValidatorRPS
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = defaultMaxTokens
	}
	if c.HTTPTimeout <= 0 {
		// the gate applies its own shorter deadline per call
		c.HTTPTimeout = 10 * time.Second
	}
	return c
}
