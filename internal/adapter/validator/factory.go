package validator

import (
	"context"
	"fmt"
	"strings"

	"github.com/pam-ai/pamgate/internal/core/constants"
	"github.com/pam-ai/pamgate/internal/core/ports"
	"github.com/pam-ai/pamgate/internal/logger"
)

// New builds the validator for cfg.Provider
func New(ctx context.Context, cfg Config, log logger.StyledLogger) (ports.SafetyValidator, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case constants.ValidatorProviderOpenAI, "":
		return NewOpenAIValidator(cfg, log)
	case constants.ValidatorProviderGemini:
		return NewGeminiValidator(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("unknown safety validator provider: %s", cfg.Provider)
	}
}
