package cost

import (
	"github.com/pam-ai/pamgate/internal/core/constants"
	"github.com/pam-ai/pamgate/internal/core/domain"
	"github.com/pam-ai/pamgate/internal/core/ports"
)

// Estimator prices a single turn from the message length alone. Input covers
// the message plus the fixed system prompt and history allowance, output is
// the average reply size.
type Estimator struct {
	tokensPerChar float64
	systemTokens  float64
	historyTokens float64
	outputTokens  float64
}

var _ ports.CostEstimator = (*Estimator)(nil)

func NewEstimator() *Estimator {
	return &Estimator{
		tokensPerChar: constants.TokensPerCharacter,
		systemTokens:  constants.SystemPromptTokens,
		historyTokens: constants.ConversationHistoryTokens,
		outputTokens:  constants.AverageOutputTokens,
	}
}

func (e *Estimator) InputTokens(messageLength int) float64 {
	if messageLength < 0 {
		messageLength = 0
	}
	return float64(messageLength)*e.tokensPerChar + e.systemTokens + e.historyTokens
}

func (e *Estimator) Estimate(model domain.ModelDescriptor, messageLength int) float64 {
	input := e.InputTokens(messageLength)
	return (input/constants.TokensPerMillion)*model.CostInPerMillion +
		(e.outputTokens/constants.TokensPerMillion)*model.CostOutPerMillion
}
