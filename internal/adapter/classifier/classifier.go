package classifier

import (
	"strings"
	"unicode/utf8"

	"github.com/pam-ai/pamgate/internal/core/constants"
	"github.com/pam-ai/pamgate/internal/core/domain"
	"github.com/pam-ai/pamgate/internal/core/ports"
	"github.com/pam-ai/pamgate/internal/util"
)

// Rule names reported on the verdict, in evaluation order
const (
	RuleShortMessage      = "short_message"
	RuleGreeting          = "greeting"
	RuleComplexIndicators = "complex_indicators"
	RuleLongMessage       = "long_message"
	RuleMultiTool         = "multi_tool"
	RuleSingleTool        = "single_tool"
	RuleShortQuestion     = "short_question"
	RuleDefault           = "default"
)

// ComplexityClassifier is a pure function over the message text, the first
// matching rule wins and every rule is evaluated in order until one does
type ComplexityClassifier struct{}

var _ ports.ComplexityClassifier = (*ComplexityClassifier)(nil)

func NewComplexityClassifier() *ComplexityClassifier {
	return &ComplexityClassifier{}
}

func (c *ComplexityClassifier) Classify(message string) domain.ComplexityVerdict {
	// length is measured on the raw message, padding counts
	if utf8.RuneCountInString(message) < constants.ClassifierShortMessageLength {
		return verdict(RuleShortMessage, domain.TierSimple, constants.ConfidenceShortMessage)
	}

	trimmed := strings.TrimSpace(message)

	if greetingPattern.MatchString(trimmed) {
		return verdict(RuleGreeting, domain.TierSimple, constants.ConfidenceGreeting)
	}

	if CountComplexIndicators(trimmed) >= constants.ClassifierComplexIndicators {
		return verdict(RuleComplexIndicators, domain.TierComplex, constants.ConfidenceIndicators)
	}

	words := util.CountWords(trimmed)
	if words > constants.ClassifierComplexWordCount {
		return verdict(RuleLongMessage, domain.TierComplex, constants.ConfidenceLongMessage)
	}

	switch hits := CountToolKeywords(trimmed); {
	case hits >= constants.ClassifierComplexToolHits:
		return verdict(RuleMultiTool, domain.TierComplex, constants.ConfidenceMultiTool)
	case hits == 1:
		return verdict(RuleSingleTool, domain.TierMedium, constants.ConfidenceSingleTool)
	}

	if strings.Contains(trimmed, "?") && words < constants.ClassifierQuestionWordCount {
		return verdict(RuleShortQuestion, domain.TierSimple, constants.ConfidenceShortQuestion)
	}

	return verdict(RuleDefault, domain.TierMedium, constants.ConfidenceDefault)
}

// CountComplexIndicators returns how many indicator families appear in message
func CountComplexIndicators(message string) int {
	count := 0
	for _, p := range complexIndicators {
		if p.regex.MatchString(message) {
			count++
		}
	}
	return count
}

func CountToolKeywords(message string) int {
	return len(toolKeywords.FindAllStringIndex(message, -1))
}

func verdict(rule string, tier domain.ComplexityTier, confidence float64) domain.ComplexityVerdict {
	return domain.ComplexityVerdict{
		Rule:       rule,
		Tier:       tier,
		Confidence: confidence,
	}
}
