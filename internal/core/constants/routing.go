package constants

import "time"

// Routing reasons, surfaced in ModelSelection.Reason and the X-PAM-Routing-Reason header
const (
	RoutingReasonDisabled        = "routing_disabled"
	RoutingReasonForced          = "forced_model"
	RoutingReasonCheapest        = "cheapest_healthy"
	RoutingReasonPreferred       = "preferred_model"
	RoutingReasonMedianCost      = "median_cost"
	RoutingReasonMostExpensive   = "highest_quality_proxy"
	RoutingReasonHealthyFallback = "healthy_fallback"
)

const (
	// ClassifierShortMessageLength anything shorter is treated as trivially simple
	ClassifierShortMessageLength = 5
	ClassifierComplexWordCount   = 30
	ClassifierQuestionWordCount  = 10
	ClassifierComplexIndicators  = 2
	ClassifierComplexToolHits    = 2

	ConfidenceShortMessage  = 0.9
	ConfidenceGreeting      = 0.8
	ConfidenceIndicators    = 0.85
	ConfidenceLongMessage   = 0.7
	ConfidenceMultiTool     = 0.75
	ConfidenceSingleTool    = 0.8
	ConfidenceShortQuestion = 0.7
	ConfidenceDefault       = 0.6
	ConfidenceRoutingBypass = 1.0
)

// Cost estimation, token counts are averages observed across PAM conversations
const (
	TokensPerCharacter        = 1.3
	SystemPromptTokens        = 500
	ConversationHistoryTokens = 1000
	AverageOutputTokens       = 500
	TokensPerMillion          = 1_000_000.0
)

const (
	// MaxPerformanceSamples per model, oldest are evicted first
	MaxPerformanceSamples = 100

	DefaultUnhealthyDuration     = 60 * time.Second
	DefaultModelFailureThreshold = 3
	DefaultModelFailureCooldown  = 60 * time.Second
)

// Tier preference lists, first healthy match wins before the cost based fallback
var (
	DefaultMediumPreferences  = []string{ModelGPT4oMini, ModelGeminiFlash, ModelClaudeHaiku}
	DefaultComplexPreferences = []string{ModelClaudeSonnet, ModelGPT5, ModelGeminiPro, ModelGPT4o}
)
