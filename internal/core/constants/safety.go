package constants

import "time"

// Detection methods reported on every SafetyVerdict
const (
	DetectionMethodRegex            = "regex"
	DetectionMethodLLM              = "llm"
	DetectionMethodRegexOnly        = "regex_only"
	DetectionMethodCircuitOpen      = "circuit_open"
	DetectionMethodLLMErrorFallback = "llm_error_fallback"
)

// Stage-1 pattern families, evaluated in this order
const (
	PatternFamilySystemOverride     = "system_override"
	PatternFamilyRoleSwitch         = "role_switch"
	PatternFamilyNewInstructions    = "new_instructions"
	PatternFamilyCodeExecution      = "code_execution"
	PatternFamilyDataExfiltration   = "data_exfiltration"
	PatternFamilyJailbreakAlias     = "jailbreak_alias"
	PatternFamilyDelimiterConfusion = "delimiter_confusion"
)

const (
	ConfidenceRegexMatch    = 0.9
	ConfidenceFailOpen      = 0.7
	ConfidenceRegexOnly     = 0.6
	ConfidenceLLMUnreported = 0.5

	DefaultCircuitFailureThreshold = 3
	DefaultCircuitOpenDuration     = 60 * time.Second
	DefaultValidatorTimeout        = 3 * time.Second
	DefaultValidatorRPS            = 20
	DefaultPreviewLength           = 100

	ValidatorProviderOpenAI = "openai"
	ValidatorProviderGemini = "gemini"
)
