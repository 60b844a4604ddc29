package constants

const (
	ProviderTypeAnthropic  = "anthropic"
	ProviderTypeOpenAI     = "openai"
	ProviderTypeGoogle     = "google"
	ProviderTypeOpenRouter = "openrouter"

	// Provider display names
	ProviderDisplayAnthropic  = "Anthropic"
	ProviderDisplayOpenAI     = "OpenAI"
	ProviderDisplayGoogle     = "Google"
	ProviderDisplayOpenRouter = "OpenRouter"
)

// Known model ids, these need to line up with the embedded catalog
const (
	ModelClaudeSonnet = "claude-sonnet-4-5"
	ModelClaudeHaiku  = "claude-haiku-4-5"
	ModelGPT5         = "gpt-5"
	ModelGPT4o        = "gpt-4o"
	ModelGPT4oMini    = "gpt-4o-mini"
	ModelGeminiPro    = "gemini-2.5-pro"
	ModelGeminiFlash  = "gemini-2.5-flash"
	ModelLlama70B     = "llama-3.3-70b-instruct"

	// DefaultPrimaryModel is what we fall back to when PRIMARY_MODEL is unset or unknown
	DefaultPrimaryModel = ModelClaudeSonnet
)

// DefaultFallbackModels is the chain used when no FALLBACK_MODEL_N is configured
var DefaultFallbackModels = []string{ModelGPT4o, ModelGeminiFlash}
