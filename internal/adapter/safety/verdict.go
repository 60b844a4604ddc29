package safety

import (
	"errors"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/pam-ai/pamgate/internal/core/constants"
	"github.com/pam-ai/pamgate/internal/core/domain"
)

var (
	errNoJSONObject    = errors.New("no JSON object in response")
	errInvalidJSON     = errors.New("response is not valid JSON")
	errMissingVerdict  = errors.New("is_malicious missing or not a boolean")
	errEmptyValidation = errors.New("empty validator response")
)

// ValidatorVerdict is the decoded stage 2 answer
type ValidatorVerdict struct {
	Reason      string
	AttackType  string
	Confidence  float64
	IsMalicious bool
}

// ParseVerdict accepts the raw model text, tolerating markdown fences and
// chatter around the JSON object
func ParseVerdict(raw string) (ValidatorVerdict, error) {
	text := stripCodeFences(strings.TrimSpace(raw))
	if text == "" {
		return ValidatorVerdict{}, &domain.VerdictParseError{Payload: raw, Err: errEmptyValidation}
	}

	obj, ok := firstJSONObject(text)
	if !ok {
		return ValidatorVerdict{}, &domain.VerdictParseError{Payload: truncatePayload(raw), Err: errNoJSONObject}
	}
	if !gjson.Valid(obj) {
		return ValidatorVerdict{}, &domain.VerdictParseError{Payload: truncatePayload(raw), Err: errInvalidJSON}
	}

	result := gjson.Parse(obj)

	malicious := result.Get("is_malicious")
	if malicious.Type != gjson.True && malicious.Type != gjson.False {
		return ValidatorVerdict{}, &domain.VerdictParseError{Payload: truncatePayload(raw), Err: errMissingVerdict}
	}

	verdict := ValidatorVerdict{
		IsMalicious: malicious.Bool(),
		Confidence:  constants.ConfidenceLLMUnreported,
		Reason:      result.Get("reason").String(),
	}
	if conf := result.Get("confidence"); conf.Type == gjson.Number {
		verdict.Confidence = clamp01(conf.Float())
	}
	if attack := result.Get("attack_type"); attack.Type == gjson.String {
		verdict.AttackType = attack.String()
	}
	return verdict, nil
}

func stripCodeFences(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	// drop the opening fence line including any language tag
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[nl+1:]
	} else {
		text = strings.TrimPrefix(text, "```")
	}
	if end := strings.LastIndex(text, "```"); end >= 0 {
		text = text[:end]
	}
	return strings.TrimSpace(text)
}

// firstJSONObject finds the first balanced {...}, braces inside strings are
// ignored
func firstJSONObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

func truncatePayload(raw string) string {
	const maxPayload = 200
	if len(raw) <= maxPayload {
		return raw
	}
	return raw[:maxPayload] + "..."
}
