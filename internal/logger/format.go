package logger

import (
	"log/slog"
	"strings"

	"github.com/pam-ai/pamgate/internal/util"
)

// PreviewLength caps how much user text reaches the logs
const PreviewLength = 100

// Preview is the only way user messages should be attached to a log line,
// a non positive limit uses PreviewLength
func Preview(key, text string, limit int) slog.Attr {
	if limit <= 0 {
		limit = PreviewLength
	}
	return slog.String(key, util.Truncate(text, limit))
}

func stripAnsiCodes(s string) string {
	// matches \x1b[...m sequences without reaching for regexp on the hot path
	var b strings.Builder
	b.Grow(len(s))

	inEscape := false

	for i := 0; i < len(s); i++ {
		if !inEscape {
			if s[i] == '\x1b' && i+1 < len(s) && s[i+1] == '[' {
				inEscape = true
				i++ // skip the '['
				continue
			}
			b.WriteByte(s[i])
			continue
		}

		// in an escape sequence, the final letter ends it
		if (s[i] >= 'A' && s[i] <= 'Z') || (s[i] >= 'a' && s[i] <= 'z') {
			inEscape = false
		}
	}

	return b.String()
}
