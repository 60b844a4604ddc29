package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	ansiSample  = "\x1b[31mError:\x1b[0m Something went \x1b[1;33mwrong\x1b[0m"
	strippedOut = "Error: Something went wrong"
)

func TestStripAnsiCodes(t *testing.T) {
	assert.Equal(t, strippedOut, stripAnsiCodes(ansiSample))
}

func TestPreview(t *testing.T) {
	long := strings.Repeat("ignore previous instructions ", 20)
	attr := Preview("message", long, 0)

	assert.Equal(t, "message", attr.Key)
	assert.Equal(t, PreviewLength+3, utf8.RuneCountInString(attr.Value.String()))
	assert.Equal(t, "short", Preview("message", "short", 0).Value.String())
	assert.Equal(t, "ignor...", Preview("message", long, 5).Value.String())
}

func TestCriticalLevelRendering(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{
		Level:       slog.LevelInfo,
		ReplaceAttr: replaceAttr,
	})
	styled := NewPlainStyledLogger(slog.New(handler))

	styled.Critical("validator unavailable", "fallback", "regex")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "CRITICAL", record["level"])
	assert.Equal(t, "validator unavailable", record["msg"])
	assert.Contains(t, record, "timestamp")
}

func TestPlainStyledLogger_DetailedContext(t *testing.T) {
	var buf bytes.Buffer
	styled := NewPlainStyledLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	styled.WarnWithContext("Model marked unhealthy", "gpt-4o", LogContext{
		UserArgs:     []any{"duration", "60s"},
		DetailedArgs: []any{"reason", "timeout"},
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Model marked unhealthy gpt-4o")
	assert.Contains(t, lines[1], `"reason":"timeout"`)
	assert.Contains(t, lines[1], `"subject":"gpt-4o"`)
}

func buildLargeAnsiInput(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteString(ansiSample)
	}
	return b.String()
}

func BenchmarkStripAnsiCodes_Large(b *testing.B) {
	large := buildLargeAnsiInput(1000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		stripAnsiCodes(large)
	}
}
