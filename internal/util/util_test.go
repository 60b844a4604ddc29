package util

import (
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		limit int
	}{
		{name: "short string untouched", input: "hello", limit: 10, want: "hello"},
		{name: "exact length untouched", input: "hello", limit: 5, want: "hello"},
		{name: "cut with ellipsis", input: "hello world", limit: 5, want: "hello..."},
		{name: "zero limit", input: "hello", limit: 0, want: ""},
		{name: "multi byte safe", input: "héllo wörld", limit: 4, want: "héll..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.input, tt.limit)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestTruncate_LongMessage(t *testing.T) {
	msg := strings.Repeat("日本語", 100)
	got := Truncate(msg, 100)

	assert.Equal(t, 103, utf8.RuneCountInString(got))
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestCountWords(t *testing.T) {
	assert.Equal(t, 0, CountWords("   "))
	assert.Equal(t, 3, CountWords("plan a\ttrip"))
}

func TestRequestIDFrom(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	generated := RequestIDFrom(req)
	assert.True(t, strings.HasPrefix(generated, "pam_"))
	assert.Len(t, generated, 16)

	req.Header.Set(RequestIDHeader, "caller-123")
	assert.Equal(t, "caller-123", RequestIDFrom(req))
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")

	assert.Equal(t, "10.0.0.1", GetClientIP(req, false))
	assert.Equal(t, "203.0.113.9", GetClientIP(req, true))
}
