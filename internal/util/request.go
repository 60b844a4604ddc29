package util

import (
	"net"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// GenerateRequestID returns a short random id, prefixed so it stands out in logs
func GenerateRequestID() string {
	id := uuid.New().String()
	return "pam_" + strings.ReplaceAll(id[:13], "-", "")
}

// RequestIDFrom prefers a caller supplied id over generating a new one
func RequestIDFrom(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(RequestIDHeader)); id != "" && len(id) <= 128 {
		return id
	}
	return GenerateRequestID()
}

func GetClientIP(r *http.Request, trustProxyHeaders bool) string {
	if trustProxyHeaders {
		if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
			return strings.TrimSpace(strings.Split(ip, ",")[0])
		}
		if ip := r.Header.Get("X-Real-IP"); ip != "" {
			return strings.TrimSpace(ip)
		}
	}

	if ip, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return ip
	}
	return r.RemoteAddr
}
