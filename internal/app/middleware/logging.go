package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pam-ai/pamgate/internal/core/constants"
	"github.com/pam-ai/pamgate/internal/logger"
	"github.com/pam-ai/pamgate/internal/util"
	"github.com/pam-ai/pamgate/pkg/format"
)

// responseWriter wraps http.ResponseWriter to capture response size and status
type responseWriter struct {
	http.ResponseWriter
	status int
	size   int64
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	size, err := rw.ResponseWriter.Write(b)
	rw.size += int64(size)
	return size, err
}

func (rw *responseWriter) WriteHeader(s int) {
	rw.status = s
	rw.ResponseWriter.WriteHeader(s)
}

// IsDecisionRequest reports whether path is one of the /pam/ decision routes.
// Those log their own outcome so the access line drops to debug.
func IsDecisionRequest(path string) bool {
	return strings.HasPrefix(path, constants.DefaultPamPathPrefix)
}

// GetRequestID retrieves the request ID from context
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(constants.ContextRequestIdKey).(string); ok {
		return requestID
	}
	return ""
}

// RequestID stamps every request with an id (caller supplied X-Request-ID
// wins) and echoes it on the response. Always installed, even when request
// logging is off, because the gate and router tag their logs with it.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := GetRequestID(r.Context())
		if requestID == "" {
			requestID = util.RequestIDFrom(r)
			r = r.WithContext(context.WithValue(r.Context(), constants.ContextRequestIdKey, requestID))
		}
		w.Header().Set(util.RequestIDHeader, requestID)
		next.ServeHTTP(w, r)
	})
}

// EnhancedLoggingMiddleware logs request start and completion with sizes and timing
func EnhancedLoggingMiddleware(styledLogger logger.StyledLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := GetRequestID(r.Context())
			log := styledLogger.WithRequestID(requestID)

			requestSize := max(r.ContentLength, 0)

			wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}

			logFields := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
				"user_agent", r.UserAgent(),
				"request_bytes", requestSize,
			}
			decision := IsDecisionRequest(r.URL.Path)
			if decision {
				log.Debug("Request started", logFields...)
			} else {
				log.Info("Request started", logFields...)
			}

			next.ServeHTTP(wrapped, r)

			duration := time.Since(start)
			completionFields := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapped.status,
				"duration_ms", duration.Milliseconds(),
				"duration_formatted", format.Duration(duration),
				"size_flow", fmt.Sprintf("%s -> %s", format.Bytes(uint64(requestSize)), format.Bytes(uint64(wrapped.size))),
			}

			switch {
			case wrapped.status >= http.StatusInternalServerError:
				log.Error("Request completed", completionFields...)
			case decision:
				log.Debug("Request completed", completionFields...)
			default:
				log.Info("Request completed", completionFields...)
			}
		}))
	}
}
