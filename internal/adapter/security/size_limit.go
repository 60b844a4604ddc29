package security

import (
	"fmt"
	"net/http"

	"github.com/docker/go-units"

	"github.com/pam-ai/pamgate/internal/config"
	"github.com/pam-ai/pamgate/internal/core/constants"
	"github.com/pam-ai/pamgate/internal/logger"
)

// SizeLimiter rejects oversized requests before any body is read. It holds
// no mutable state.
type SizeLimiter struct {
	logger        logger.StyledLogger
	rejections    RejectionRecorder
	maxBodySize   int64
	maxHeaderSize int64
}

func NewSizeLimiter(limits config.ServerRequestLimits, rejections RejectionRecorder, log logger.StyledLogger) *SizeLimiter {
	if rejections == nil {
		rejections = noopRejections{}
	}
	return &SizeLimiter{
		logger:        log,
		rejections:    rejections,
		maxBodySize:   limits.MaxBodySize,
		maxHeaderSize: limits.MaxHeaderSize,
	}
}

// Check returns the rejection reason and status for r, or "" when it fits
func (sl *SizeLimiter) Check(r *http.Request) (reason string, status int, err error) {
	if sl.maxHeaderSize > 0 {
		if size := estimateHeaderSize(r.Header, r.Method, r.URL.RequestURI(), r.Proto); size > sl.maxHeaderSize {
			return constants.RejectionHeaderSize, http.StatusRequestHeaderFieldsTooLarge,
				fmt.Errorf("header size %s exceeds limit %s", units.HumanSize(float64(size)), units.HumanSize(float64(sl.maxHeaderSize)))
		}
	}

	if sl.maxBodySize > 0 && r.ContentLength > sl.maxBodySize {
		return constants.RejectionBodySize, http.StatusRequestEntityTooLarge,
			fmt.Errorf("content-length %s exceeds limit %s", units.HumanSize(float64(r.ContentLength)), units.HumanSize(float64(sl.maxBodySize)))
	}

	return "", http.StatusOK, nil
}

func (sl *SizeLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reason, status, err := sl.Check(r)
		if err != nil {
			sl.rejections.RecordRejection(reason)
			sl.logger.Warn("Request rejected",
				"reason", err.Error(),
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr)

			http.Error(w, http.StatusText(status), status)
			return
		}

		// chunked bodies carry no content-length, cap them while reading
		if sl.maxBodySize > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, sl.maxBodySize)
		}

		next.ServeHTTP(w, r)
	})
}

func estimateHeaderSize(headers http.Header, method, uri, proto string) int64 {
	totalSize := int64(len(method) + len(uri) + len(proto) + 4)

	for name, values := range headers {
		totalSize += int64(len(name))
		for _, value := range values {
			totalSize += int64(len(value) + 4)
		}
	}

	return totalSize
}
