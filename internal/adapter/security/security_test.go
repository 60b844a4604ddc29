package security

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pam-ai/pamgate/internal/config"
	"github.com/pam-ai/pamgate/internal/core/constants"
	"github.com/pam-ai/pamgate/internal/logger"
)

type rejectionCounter struct {
	reasons []string
	mu      sync.Mutex
}

func (c *rejectionCounter) RecordRejection(reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reasons = append(c.reasons, reason)
}

func (c *rejectionCounter) all() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.reasons...)
}

func testLogger() logger.StyledLogger {
	return logger.NewPlainStyledLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func newTestRateLimiter(t *testing.T, limits config.ServerRateLimits) (*RateLimiter, *rejectionCounter, *time.Time) {
	t.Helper()
	counter := &rejectionCounter{}
	rl := NewRateLimiter(limits, counter, testLogger())
	t.Cleanup(rl.Stop)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rl.clock = func() time.Time { return now }
	return rl, counter, &now
}

func TestRateLimiter_PerClientBurst(t *testing.T) {
	rl, _, _ := newTestRateLimiter(t, config.ServerRateLimits{
		PerIPRequestsPerMinute: 60,
		BurstSize:              3,
	})

	for i := 0; i < 3; i++ {
		result := rl.Allow("10.0.0.1", false)
		require.True(t, result.Allowed, "request %d should fit the burst", i)
		assert.Equal(t, 60, result.RateLimit)
		assert.Equal(t, 60-(i+1), result.Remaining)
	}

	denied := rl.Allow("10.0.0.1", false)
	assert.False(t, denied.Allowed)
	assert.Equal(t, 2, denied.RetryAfter, "one token per second at 60 rpm")

	other := rl.Allow("10.0.0.2", false)
	assert.True(t, other.Allowed, "clients have independent buckets")
	assert.Equal(t, 2, rl.TrackedClients())
}

func TestRateLimiter_Refills(t *testing.T) {
	rl, _, now := newTestRateLimiter(t, config.ServerRateLimits{
		PerIPRequestsPerMinute: 60,
		BurstSize:              1,
	})

	require.True(t, rl.Allow("10.0.0.1", false).Allowed)
	require.False(t, rl.Allow("10.0.0.1", false).Allowed)

	*now = now.Add(time.Second)
	assert.True(t, rl.Allow("10.0.0.1", false).Allowed)
}

func TestRateLimiter_GlobalLimit(t *testing.T) {
	rl, _, _ := newTestRateLimiter(t, config.ServerRateLimits{
		GlobalRequestsPerMinute: 60,
		PerIPRequestsPerMinute:  600,
		BurstSize:               2,
	})

	assert.True(t, rl.Allow("10.0.0.1", false).Allowed)
	assert.True(t, rl.Allow("10.0.0.2", false).Allowed)

	result := rl.Allow("10.0.0.3", false)
	assert.False(t, result.Allowed)
	assert.Equal(t, "global rate limit exceeded", result.Reason)
}

func TestRateLimiter_HealthBucketIsSeparate(t *testing.T) {
	rl, _, _ := newTestRateLimiter(t, config.ServerRateLimits{
		GlobalRequestsPerMinute: 60,
		PerIPRequestsPerMinute:  60,
		HealthRequestsPerMinute: 600,
		BurstSize:               1,
	})

	require.True(t, rl.Allow("10.0.0.1", false).Allowed)
	require.False(t, rl.Allow("10.0.0.1", false).Allowed)

	health := rl.Allow("10.0.0.1", true)
	assert.True(t, health.Allowed)
	assert.Equal(t, 600, health.RateLimit)
}

func TestRateLimiter_DisabledLimit(t *testing.T) {
	rl, _, _ := newTestRateLimiter(t, config.ServerRateLimits{})

	for i := 0; i < 100; i++ {
		require.True(t, rl.Allow("10.0.0.1", false).Allowed)
	}
	assert.Zero(t, rl.TrackedClients())
}

func TestRateLimiter_CleanupStale(t *testing.T) {
	rl, _, now := newTestRateLimiter(t, config.ServerRateLimits{
		PerIPRequestsPerMinute: 60,
		BurstSize:              5,
	})

	rl.Allow("10.0.0.1", false)
	*now = now.Add(5 * time.Minute)
	rl.Allow("10.0.0.2", false)
	*now = now.Add(6 * time.Minute)

	rl.cleanupStale()

	assert.Equal(t, 1, rl.TrackedClients())
	_, ok := rl.clients.Load("10.0.0.2")
	assert.True(t, ok)
}

func TestRateLimiter_StopIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(config.ServerRateLimits{CleanupInterval: time.Millisecond}, nil, testLogger())
	rl.Stop()
	assert.NotPanics(t, rl.Stop)
}

func TestRateLimiter_Middleware(t *testing.T) {
	rl, counter, _ := newTestRateLimiter(t, config.ServerRateLimits{
		PerIPRequestsPerMinute: 60,
		BurstSize:              1,
	})
	handler := rl.Middleware(okHandler)

	req := httptest.NewRequest(http.MethodPost, constants.PathSafetyCheck, nil)
	req.RemoteAddr = "192.0.2.10:5555"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "59", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Reset"))

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("Retry-After"))
	assert.Equal(t, []string{constants.RejectionRateLimit}, counter.all())
}

func TestRateLimiter_MiddlewareTrustsProxyHeaders(t *testing.T) {
	rl, _, _ := newTestRateLimiter(t, config.ServerRateLimits{
		PerIPRequestsPerMinute: 60,
		BurstSize:              1,
		TrustProxyHeaders:      true,
	})
	handler := rl.Middleware(okHandler)

	for _, forwarded := range []string{"203.0.113.1", "203.0.113.2, 10.0.0.1"} {
		req := httptest.NewRequest(http.MethodPost, constants.PathAdmit, nil)
		req.RemoteAddr = "10.0.0.1:1234"
		req.Header.Set("X-Forwarded-For", forwarded)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, forwarded)
	}
	assert.Equal(t, 2, rl.TrackedClients())
}

func TestSizeLimiter_Check(t *testing.T) {
	sl := NewSizeLimiter(config.ServerRequestLimits{MaxBodySize: 64, MaxHeaderSize: 256}, nil, testLogger())

	t.Run("fits", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, constants.PathAdmit, strings.NewReader(`{"message":"hi"}`))
		_, status, err := sl.Check(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, status)
	})

	t.Run("body too large", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, constants.PathAdmit, bytes.NewReader(make([]byte, 65)))
		reason, status, err := sl.Check(req)
		require.Error(t, err)
		assert.Equal(t, constants.RejectionBodySize, reason)
		assert.Equal(t, http.StatusRequestEntityTooLarge, status)
	})

	t.Run("headers too large", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, constants.PathAdmit, nil)
		req.Header.Set("X-Padding", strings.Repeat("a", 300))
		reason, status, err := sl.Check(req)
		require.Error(t, err)
		assert.Equal(t, constants.RejectionHeaderSize, reason)
		assert.Equal(t, http.StatusRequestHeaderFieldsTooLarge, status)
	})
}

func TestSizeLimiter_Middleware(t *testing.T) {
	counter := &rejectionCounter{}
	sl := NewSizeLimiter(config.ServerRequestLimits{MaxBodySize: 16}, counter, testLogger())

	var readErr error
	handler := sl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, constants.PathAdmit, strings.NewReader(strings.Repeat("x", 32))))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, []string{constants.RejectionBodySize}, counter.all())

	t.Run("chunked body is capped while reading", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, constants.PathAdmit, strings.NewReader(strings.Repeat("x", 32)))
		req.ContentLength = -1

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		var maxErr *http.MaxBytesError
		assert.ErrorAs(t, readErr, &maxErr)
	})
}

func TestEstimateHeaderSize(t *testing.T) {
	headers := http.Header{"Accept": []string{"application/json"}}
	// request line: 4 + 7 + 8 + 4, header: 6 + 16 + 4
	assert.Equal(t, int64(49), estimateHeaderSize(headers, "POST", "/v1/abc", "HTTP/1.1"))
}
