package security

/*
	RateLimiter enforces a global and a per-client token bucket in front of the
	gate API. Health probes draw from their own bucket so monitoring never
	starves callers (and vice versa). Idle client buckets are swept on a ticker.
*/

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync/v4"
	"golang.org/x/time/rate"

	"github.com/pam-ai/pamgate/internal/config"
	"github.com/pam-ai/pamgate/internal/core/constants"
	"github.com/pam-ai/pamgate/internal/logger"
	"github.com/pam-ai/pamgate/internal/util"
)

const (
	healthBucketSuffix = ":health"
	staleLimiterAge    = 10 * time.Minute
)

type RateLimiter struct {
	logger     logger.StyledLogger
	rejections RejectionRecorder
	clock      func() time.Time

	globalLimiter *rate.Limiter
	clients       *xsync.Map[string, *clientLimiter]
	cleanupTicker *time.Ticker
	stopCleanup   chan struct{}

	perIPRequestsPerMinute  int
	healthRequestsPerMinute int
	burstSize               int
	stopOnce                sync.Once
	trustProxyHeaders       bool
}

type clientLimiter struct {
	lastAccess  time.Time
	windowStart time.Time
	limiter     *rate.Limiter
	tokensUsed  int
	mu          sync.Mutex
}

func NewRateLimiter(limits config.ServerRateLimits, rejections RejectionRecorder, log logger.StyledLogger) *RateLimiter {
	if rejections == nil {
		rejections = noopRejections{}
	}

	rl := &RateLimiter{
		logger:                  log,
		rejections:              rejections,
		clock:                   time.Now,
		clients:                 xsync.NewMap[string, *clientLimiter](),
		stopCleanup:             make(chan struct{}),
		perIPRequestsPerMinute:  limits.PerIPRequestsPerMinute,
		healthRequestsPerMinute: limits.HealthRequestsPerMinute,
		burstSize:               max(1, limits.BurstSize),
		trustProxyHeaders:       limits.TrustProxyHeaders,
	}

	if limits.GlobalRequestsPerMinute > 0 {
		rl.globalLimiter = rate.NewLimiter(perMinute(limits.GlobalRequestsPerMinute), rl.burstSize)
	}

	if limits.CleanupInterval > 0 {
		rl.cleanupTicker = time.NewTicker(limits.CleanupInterval)
		go rl.cleanupRoutine()
	}

	return rl
}

func perMinute(n int) rate.Limit {
	return rate.Limit(float64(n) / 60.0)
}

// Allow spends one token for clientIP. Global capacity is checked first and
// a refused global reservation is returned so it does not eat future tokens.
func (rl *RateLimiter) Allow(clientIP string, isHealth bool) Result {
	now := rl.clock()

	limit := rl.perIPRequestsPerMinute
	key := clientIP
	if isHealth {
		limit = rl.healthRequestsPerMinute
		key = clientIP + healthBucketSuffix
	}

	if limit <= 0 {
		return Result{Allowed: true, ResetTime: now.Add(time.Minute)}
	}

	if !isHealth && rl.globalLimiter != nil {
		reservation := rl.globalLimiter.ReserveN(now, 1)
		if !reservation.OK() || reservation.DelayFrom(now) > 0 {
			delay := reservation.DelayFrom(now)
			reservation.CancelAt(now)
			return Result{
				RetryAfter: retryAfterSeconds(delay),
				RateLimit:  limit,
				ResetTime:  now.Add(time.Minute),
				Reason:     "global rate limit exceeded",
			}
		}
	}

	client, _ := rl.clients.LoadOrCompute(key, func() (*clientLimiter, bool) {
		return &clientLimiter{
			limiter:     rate.NewLimiter(perMinute(limit), rl.burstSize),
			lastAccess:  now,
			windowStart: now,
		}, false
	})

	client.mu.Lock()
	defer client.mu.Unlock()

	client.lastAccess = now
	if now.Sub(client.windowStart) >= time.Minute {
		client.windowStart = now
		client.tokensUsed = 0
	}

	reservation := client.limiter.ReserveN(now, 1)
	if delay := reservation.DelayFrom(now); !reservation.OK() || delay > 0 {
		reservation.CancelAt(now)
		return Result{
			RetryAfter: retryAfterSeconds(delay),
			RateLimit:  limit,
			Remaining:  max(0, limit-client.tokensUsed),
			ResetTime:  client.windowStart.Add(time.Minute),
			Reason:     "client rate limit exceeded",
		}
	}

	client.tokensUsed++
	return Result{
		Allowed:   true,
		RateLimit: limit,
		Remaining: max(0, limit-client.tokensUsed),
		ResetTime: client.windowStart.Add(time.Minute),
	}
}

func retryAfterSeconds(delay time.Duration) int {
	if delay <= 0 || delay == rate.InfDuration {
		return 60
	}
	return int(delay.Seconds()) + 1
}

// TrackedClients is the number of live per-client buckets
func (rl *RateLimiter) TrackedClients() int {
	return rl.clients.Size()
}

func (rl *RateLimiter) cleanupRoutine() {
	for {
		select {
		case <-rl.stopCleanup:
			return
		case <-rl.cleanupTicker.C:
			rl.cleanupStale()
		}
	}
}

func (rl *RateLimiter) cleanupStale() {
	cutoff := rl.clock().Add(-staleLimiterAge)

	rl.clients.Range(func(key string, client *clientLimiter) bool {
		client.mu.Lock()
		stale := client.lastAccess.Before(cutoff)
		client.mu.Unlock()

		if stale {
			rl.clients.Delete(key)
		}
		return true
	})
}

func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() {
		if rl.cleanupTicker != nil {
			rl.cleanupTicker.Stop()
		}
		close(rl.stopCleanup)
	})
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientIP := util.GetClientIP(r, rl.trustProxyHeaders)
		isHealth := r.URL.Path == constants.DefaultHealthCheckEndpoint

		result := rl.Allow(clientIP, isHealth)

		if result.RateLimit > 0 {
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.RateLimit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetTime.Unix(), 10))
		}

		if !result.Allowed {
			w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
			rl.rejections.RecordRejection(constants.RejectionRateLimit)

			rl.logger.Warn("Rate limit exceeded",
				"client_ip", clientIP,
				"method", r.Method,
				"path", r.URL.Path,
				"limit", result.RateLimit,
				"retry_after", result.RetryAfter,
				"reason", result.Reason)

			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}
