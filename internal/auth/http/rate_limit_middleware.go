package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	apperrors "github.com/allisson/passbox/internal/errors"
	"github.com/allisson/passbox/internal/httputil"
)

const (
	limiterCleanupInterval = 5 * time.Minute
	limiterIdleTTL         = time.Hour
)

// limiterStore holds one token bucket per key and forgets keys that have been
// idle for longer than the TTL.
type limiterStore[K comparable] struct {
	limiters sync.Map // map[K]*limiterEntry
	rps      float64
	burst    int
	now      func() time.Time
}

type limiterEntry struct {
	limiter    *rate.Limiter
	mu         sync.Mutex
	lastAccess time.Time
}

// newLimiterStore creates a store whose cleanup goroutine stops when ctx is done.
func newLimiterStore[K comparable](ctx context.Context, rps float64, burst int) *limiterStore[K] {
	s := &limiterStore[K]{rps: rps, burst: burst, now: time.Now}
	go s.cleanupStale(ctx, limiterCleanupInterval)
	return s
}

func (s *limiterStore[K]) getLimiter(key K) *rate.Limiter {
	now := s.now()
	if val, ok := s.limiters.Load(key); ok {
		entry := val.(*limiterEntry)
		entry.mu.Lock()
		entry.lastAccess = now
		entry.mu.Unlock()
		return entry.limiter
	}

	entry := &limiterEntry{
		limiter:    rate.NewLimiter(rate.Limit(s.rps), s.burst),
		lastAccess: now,
	}
	actual, _ := s.limiters.LoadOrStore(key, entry)
	return actual.(*limiterEntry).limiter
}

func (s *limiterStore[K]) cleanupStale(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.evictIdle(s.now().Add(-limiterIdleTTL))
		}
	}
}

func (s *limiterStore[K]) evictIdle(threshold time.Time) {
	s.limiters.Range(func(key, value any) bool {
		entry := value.(*limiterEntry)
		entry.mu.Lock()
		idle := entry.lastAccess.Before(threshold)
		entry.mu.Unlock()

		if idle {
			s.limiters.Delete(key)
		}
		return true
	})
}

// allow reports whether the request may proceed. When it may not, it writes a
// 429 response with a Retry-After header and aborts the chain.
func allow(c *gin.Context, limiter *rate.Limiter, message string) bool {
	if limiter.Allow() {
		return true
	}

	reservation := limiter.Reserve()
	retryAfter := int(reservation.Delay().Seconds())
	reservation.Cancel()

	c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
	c.JSON(http.StatusTooManyRequests, httputil.ErrorResponse{
		Error:   httputil.CodeRateLimited,
		Message: message,
	})
	c.Abort()
	return false
}

// RateLimitMiddleware enforces per-user rate limiting on authenticated requests.
//
// MUST be used after AuthenticationMiddleware. Limiters of idle users are
// dropped periodically until ctx is cancelled.
func RateLimitMiddleware(ctx context.Context, rps float64, burst int, logger *slog.Logger) gin.HandlerFunc {
	store := newLimiterStore[uuid.UUID](ctx, rps, burst)

	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c.Request.Context())
		if !ok {
			logger.Error("rate limit middleware: no authenticated principal in context")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		if !allow(c, store.getLimiter(principal.UserID), "Too many requests. Please retry after the specified delay.") {
			logger.Debug("rate limit exceeded", slog.String("user_id", principal.UserID.String()))
			return
		}
		c.Next()
	}
}

// IPRateLimitMiddleware enforces per-IP rate limiting on the unauthenticated
// account endpoints (register, prelogin, login) to slow down credential stuffing.
//
// Uses c.ClientIP(), which honours X-Forwarded-For and X-Real-IP from trusted proxies.
func IPRateLimitMiddleware(ctx context.Context, rps float64, burst int, logger *slog.Logger) gin.HandlerFunc {
	store := newLimiterStore[string](ctx, rps, burst)

	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		if !allow(c, store.getLimiter(clientIP), "Too many requests from this IP. Please retry after the specified delay.") {
			logger.Debug("ip rate limit exceeded", slog.String("client_ip", clientIP))
			return
		}
		c.Next()
	}
}
