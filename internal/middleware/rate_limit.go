package middleware

import (
	"math"
	"strconv"

	"github.com/deppfellow/recipe-service/internal/errs"
	"github.com/deppfellow/recipe-service/internal/server"
	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// RateLimitMiddleware enforces a process-wide token bucket.
type RateLimitMiddleware struct {
	server  *server.Server
	limiter *rate.Limiter
}

// NewRateLimitMiddleware builds the limiter from server.rate_limit and
// server.rate_limit_burst. A zero rate disables limiting.
func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	m := &RateLimitMiddleware{server: s}

	if cfg := s.Config.Server; cfg.RateLimit > 0 {
		burst := cfg.RateLimitBurst
		if burst < 1 {
			burst = 1
		}
		m.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return m
}

// Limit rejects requests beyond the budget with 429 and a Retry-After hint.
func (r *RateLimitMiddleware) Limit() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if r.limiter == nil {
			return next
		}

		return func(c echo.Context) error {
			if r.limiter.Allow() {
				return next(c)
			}

			retryAfter := int(math.Ceil(1 / float64(r.limiter.Limit())))
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Response().Header().Set("Retry-After", strconv.Itoa(retryAfter))

			endpoint := c.Path()
			if endpoint == "" {
				endpoint = c.Request().URL.Path
			}
			rateLimitRejects.WithLabelValues(endpoint).Inc()
			r.RecordRateLimitHit(endpoint)

			GetLogger(c).Warn().
				Str("endpoint", endpoint).
				Msg("rate limit exceeded")

			return errs.NewTooManyRequestsError()
		}
	}
}

// RecordRateLimitHit sends a RateLimitHit custom event when New Relic is on.
func (r *RateLimitMiddleware) RecordRateLimitHit(endpoint string) {
	if r.server.LoggerService != nil && r.server.LoggerService.GetApplication() != nil {
		r.server.LoggerService.GetApplication().RecordCustomEvent("RateLimitHit", map[string]interface{}{
			"endpoint": endpoint,
		})
	}
}
