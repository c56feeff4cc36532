package ratelimit

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apperrors "github.com/carnage999-max/ultimate-app-manager/pkg/util/errorutil"
)

// Middleware limits requests per client IP. Limiter failures let the request through.
func Middleware(limiter Limiter, scope string, limit int, window time.Duration, logger *zap.Logger) fiber.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *fiber.Ctx) error {
		if limiter == nil || limit <= 0 {
			return c.Next()
		}

		key := "ratelimit:" + scope + ":" + c.IP()
		decision, err := limiter.Allow(c.UserContext(), key, limit, window)
		if err != nil {
			logger.Warn("rate limiter unavailable; allowing request", zap.String("scope", scope), zap.Error(err))
			return c.Next()
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		if !decision.Allowed {
			retryAfter := int(time.Until(decision.ResetAt).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))
			return apperrors.NewRateLimited("Too many requests")
		}
		return c.Next()
	}
}
