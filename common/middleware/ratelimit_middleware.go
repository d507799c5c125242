package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rigforge/configurator/common/ratelimit"
)

// UserIDKey is the echo context key holding the caller's user id
const UserIDKey = "user_id"

// UserRateLimitMiddleware enforces per-user quotas by request class.
// Requests without a user id are not limited. Limiter errors fail open.
func UserRateLimitMiddleware(limiter ratelimit.Limiter, policies ratelimit.Policies) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, ok := c.Get(UserIDKey).(string)
			if !ok || userID == "" {
				return next(c)
			}

			class := ratelimit.Classify(c.Request().Method, c.Path())
			policy := policies.For(class)

			result, err := limiter.CheckUserLimit(c.Request().Context(), userID, policy)
			if err != nil {
				return next(c)
			}

			if !result.Allowed {
				return c.JSON(http.StatusTooManyRequests, map[string]interface{}{
					"error":   "user_rate_limit_exceeded",
					"message": "You have exceeded your request quota. Please wait before trying again.",
					"details": map[string]interface{}{
						"user_id":             userID,
						"class":               class.String(),
						"limit":               result.Limit,
						"window_seconds":      policy.WindowSeconds,
						"current_count":       result.CurrentCount,
						"retry_after_seconds": result.RetryAfterSeconds,
					},
				})
			}

			return next(c)
		}
	}
}
