package routes

import (
	"github.com/labstack/echo/v4"
	"github.com/rigforge/configurator/cmd/configurator/container"
	"github.com/rigforge/configurator/cmd/configurator/middleware"
	commonmw "github.com/rigforge/configurator/common/middleware"
)

// apiGroup returns the /api/v1 group with user extraction and, when a
// limiter is configured, per-user rate limiting.
func apiGroup(e *echo.Echo, c *container.Container) *echo.Group {
	mw := []echo.MiddlewareFunc{middleware.ExtractUserID()}
	if c.Limiter != nil {
		mw = append(mw, commonmw.UserRateLimitMiddleware(c.Limiter, c.RateLimits))
	}
	return e.Group("/api/v1", mw...)
}

// Register registers every application route
func Register(e *echo.Echo, c *container.Container) {
	api := apiGroup(e, c)
	RegisterPartRoutes(api, c)
	RegisterBuildRoutes(api, c)
}
