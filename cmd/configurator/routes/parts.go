package routes

import (
	"github.com/labstack/echo/v4"
	"github.com/rigforge/configurator/cmd/configurator/container"
	"github.com/rigforge/configurator/cmd/configurator/handlers"
)

// RegisterPartRoutes registers compatibility resolution routes
func RegisterPartRoutes(api *echo.Group, c *container.Container) {
	h := handlers.NewPartHandler(c)

	api.GET("/parts/:type", h.ResolveParts)        // GET /api/v1/parts/gpu?cpu=1&mobo=2
	api.GET("/filter-options", h.GetFilterOptions)   // GET /api/v1/filter-options
}
