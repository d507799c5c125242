package routes

import (
	"github.com/labstack/echo/v4"
	"github.com/rigforge/configurator/cmd/configurator/container"
	"github.com/rigforge/configurator/cmd/configurator/handlers"
)

// RegisterBuildRoutes registers search, check, evaluation and saved build routes
func RegisterBuildRoutes(api *echo.Group, c *container.Container) {
	search := handlers.NewSearchHandler(c)
	selection := handlers.NewSelectionHandler(c)
	h := handlers.NewBuildHandler(c)

	builds := api.Group("/builds")
	{
		builds.GET("/search", search.SearchBuilds)        // GET /api/v1/builds/search?budget=1300
		builds.POST("/check", selection.CheckBuild)       // POST /api/v1/builds/check
		builds.POST("/evaluate", selection.EvaluateBuild) // POST /api/v1/builds/evaluate

		builds.POST("", h.SaveBuild)       // POST /api/v1/builds
		builds.GET("", h.ListBuilds)       // GET /api/v1/builds
		builds.GET("/:id", h.GetBuild)     // GET /api/v1/builds/<uuid>
		builds.PATCH("/:id", h.PatchBuild) // PATCH /api/v1/builds/<uuid>
	}
}
