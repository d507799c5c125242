package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rigforge/configurator/cmd/configurator/container"
	"github.com/rigforge/configurator/cmd/configurator/middleware"
	"github.com/rigforge/configurator/cmd/configurator/models"
	"github.com/rigforge/configurator/cmd/configurator/service"
	"github.com/rigforge/configurator/common/logger"
)

// BuildHandler handles saved builds
type BuildHandler struct {
	builds *service.BuildService
	logger *logger.Logger
}

// NewBuildHandler creates a new build handler
func NewBuildHandler(c *container.Container) *BuildHandler {
	return &BuildHandler{
		builds: c.BuildService,
		logger: c.Components.Logger,
	}
}

// SaveBuild stores the caller's selection as a new build
// POST /api/v1/builds
func (h *BuildHandler) SaveBuild(c echo.Context) error {
	userID, err := middleware.RequireUserID(c)
	if userID == "" {
		return err
	}

	var req models.SaveBuildRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "invalid request body",
		})
	}

	build, err := h.builds.Save(c.Request().Context(), userID, &req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusCreated, build)
}

// GetBuild retrieves one of the caller's builds
// GET /api/v1/builds/:id
func (h *BuildHandler) GetBuild(c echo.Context) error {
	userID, err := middleware.RequireUserID(c)
	if userID == "" {
		return err
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "invalid build id",
		})
	}

	build, err := h.builds.Get(c.Request().Context(), userID, id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, build)
}

// ListBuilds lists the caller's builds, newest first
// GET /api/v1/builds?limit=20
func (h *BuildHandler) ListBuilds(c echo.Context) error {
	userID, err := middleware.RequireUserID(c)
	if userID == "" {
		return err
	}

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]interface{}{
				"error": "limit must be an integer",
			})
		}
	}

	builds, err := h.builds.List(c.Request().Context(), userID, limit)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"builds": builds,
		"count":  len(builds),
	})
}

// PatchBuild applies JSON patch operations and saves the result as a new build
// PATCH /api/v1/builds/:id
func (h *BuildHandler) PatchBuild(c echo.Context) error {
	userID, err := middleware.RequireUserID(c)
	if userID == "" {
		return err
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "invalid build id",
		})
	}

	var req struct {
		Operations []map[string]interface{} `json:"operations"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "invalid request body",
		})
	}
	if len(req.Operations) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "operations array is required and cannot be empty",
		})
	}

	patchJSON, err := json.Marshal(req.Operations)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "invalid operations",
		})
	}

	build, err := h.builds.Patch(c.Request().Context(), userID, id, patchJSON)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusCreated, build)
}
