package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rigforge/configurator/cmd/configurator/container"
	"github.com/rigforge/configurator/cmd/configurator/models"
	"github.com/rigforge/configurator/cmd/configurator/service"
	"github.com/rigforge/configurator/common/logger"
)

// SelectionHandler checks and evaluates unsaved selections
type SelectionHandler struct {
	selections *service.SelectionService
	logger     *logger.Logger
}

// NewSelectionHandler creates a new selection handler
func NewSelectionHandler(c *container.Container) *SelectionHandler {
	return &SelectionHandler{
		selections: c.SelectionService,
		logger:     c.Components.Logger,
	}
}

// CheckBuild reports every compatibility rule the selection breaks
// POST /api/v1/builds/check
func (h *SelectionHandler) CheckBuild(c echo.Context) error {
	req, err := bindSelection(c)
	if err != nil {
		return err
	}
	if req == nil {
		return nil
	}

	result, err := h.selections.Check(c.Request().Context(), req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, result)
}

// EvaluateBuild scores the selection against the usage profiles
// POST /api/v1/builds/evaluate
func (h *SelectionHandler) EvaluateBuild(c echo.Context) error {
	req, err := bindSelection(c)
	if err != nil {
		return err
	}
	if req == nil {
		return nil
	}

	profiles, err := h.selections.Evaluate(c.Request().Context(), req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"profiles": profiles,
	})
}

// bindSelection decodes and validates the request body. A nil request
// means the error response has already been written.
func bindSelection(c echo.Context) (*models.SelectionRequest, error) {
	var req models.SelectionRequest
	if err := c.Bind(&req); err != nil {
		return nil, c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return nil, c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "invalid selection",
			"details": err.Error(),
		})
	}
	return &req, nil
}
