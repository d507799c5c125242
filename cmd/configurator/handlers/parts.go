package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rigforge/configurator/cmd/configurator/container"
	"github.com/rigforge/configurator/cmd/configurator/service"
	"github.com/rigforge/configurator/common/logger"
)

// PartHandler serves compatible part lists and filter options
type PartHandler struct {
	parts  *service.PartService
	logger *logger.Logger
}

// NewPartHandler creates a new part handler
func NewPartHandler(c *container.Container) *PartHandler {
	return &PartHandler{
		parts:  c.PartService,
		logger: c.Components.Logger,
	}
}

// ResolveParts lists the parts of one type compatible with the current selection
// GET /api/v1/parts/:type?cpu=1&mobo=2&policy=strict&socket=AM5
func (h *PartHandler) ResolveParts(c echo.Context) error {
	result, err := h.parts.Resolve(c.Request().Context(), c.Param("type"), c.QueryParams())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, result)
}

// GetFilterOptions lists the filterable values of every part type
// GET /api/v1/filter-options
func (h *PartHandler) GetFilterOptions(c echo.Context) error {
	options, err := h.parts.FilterOptions(c.Request().Context())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, options)
}
