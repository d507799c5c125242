package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rigforge/configurator/cmd/configurator/container"
	"github.com/rigforge/configurator/cmd/configurator/service"
	"github.com/rigforge/configurator/common/logger"
)

// SearchHandler serves budget build searches
type SearchHandler struct {
	search *service.SearchService
	logger *logger.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(c *container.Container) *SearchHandler {
	return &SearchHandler{
		search: c.SearchService,
		logger: c.Components.Logger,
	}
}

// SearchBuilds finds the best complete build within a budget
// GET /api/v1/builds/search?budget=1300
func (h *SearchHandler) SearchBuilds(c echo.Context) error {
	raw := strings.TrimSpace(c.QueryParam("budget"))
	if raw == "" {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "budget is required",
		})
	}

	budget, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "budget must be an integer",
			"value": raw,
		})
	}

	result, err := h.search.Search(c.Request().Context(), budget)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, result)
}
