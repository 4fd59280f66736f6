package handlers

import (
	"net/http"

	"carehq/internal/analytics"
	"carehq/internal/common"

	"github.com/labstack/echo/v4"
)

// AnalyticsHandlers serves occupancy and census reports.
type AnalyticsHandlers struct {
	analyticsService analytics.AnalyticsService
}

func NewAnalyticsHandlers(analyticsService analytics.AnalyticsService) *AnalyticsHandlers {
	return &AnalyticsHandlers{analyticsService: analyticsService}
}

// Occupancy handles GET /v1/analytics/occupancy
func (h *AnalyticsHandlers) Occupancy(c echo.Context) error {
	tenantID, _, err := identity(c)
	if err != nil {
		return common.RespondError(c, err)
	}

	snapshot, err := h.analyticsService.Occupancy(c.Request().Context(), tenantID)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, snapshot)
}

// Census handles GET /v1/analytics/census
func (h *AnalyticsHandlers) Census(c echo.Context) error {
	tenantID, _, err := identity(c)
	if err != nil {
		return common.RespondError(c, err)
	}

	report, err := h.analyticsService.Census(c.Request().Context(), tenantID)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, report)
}
