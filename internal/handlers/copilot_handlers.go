package handlers

import (
	"net/http"

	"carehq/internal/common"
	"carehq/internal/copilot"

	"github.com/labstack/echo/v4"
)

// CopilotHandlers serves care suggestions from the optional copilot backend.
type CopilotHandlers struct {
	copilot copilot.Copilot
}

func NewCopilotHandlers(cp copilot.Copilot) *CopilotHandlers {
	return &CopilotHandlers{copilot: cp}
}

// Suggestions handles GET /v1/copilot/suggestions?entity_type=residents&entity_id=...
// When no backend is configured the response is an empty disabled set, not
// an error.
func (h *CopilotHandlers) Suggestions(c echo.Context) error {
	tenantID, _, err := identity(c)
	if err != nil {
		return common.RespondError(c, err)
	}

	entityType := c.QueryParam("entity_type")
	if entityType == "" {
		return common.RespondError(c, common.NewValidationError("entity_type", "is required"))
	}
	entityID, err := common.ValidateUUID(c.QueryParam("entity_id"), "entity_id")
	if err != nil {
		return common.RespondError(c, err)
	}

	resp, err := h.copilot.Suggest(c.Request().Context(), tenantID, entityType, entityID)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}
