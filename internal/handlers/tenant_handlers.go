package handlers

import (
	"net/http"

	"carehq/internal/common"
	"carehq/internal/middleware"
	"carehq/internal/models"
	"carehq/internal/services"
	"carehq/pkg/pagination"

	"github.com/labstack/echo/v4"
)

// TenantHandlers handles platform-level tenant administration. These routes
// still operate inside the caller's own tenant except where noted.
type TenantHandlers struct {
	tenantService services.TenantService
}

func NewTenantHandlers(tenantService services.TenantService) *TenantHandlers {
	return &TenantHandlers{tenantService: tenantService}
}

// GetTenant handles GET /v1/tenant, returning the caller's own tenant.
func (h *TenantHandlers) GetTenant(c echo.Context) error {
	tenantID, _, err := identity(c)
	if err != nil {
		return common.RespondError(c, err)
	}

	tenant, err := h.tenantService.GetByID(c.Request().Context(), tenantID)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, tenant)
}

type tenantUpdateRequest struct {
	Name      string  `json:"name"`
	CQCNumber *string `json:"cqc_number"`
	Status    string  `json:"status"`
}

// UpdateTenant handles PUT /v1/tenant. The subdomain is immutable.
func (h *TenantHandlers) UpdateTenant(c echo.Context) error {
	tenantID, _, err := identity(c)
	if err != nil {
		return common.RespondError(c, err)
	}

	var req tenantUpdateRequest
	if err := c.Bind(&req); err != nil {
		return common.RespondError(c, common.NewValidationError("body", "invalid request format"))
	}

	current, err := h.tenantService.GetByID(c.Request().Context(), tenantID)
	if err != nil {
		return common.RespondError(c, err)
	}
	current.Name = req.Name
	current.CQCNumber = req.CQCNumber
	if req.Status != "" {
		current.Status = models.Status(req.Status)
	}

	middleware.RecordChange(c, &middleware.ChangeRecord{
		TableName: "tenants",
		RecordID:  tenantID.String(),
		Action:    models.ActionUpdate,
		NewValues: models.JSONB{"name": current.Name, "status": current.Status},
	})

	if err := h.tenantService.Update(c.Request().Context(), current); err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, current)
}

// ListTenants handles GET /v1/admin/tenants, a platform operator view.
func (h *TenantHandlers) ListTenants(c echo.Context) error {
	if _, _, err := identity(c); err != nil {
		return common.RespondError(c, err)
	}

	p := pagination.FromContext(c)
	tenants, err := h.tenantService.List(c.Request().Context(), p.Limit, p.Offset)
	if err != nil {
		return common.RespondError(c, err)
	}
	if tenants == nil {
		tenants = []*models.Tenant{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(tenants, p, len(tenants)))
}
