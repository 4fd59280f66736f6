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

// RoleHandlers handles role and permission administration.
type RoleHandlers struct {
	roleService services.RoleService
}

func NewRoleHandlers(roleService services.RoleService) *RoleHandlers {
	return &RoleHandlers{roleService: roleService}
}

type roleRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// CreateRole handles POST /v1/roles
func (h *RoleHandlers) CreateRole(c echo.Context) error {
	tenantID, _, err := identity(c)
	if err != nil {
		return common.RespondError(c, err)
	}

	var req roleRequest
	if err := c.Bind(&req); err != nil {
		return common.RespondError(c, common.NewValidationError("body", "invalid request format"))
	}

	rec := &middleware.ChangeRecord{TableName: "roles", Action: models.ActionCreate}
	middleware.RecordChange(c, rec)

	role, err := h.roleService.Create(c.Request().Context(), tenantID, req.Name, req.Description)
	if err != nil {
		return common.RespondError(c, err)
	}

	rec.RecordID = role.ID.String()
	rec.NewValues = models.JSONB{"name": role.Name}
	return c.JSON(http.StatusCreated, role)
}

// GetRole handles GET /v1/roles/:id, including the role's permissions.
func (h *RoleHandlers) GetRole(c echo.Context) error {
	tenantID, _, err := identity(c)
	if err != nil {
		return common.RespondError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return common.RespondError(c, err)
	}

	role, err := h.roleService.GetByID(c.Request().Context(), tenantID, id)
	if err != nil {
		return common.RespondError(c, err)
	}
	permissions, err := h.roleService.RolePermissions(c.Request().Context(), tenantID, id)
	if err != nil {
		return common.RespondError(c, err)
	}
	if permissions == nil {
		permissions = []string{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"role":        role,
		"permissions": permissions,
	})
}

// ListRoles handles GET /v1/roles
func (h *RoleHandlers) ListRoles(c echo.Context) error {
	tenantID, _, err := identity(c)
	if err != nil {
		return common.RespondError(c, err)
	}

	p := pagination.FromContext(c)
	roles, err := h.roleService.List(c.Request().Context(), tenantID, p.Limit, p.Offset)
	if err != nil {
		return common.RespondError(c, err)
	}
	if roles == nil {
		roles = []*models.Role{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(roles, p, len(roles)))
}

// DeleteRole handles DELETE /v1/roles/:id
func (h *RoleHandlers) DeleteRole(c echo.Context) error {
	tenantID, _, err := identity(c)
	if err != nil {
		return common.RespondError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return common.RespondError(c, err)
	}

	middleware.RecordChange(c, &middleware.ChangeRecord{
		TableName: "roles",
		RecordID:  id.String(),
		Action:    models.ActionArchive,
	})

	if err := h.roleService.Delete(c.Request().Context(), tenantID, id); err != nil {
		return common.RespondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type permissionGrantRequest struct {
	Permission string `json:"permission"`
}

// GrantPermission handles POST /v1/roles/:id/permissions
func (h *RoleHandlers) GrantPermission(c echo.Context) error {
	tenantID, _, err := identity(c)
	if err != nil {
		return common.RespondError(c, err)
	}
	roleID, err := pathID(c, "id")
	if err != nil {
		return common.RespondError(c, err)
	}

	var req permissionGrantRequest
	if err := c.Bind(&req); err != nil || req.Permission == "" {
		return common.RespondError(c, common.NewValidationError("permission", "is required"))
	}

	middleware.RecordChange(c, &middleware.ChangeRecord{
		TableName: "role_permissions",
		RecordID:  roleID.String(),
		Action:    models.ActionCreate,
		NewValues: models.JSONB{"permission": req.Permission},
	})

	if err := h.roleService.GrantPermission(c.Request().Context(), tenantID, roleID, req.Permission); err != nil {
		return common.RespondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// RevokePermission handles DELETE /v1/roles/:id/permissions/:permission
func (h *RoleHandlers) RevokePermission(c echo.Context) error {
	tenantID, _, err := identity(c)
	if err != nil {
		return common.RespondError(c, err)
	}
	roleID, err := pathID(c, "id")
	if err != nil {
		return common.RespondError(c, err)
	}
	permission := c.Param("permission")
	if permission == "" {
		return common.RespondError(c, common.NewValidationError("permission", "is required"))
	}

	middleware.RecordChange(c, &middleware.ChangeRecord{
		TableName: "role_permissions",
		RecordID:  roleID.String(),
		Action:    models.ActionArchive,
		NewValues: models.JSONB{"permission": permission},
	})

	if err := h.roleService.RevokePermission(c.Request().Context(), tenantID, roleID, permission); err != nil {
		return common.RespondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListPermissionCatalog handles GET /v1/permissions
func (h *RoleHandlers) ListPermissionCatalog(c echo.Context) error {
	if _, _, err := identity(c); err != nil {
		return common.RespondError(c, err)
	}

	catalog, err := h.roleService.Catalog(c.Request().Context())
	if err != nil {
		return common.RespondError(c, err)
	}
	if catalog == nil {
		catalog = []*models.Permission{}
	}
	return c.JSON(http.StatusOK, catalog)
}
