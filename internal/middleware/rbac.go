package middleware

import (
	"carehq/internal/common"
	"carehq/internal/models"
	"carehq/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type RBACMiddleware struct {
	rbacService  services.RBACService
	auditService services.AuditLogsService
}

func NewRBACMiddleware(rbacService services.RBACService, auditService services.AuditLogsService) *RBACMiddleware {
	return &RBACMiddleware{
		rbacService:  rbacService,
		auditService: auditService,
	}
}

// RequirePermission gates a route on a capability name such as
// "residents:write". Denials are audited before the 403 goes out.
func (m *RBACMiddleware) RequirePermission(permission string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			userID, ok := common.GetUserIDFromContext(ctx)
			if !ok {
				return common.RespondError(c, &common.AuthenticationError{Reason: "not authenticated"})
			}
			tenantID, ok := common.GetTenantIDFromContext(ctx)
			if !ok {
				return common.RespondError(c, &common.AuthenticationError{Reason: "no tenant in session"})
			}

			hasPermission, err := m.rbacService.UserHasPermission(ctx, userID, tenantID, permission)
			if err != nil {
				return common.RespondError(c, err)
			}
			if !hasPermission {
				m.auditDenial(c, tenantID, userID, permission)
				MarkAudited(c)
				return common.RespondError(c, &common.AuthorizationError{Permission: permission})
			}

			return next(c)
		}
	}
}

func (m *RBACMiddleware) auditDenial(c echo.Context, tenantID, userID uuid.UUID, permission string) {
	ctx := c.Request().Context()
	reqID, _ := common.GetRequestIDFromContext(ctx)

	entry := &models.AuditLog{
		TenantID:  tenantID,
		RequestID: reqID,
		TableName: "authorization",
		RecordID:  c.Path(),
		Action:    models.ActionDenied,
		Outcome:   models.OutcomeFailure,
		NewValues: models.JSONB{
			"permission": permission,
			"method":     c.Request().Method,
			"path":       c.Path(),
		},
		ChangedBy: &userID,
	}
	if err := m.auditService.LogActivity(ctx, entry); err != nil {
		c.Logger().Errorf("audit denial: %v", err)
	}
}
