package handlers

import (
	"fmt"
	"net/http"
	"time"

	"carehq/internal/caching"
	"carehq/internal/common"
	"carehq/internal/middleware"
	"carehq/internal/models"
	"carehq/internal/services"

	"github.com/labstack/echo/v4"
)

const (
	loginRateWindow = time.Minute
	loginRateLimit  = 10
)

// AuthHandlers handles signup, login and token refresh.
type AuthHandlers struct {
	authService         services.AuthService
	userService         services.UserService
	rbacService         services.RBACService
	provisioningService services.ProvisioningService
	auditService        services.AuditLogsService
	cacheSvc            caching.CacheService
}

func NewAuthHandlers(
	authService services.AuthService,
	userService services.UserService,
	rbacService services.RBACService,
	provisioningService services.ProvisioningService,
	auditService services.AuditLogsService,
	cacheSvc caching.CacheService,
) *AuthHandlers {
	return &AuthHandlers{
		authService:         authService,
		userService:         userService,
		rbacService:         rbacService,
		provisioningService: provisioningService,
		auditService:        auditService,
		cacheSvc:            cacheSvc,
	}
}

// Signup handles POST /v1/auth/signup. It provisions a new care home and
// its first admin user in one step.
func (h *AuthHandlers) Signup(c echo.Context) error {
	var req services.BootstrapRequest
	if err := c.Bind(&req); err != nil {
		return common.RespondError(c, common.NewValidationError("body", "invalid request format"))
	}

	tenant, admin, err := h.provisioningService.BootstrapTenant(c.Request().Context(), &req)
	if err != nil {
		middleware.MarkAudited(c)
		return common.RespondError(c, err)
	}

	// No JWT context exists yet, so this handler writes its own audit record.
	h.auditSignup(c, tenant, admin)
	middleware.MarkAudited(c)

	tokens, err := h.authService.GenerateTokens(c.Request().Context(), admin.ID, tenant.ID)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"tenant": tenant,
		"user":   admin,
		"tokens": tokens,
	})
}

func (h *AuthHandlers) auditSignup(c echo.Context, tenant *models.Tenant, admin *models.User) {
	reqID := c.Response().Header().Get(echo.HeaderXRequestID)
	entry := &models.AuditLog{
		TenantID:  tenant.ID,
		RequestID: reqID,
		TableName: "tenants",
		RecordID:  tenant.ID.String(),
		Action:    models.ActionCreate,
		Outcome:   models.OutcomeSuccess,
		NewValues: models.JSONB{
			"name":      tenant.Name,
			"subdomain": tenant.Subdomain,
			"admin":     admin.Email,
		},
		ChangedBy: &admin.ID,
	}
	if err := h.auditService.LogActivity(c.Request().Context(), entry); err != nil {
		c.Logger().Errorf("audit signup: %v", err)
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /v1/auth/login. Attempts are rate limited per client
// IP to slow credential stuffing.
func (h *AuthHandlers) Login(c echo.Context) error {
	middleware.MarkAudited(c)

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return common.RespondError(c, common.NewValidationError("body", "invalid request format"))
	}

	rateKey := fmt.Sprintf("carehq:login_attempts:%s", c.RealIP())
	if attempts, err := h.cacheSvc.IncrementRateLimit(c.Request().Context(), rateKey, loginRateWindow); err == nil && attempts > loginRateLimit {
		return echo.NewHTTPError(http.StatusTooManyRequests, "too many login attempts")
	}

	user, err := h.userService.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return common.RespondError(c, err)
	}

	tokens, err := h.authService.GenerateTokens(c.Request().Context(), user.ID, user.TenantID)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, tokens)
}

// Refresh handles POST /v1/auth/refresh. Refresh tokens are single use;
// a successful refresh rotates the token.
func (h *AuthHandlers) Refresh(c echo.Context) error {
	middleware.MarkAudited(c)

	var req models.RefreshTokenRequest
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return common.RespondError(c, common.NewValidationError("refresh_token", "is required"))
	}

	tokens, err := h.authService.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, tokens)
}

// Logout handles POST /v1/auth/logout, revoking the presented refresh token.
func (h *AuthHandlers) Logout(c echo.Context) error {
	middleware.MarkAudited(c)

	var req models.RefreshTokenRequest
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return common.RespondError(c, common.NewValidationError("refresh_token", "is required"))
	}

	if err := h.authService.RevokeRefreshToken(c.Request().Context(), req.RefreshToken); err != nil {
		return common.RespondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Me handles GET /v1/auth/me, returning the caller's profile and resolved
// capability set.
func (h *AuthHandlers) Me(c echo.Context) error {
	tenantID, userID, err := identity(c)
	if err != nil {
		return common.RespondError(c, err)
	}

	user, err := h.userService.GetByID(c.Request().Context(), tenantID, userID)
	if err != nil {
		return common.RespondError(c, err)
	}
	permissions, err := h.rbacService.GetUserPermissions(c.Request().Context(), userID, tenantID)
	if err != nil {
		return common.RespondError(c, err)
	}
	if permissions == nil {
		permissions = []string{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"user":        user,
		"permissions": permissions,
	})
}
