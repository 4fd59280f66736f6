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

// UserHandlers handles staff account management within a tenant.
type UserHandlers struct {
	userService services.UserService
}

func NewUserHandlers(userService services.UserService) *UserHandlers {
	return &UserHandlers{userService: userService}
}

// CreateUser handles POST /v1/users
func (h *UserHandlers) CreateUser(c echo.Context) error {
	tenantID, _, err := identity(c)
	if err != nil {
		return common.RespondError(c, err)
	}

	var req services.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return common.RespondError(c, common.NewValidationError("body", "invalid request format"))
	}

	rec := &middleware.ChangeRecord{TableName: "users", Action: models.ActionCreate}
	middleware.RecordChange(c, rec)

	user, err := h.userService.Create(c.Request().Context(), tenantID, &req)
	if err != nil {
		return common.RespondError(c, err)
	}

	rec.RecordID = user.ID.String()
	rec.NewValues = models.JSONB{"email": user.Email}
	return c.JSON(http.StatusCreated, user)
}

// GetUser handles GET /v1/users/:id
func (h *UserHandlers) GetUser(c echo.Context) error {
	tenantID, _, err := identity(c)
	if err != nil {
		return common.RespondError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return common.RespondError(c, err)
	}

	user, err := h.userService.GetByID(c.Request().Context(), tenantID, id)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

type userUpdateRequest struct {
	Email     string  `json:"email"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	JobTitle  *string `json:"job_title"`
	Status    string  `json:"status"`
}

// UpdateUser handles PUT /v1/users/:id
func (h *UserHandlers) UpdateUser(c echo.Context) error {
	tenantID, _, err := identity(c)
	if err != nil {
		return common.RespondError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return common.RespondError(c, err)
	}

	var req userUpdateRequest
	if err := c.Bind(&req); err != nil {
		return common.RespondError(c, common.NewValidationError("body", "invalid request format"))
	}

	user := &models.User{
		ID:        id,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		JobTitle:  req.JobTitle,
		Status:    models.Status(req.Status),
	}

	middleware.RecordChange(c, &middleware.ChangeRecord{
		TableName: "users",
		RecordID:  id.String(),
		Action:    models.ActionUpdate,
		NewValues: models.JSONB{"status": user.Status},
	})

	if err := h.userService.Update(c.Request().Context(), tenantID, user); err != nil {
		return common.RespondError(c, err)
	}

	updated, err := h.userService.GetByID(c.Request().Context(), tenantID, id)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// ListUsers handles GET /v1/users
func (h *UserHandlers) ListUsers(c echo.Context) error {
	tenantID, _, err := identity(c)
	if err != nil {
		return common.RespondError(c, err)
	}

	p := pagination.FromContext(c)
	users, err := h.userService.List(c.Request().Context(), tenantID, p.Limit, p.Offset)
	if err != nil {
		return common.RespondError(c, err)
	}
	if users == nil {
		users = []*models.User{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(users, p, len(users)))
}

type assignRoleRequest struct {
	RoleID string `json:"role_id"`
}

// AssignRole handles POST /v1/users/:id/roles
func (h *UserHandlers) AssignRole(c echo.Context) error {
	tenantID, _, err := identity(c)
	if err != nil {
		return common.RespondError(c, err)
	}
	userID, err := pathID(c, "id")
	if err != nil {
		return common.RespondError(c, err)
	}

	var req assignRoleRequest
	if err := c.Bind(&req); err != nil {
		return common.RespondError(c, common.NewValidationError("body", "invalid request format"))
	}
	roleID, err := common.ValidateUUID(req.RoleID, "role_id")
	if err != nil {
		return common.RespondError(c, err)
	}

	middleware.RecordChange(c, &middleware.ChangeRecord{
		TableName: "user_roles",
		RecordID:  userID.String(),
		Action:    models.ActionCreate,
		NewValues: models.JSONB{"role_id": roleID},
	})

	if err := h.userService.AssignRole(c.Request().Context(), tenantID, userID, roleID); err != nil {
		return common.RespondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
