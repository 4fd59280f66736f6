package handlers

import (
	"carehq/internal/common"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// identity pulls the authenticated tenant and actor out of the request
// context. Routes behind the JWT middleware always have both.
func identity(c echo.Context) (tenantID, userID uuid.UUID, err error) {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return uuid.Nil, uuid.Nil, &common.AuthenticationError{Reason: "no tenant in session"}
	}
	userID, ok = common.GetUserIDFromContext(ctx)
	if !ok {
		return uuid.Nil, uuid.Nil, &common.AuthenticationError{Reason: "not authenticated"}
	}
	return tenantID, userID, nil
}

func pathID(c echo.Context, name string) (uuid.UUID, error) {
	return common.ValidateUUID(c.Param(name), name)
}

func optionalUUID(raw, field string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := common.ValidateUUID(raw, field)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
