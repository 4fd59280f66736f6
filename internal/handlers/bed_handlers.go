package handlers

import (
	"net/http"
	"strconv"

	"carehq/internal/common"
	"carehq/internal/middleware"
	"carehq/internal/models"
	"carehq/internal/services"
	"carehq/pkg/pagination"

	"github.com/labstack/echo/v4"
)

// BedHandlers handles HTTP requests for beds.
type BedHandlers struct {
	bedService services.BedService
}

func NewBedHandlers(bedService services.BedService) *BedHandlers {
	return &BedHandlers{bedService: bedService}
}

type bedRequest struct {
	RoomNumber string  `json:"room_number"`
	Wing       *string `json:"wing"`
	BedType    string  `json:"bed_type"`
	Notes      *string `json:"notes"`
	Status     string  `json:"status"`
	Version    int     `json:"version"`
}

func (r *bedRequest) toModel() *models.Bed {
	return &models.Bed{
		RoomNumber: r.RoomNumber,
		Wing:       r.Wing,
		BedType:    r.BedType,
		Notes:      r.Notes,
		Status:     models.Status(r.Status),
		Version:    r.Version,
	}
}

// CreateBed handles POST /v1/beds
func (h *BedHandlers) CreateBed(c echo.Context) error {
	tenantID, userID, err := identity(c)
	if err != nil {
		return common.RespondError(c, err)
	}

	var req bedRequest
	if err := c.Bind(&req); err != nil {
		return common.RespondError(c, common.NewValidationError("body", "invalid request format"))
	}

	bed := req.toModel()
	rec := &middleware.ChangeRecord{TableName: "beds", Action: models.ActionCreate}
	middleware.RecordChange(c, rec)

	if err := h.bedService.Create(c.Request().Context(), tenantID, userID, bed); err != nil {
		return common.RespondError(c, err)
	}

	rec.RecordID = bed.ID.String()
	rec.NewValues = models.JSONB{"room_number": bed.RoomNumber, "bed_type": bed.BedType}
	return c.JSON(http.StatusCreated, bed)
}

// GetBed handles GET /v1/beds/:id
func (h *BedHandlers) GetBed(c echo.Context) error {
	tenantID, _, err := identity(c)
	if err != nil {
		return common.RespondError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return common.RespondError(c, err)
	}

	bed, err := h.bedService.GetByID(c.Request().Context(), tenantID, id)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, bed)
}

// UpdateBed handles PUT /v1/beds/:id
func (h *BedHandlers) UpdateBed(c echo.Context) error {
	tenantID, userID, err := identity(c)
	if err != nil {
		return common.RespondError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return common.RespondError(c, err)
	}

	var req bedRequest
	if err := c.Bind(&req); err != nil {
		return common.RespondError(c, common.NewValidationError("body", "invalid request format"))
	}

	bed := req.toModel()
	bed.ID = id

	middleware.RecordChange(c, &middleware.ChangeRecord{
		TableName: "beds",
		RecordID:  id.String(),
		Action:    models.ActionUpdate,
		NewValues: models.JSONB{"status": bed.Status, "version": bed.Version},
	})

	if err := h.bedService.Update(c.Request().Context(), tenantID, userID, bed); err != nil {
		return common.RespondError(c, err)
	}

	updated, err := h.bedService.GetByID(c.Request().Context(), tenantID, id)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// ListBeds handles GET /v1/beds
func (h *BedHandlers) ListBeds(c echo.Context) error {
	tenantID, _, err := identity(c)
	if err != nil {
		return common.RespondError(c, err)
	}

	p := pagination.FromContext(c)
	filter := &models.BedFilter{Limit: p.Limit, Offset: p.Offset}
	if raw := c.QueryParam("wing"); raw != "" {
		filter.Wing = &raw
	}
	if raw := c.QueryParam("bed_type"); raw != "" {
		if err := common.ValidateEnum(raw, "bed_type", models.BedTypes()...); err != nil {
			return common.RespondError(c, err)
		}
		filter.BedType = &raw
	}
	if raw := c.QueryParam("occupied"); raw != "" {
		occupied, err := strconv.ParseBool(raw)
		if err != nil {
			return common.RespondError(c, common.NewValidationError("occupied", "must be true or false"))
		}
		filter.Occupied = &occupied
	}
	if raw := c.QueryParam("status"); raw != "" {
		status := models.Status(raw)
		if !models.ValidStatus(raw) {
			return common.RespondError(c, common.NewValidationError("status", "unknown status"))
		}
		filter.Status = &status
	}

	beds, err := h.bedService.List(c.Request().Context(), tenantID, filter)
	if err != nil {
		return common.RespondError(c, err)
	}
	if beds == nil {
		beds = []*models.Bed{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(beds, p, len(beds)))
}

// ArchiveBed handles DELETE /v1/beds/:id
func (h *BedHandlers) ArchiveBed(c echo.Context) error {
	tenantID, userID, err := identity(c)
	if err != nil {
		return common.RespondError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return common.RespondError(c, err)
	}

	middleware.RecordChange(c, &middleware.ChangeRecord{
		TableName: "beds",
		RecordID:  id.String(),
		Action:    models.ActionArchive,
	})

	if err := h.bedService.Archive(c.Request().Context(), tenantID, userID, id); err != nil {
		return common.RespondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
