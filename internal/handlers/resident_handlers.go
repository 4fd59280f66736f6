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

// ResidentHandlers handles HTTP requests for residents.
type ResidentHandlers struct {
	residentService services.ResidentService
}

func NewResidentHandlers(residentService services.ResidentService) *ResidentHandlers {
	return &ResidentHandlers{residentService: residentService}
}

type residentRequest struct {
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	DateOfBirth string  `json:"date_of_birth"`
	NHSNumber   *string `json:"nhs_number"`
	CareLevel   string  `json:"care_level"`
	BedID       *string `json:"bed_id"`
	GPName      *string `json:"gp_name"`
	NextOfKin   *string `json:"next_of_kin"`
	Notes       *string `json:"notes"`
	Status      string  `json:"status"`
	Version     int     `json:"version"`
}

func (r *residentRequest) toModel() (*models.Resident, error) {
	dob, err := common.ValidateDate(r.DateOfBirth, "date_of_birth")
	if err != nil {
		return nil, err
	}

	resident := &models.Resident{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		DateOfBirth: dob,
		NHSNumber:   r.NHSNumber,
		CareLevel:   r.CareLevel,
		GPName:      r.GPName,
		NextOfKin:   r.NextOfKin,
		Notes:       r.Notes,
		Status:      models.Status(r.Status),
		Version:     r.Version,
	}
	if r.BedID != nil {
		bedID, err := optionalUUID(*r.BedID, "bed_id")
		if err != nil {
			return nil, err
		}
		resident.BedID = bedID
	}
	return resident, nil
}

// CreateResident handles POST /v1/residents
//
//	@Summary  Admit a resident record in draft
//	@Tags     residents
//	@Accept   json
//	@Produce  json
//	@Success  201 {object} models.Resident
//	@Router   /v1/residents [post]
func (h *ResidentHandlers) CreateResident(c echo.Context) error {
	tenantID, userID, err := identity(c)
	if err != nil {
		return common.RespondError(c, err)
	}

	var req residentRequest
	if err := c.Bind(&req); err != nil {
		return common.RespondError(c, common.NewValidationError("body", "invalid request format"))
	}

	resident, err := req.toModel()
	if err != nil {
		return common.RespondError(c, err)
	}

	rec := &middleware.ChangeRecord{
		TableName: "residents",
		Action:    models.ActionCreate,
	}
	middleware.RecordChange(c, rec)

	if err := h.residentService.Create(c.Request().Context(), tenantID, userID, resident); err != nil {
		return common.RespondError(c, err)
	}

	rec.RecordID = resident.ID.String()
	rec.NewValues = models.JSONB{
		"first_name": resident.FirstName,
		"last_name":  resident.LastName,
		"care_level": resident.CareLevel,
		"status":     resident.Status,
	}
	return c.JSON(http.StatusCreated, resident)
}

// GetResident handles GET /v1/residents/:id
func (h *ResidentHandlers) GetResident(c echo.Context) error {
	tenantID, _, err := identity(c)
	if err != nil {
		return common.RespondError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return common.RespondError(c, err)
	}

	resident, err := h.residentService.GetByID(c.Request().Context(), tenantID, id)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, resident)
}

// UpdateResident handles PUT /v1/residents/:id. The request must carry the
// version the client last read; a stale version comes back as a conflict.
func (h *ResidentHandlers) UpdateResident(c echo.Context) error {
	tenantID, userID, err := identity(c)
	if err != nil {
		return common.RespondError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return common.RespondError(c, err)
	}

	var req residentRequest
	if err := c.Bind(&req); err != nil {
		return common.RespondError(c, common.NewValidationError("body", "invalid request format"))
	}

	resident, err := req.toModel()
	if err != nil {
		return common.RespondError(c, err)
	}
	resident.ID = id

	middleware.RecordChange(c, &middleware.ChangeRecord{
		TableName: "residents",
		RecordID:  id.String(),
		Action:    models.ActionUpdate,
		NewValues: models.JSONB{
			"status":  resident.Status,
			"version": resident.Version,
		},
	})

	if err := h.residentService.Update(c.Request().Context(), tenantID, userID, resident); err != nil {
		return common.RespondError(c, err)
	}

	updated, err := h.residentService.GetByID(c.Request().Context(), tenantID, id)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// ListResidents handles GET /v1/residents
func (h *ResidentHandlers) ListResidents(c echo.Context) error {
	tenantID, _, err := identity(c)
	if err != nil {
		return common.RespondError(c, err)
	}

	p := pagination.FromContext(c)
	filter := &models.ResidentFilter{
		Query:  c.QueryParam("q"),
		Limit:  p.Limit,
		Offset: p.Offset,
	}
	if raw := c.QueryParam("status"); raw != "" {
		status := models.Status(raw)
		if !models.ValidStatus(raw) {
			return common.RespondError(c, common.NewValidationError("status", "unknown status"))
		}
		filter.Status = &status
	}
	if raw := c.QueryParam("care_level"); raw != "" {
		if err := common.ValidateEnum(raw, "care_level", models.CareLevels()...); err != nil {
			return common.RespondError(c, err)
		}
		filter.CareLevel = &raw
	}
	if bedID, err := optionalUUID(c.QueryParam("bed_id"), "bed_id"); err != nil {
		return common.RespondError(c, err)
	} else if bedID != nil {
		filter.BedID = bedID
	}

	residents, err := h.residentService.List(c.Request().Context(), tenantID, filter)
	if err != nil {
		return common.RespondError(c, err)
	}
	if residents == nil {
		residents = []*models.Resident{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(residents, p, len(residents)))
}

// ArchiveResident handles DELETE /v1/residents/:id. Records are archived,
// never removed.
func (h *ResidentHandlers) ArchiveResident(c echo.Context) error {
	tenantID, userID, err := identity(c)
	if err != nil {
		return common.RespondError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return common.RespondError(c, err)
	}

	middleware.RecordChange(c, &middleware.ChangeRecord{
		TableName: "residents",
		RecordID:  id.String(),
		Action:    models.ActionArchive,
	})

	if err := h.residentService.Archive(c.Request().Context(), tenantID, userID, id); err != nil {
		return common.RespondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
