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

// MedicationHandlers handles HTTP requests for prescriptions.
type MedicationHandlers struct {
	medicationService services.MedicationService
}

func NewMedicationHandlers(medicationService services.MedicationService) *MedicationHandlers {
	return &MedicationHandlers{medicationService: medicationService}
}

type medicationRequest struct {
	ResidentID string  `json:"resident_id"`
	DrugName   string  `json:"drug_name"`
	Dose       string  `json:"dose"`
	Route      string  `json:"route"`
	Frequency  string  `json:"frequency"`
	Prescriber *string `json:"prescriber"`
	StartDate  string  `json:"start_date"`
	EndDate    *string `json:"end_date"`
	PRN        bool    `json:"prn"`
	Notes      *string `json:"notes"`
	Status     string  `json:"status"`
	Version    int     `json:"version"`
}

func (r *medicationRequest) toModel() (*models.Medication, error) {
	residentID, err := common.ValidateUUID(r.ResidentID, "resident_id")
	if err != nil {
		return nil, err
	}
	start, err := common.ValidateDate(r.StartDate, "start_date")
	if err != nil {
		return nil, err
	}

	medication := &models.Medication{
		ResidentID: residentID,
		DrugName:   r.DrugName,
		Dose:       r.Dose,
		Route:      r.Route,
		Frequency:  r.Frequency,
		Prescriber: r.Prescriber,
		StartDate:  start,
		PRN:        r.PRN,
		Notes:      r.Notes,
		Status:     models.Status(r.Status),
		Version:    r.Version,
	}
	if r.EndDate != nil && *r.EndDate != "" {
		end, err := common.ValidateDate(*r.EndDate, "end_date")
		if err != nil {
			return nil, err
		}
		medication.EndDate = &end
	}
	return medication, nil
}

// CreateMedication handles POST /v1/medications
func (h *MedicationHandlers) CreateMedication(c echo.Context) error {
	tenantID, userID, err := identity(c)
	if err != nil {
		return common.RespondError(c, err)
	}

	var req medicationRequest
	if err := c.Bind(&req); err != nil {
		return common.RespondError(c, common.NewValidationError("body", "invalid request format"))
	}

	medication, err := req.toModel()
	if err != nil {
		return common.RespondError(c, err)
	}

	rec := &middleware.ChangeRecord{TableName: "medications", Action: models.ActionCreate}
	middleware.RecordChange(c, rec)

	if err := h.medicationService.Create(c.Request().Context(), tenantID, userID, medication); err != nil {
		return common.RespondError(c, err)
	}

	rec.RecordID = medication.ID.String()
	rec.NewValues = models.JSONB{
		"resident_id": medication.ResidentID,
		"drug_name":   medication.DrugName,
		"dose":        medication.Dose,
	}
	return c.JSON(http.StatusCreated, medication)
}

// GetMedication handles GET /v1/medications/:id
func (h *MedicationHandlers) GetMedication(c echo.Context) error {
	tenantID, _, err := identity(c)
	if err != nil {
		return common.RespondError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return common.RespondError(c, err)
	}

	medication, err := h.medicationService.GetByID(c.Request().Context(), tenantID, id)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, medication)
}

// UpdateMedication handles PUT /v1/medications/:id
func (h *MedicationHandlers) UpdateMedication(c echo.Context) error {
	tenantID, userID, err := identity(c)
	if err != nil {
		return common.RespondError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return common.RespondError(c, err)
	}

	var req medicationRequest
	if err := c.Bind(&req); err != nil {
		return common.RespondError(c, common.NewValidationError("body", "invalid request format"))
	}

	medication, err := req.toModel()
	if err != nil {
		return common.RespondError(c, err)
	}
	medication.ID = id

	middleware.RecordChange(c, &middleware.ChangeRecord{
		TableName: "medications",
		RecordID:  id.String(),
		Action:    models.ActionUpdate,
		NewValues: models.JSONB{"status": medication.Status, "version": medication.Version},
	})

	if err := h.medicationService.Update(c.Request().Context(), tenantID, userID, medication); err != nil {
		return common.RespondError(c, err)
	}

	updated, err := h.medicationService.GetByID(c.Request().Context(), tenantID, id)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// ListMedications handles GET /v1/medications
func (h *MedicationHandlers) ListMedications(c echo.Context) error {
	tenantID, _, err := identity(c)
	if err != nil {
		return common.RespondError(c, err)
	}

	p := pagination.FromContext(c)
	filter := &models.MedicationFilter{Limit: p.Limit, Offset: p.Offset}
	if residentID, err := optionalUUID(c.QueryParam("resident_id"), "resident_id"); err != nil {
		return common.RespondError(c, err)
	} else if residentID != nil {
		filter.ResidentID = residentID
	}
	if raw := c.QueryParam("status"); raw != "" {
		status := models.Status(raw)
		if !models.ValidStatus(raw) {
			return common.RespondError(c, common.NewValidationError("status", "unknown status"))
		}
		filter.Status = &status
	}
	if raw := c.QueryParam("prn"); raw != "" {
		prn, err := strconv.ParseBool(raw)
		if err != nil {
			return common.RespondError(c, common.NewValidationError("prn", "must be true or false"))
		}
		filter.PRN = &prn
	}

	medications, err := h.medicationService.List(c.Request().Context(), tenantID, filter)
	if err != nil {
		return common.RespondError(c, err)
	}
	if medications == nil {
		medications = []*models.Medication{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(medications, p, len(medications)))
}

// ArchiveMedication handles DELETE /v1/medications/:id
func (h *MedicationHandlers) ArchiveMedication(c echo.Context) error {
	tenantID, userID, err := identity(c)
	if err != nil {
		return common.RespondError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return common.RespondError(c, err)
	}

	middleware.RecordChange(c, &middleware.ChangeRecord{
		TableName: "medications",
		RecordID:  id.String(),
		Action:    models.ActionArchive,
	})

	if err := h.medicationService.Archive(c.Request().Context(), tenantID, userID, id); err != nil {
		return common.RespondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
