package services

import (
	"context"
	"errors"

	"carehq/internal/common"
	"carehq/internal/models"
	"carehq/internal/repositories"
	"carehq/pkg/pagination"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type MedicationService interface {
	Create(ctx context.Context, tenantID, actorID uuid.UUID, medication *models.Medication) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Medication, error)
	Update(ctx context.Context, tenantID, actorID uuid.UUID, medication *models.Medication) error
	List(ctx context.Context, tenantID uuid.UUID, filter *models.MedicationFilter) ([]*models.Medication, error)
	Archive(ctx context.Context, tenantID, actorID, id uuid.UUID) error
}

type medicationService struct {
	medicationRepo repositories.MedicationRepository
	residentRepo   repositories.ResidentRepository
}

func NewMedicationService(medicationRepo repositories.MedicationRepository, residentRepo repositories.ResidentRepository) MedicationService {
	return &medicationService{
		medicationRepo: medicationRepo,
		residentRepo:   residentRepo,
	}
}

func (s *medicationService) validate(medication *models.Medication) error {
	if err := common.ValidateRequiredString(medication.DrugName, "drug_name"); err != nil {
		return err
	}
	if err := common.ValidateRequiredString(medication.Dose, "dose"); err != nil {
		return err
	}
	if err := common.ValidateEnum(medication.Route, "route", models.MedicationRoutes()...); err != nil {
		return err
	}
	if err := common.ValidateRequiredString(medication.Frequency, "frequency"); err != nil {
		return err
	}
	if medication.StartDate.IsZero() {
		return common.NewValidationError("start_date", "is required")
	}
	if medication.EndDate != nil && medication.EndDate.Before(medication.StartDate) {
		return common.NewValidationError("end_date", "cannot be before start_date")
	}
	if err := common.ValidateOptionalString(medication.Prescriber, "prescriber", 200); err != nil {
		return err
	}
	return common.ValidateOptionalString(medication.Notes, "notes", 2000)
}

// checkResident confirms the prescription targets a resident inside the tenant.
func (s *medicationService) checkResident(ctx context.Context, tenantID, residentID uuid.UUID) error {
	resident, err := s.residentRepo.GetByID(ctx, tenantID, residentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.NewValidationError("resident_id", "resident does not exist")
		}
		return err
	}
	if resident.Status == models.StatusArchived {
		return common.NewValidationError("resident_id", "resident is archived")
	}
	return nil
}

func (s *medicationService) Create(ctx context.Context, tenantID, actorID uuid.UUID, medication *models.Medication) error {
	if err := s.validate(medication); err != nil {
		return err
	}
	if err := s.checkResident(ctx, tenantID, medication.ResidentID); err != nil {
		return err
	}

	medication.ID = uuid.New()
	medication.TenantID = tenantID
	medication.Status = models.StatusDraft
	medication.Version = 1
	medication.CreatedBy = actorID
	medication.UpdatedBy = actorID

	return s.medicationRepo.Create(ctx, medication)
}

func (s *medicationService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Medication, error) {
	medication, err := s.medicationRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, notFoundOrErr("medication", err)
	}
	return medication, nil
}

func (s *medicationService) Update(ctx context.Context, tenantID, actorID uuid.UUID, medication *models.Medication) error {
	if err := s.validate(medication); err != nil {
		return err
	}

	current, err := s.medicationRepo.GetByID(ctx, tenantID, medication.ID)
	if err != nil {
		return notFoundOrErr("medication", err)
	}

	if err := validateTransition(current.Status, medication.Status); err != nil {
		return err
	}

	// The prescribed resident is fixed for the life of the record.
	medication.ResidentID = current.ResidentID

	medication.TenantID = tenantID
	medication.UpdatedBy = actorID
	affected, err := s.medicationRepo.Update(ctx, medication)
	if err != nil {
		return err
	}
	if affected == 0 {
		if _, err := s.medicationRepo.GetByID(ctx, tenantID, medication.ID); err != nil {
			return notFoundOrErr("medication", err)
		}
		return &common.ConflictError{Resource: "medication"}
	}
	return nil
}

func (s *medicationService) List(ctx context.Context, tenantID uuid.UUID, filter *models.MedicationFilter) ([]*models.Medication, error) {
	p := pagination.Clamp(filter.Limit, filter.Offset)
	filter.Limit, filter.Offset = p.Limit, p.Offset
	return s.medicationRepo.List(ctx, tenantID, filter)
}

func (s *medicationService) Archive(ctx context.Context, tenantID, actorID, id uuid.UUID) error {
	current, err := s.medicationRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return notFoundOrErr("medication", err)
	}
	if current.Status == models.StatusArchived {
		return &common.InvalidTransitionError{From: string(models.StatusArchived), To: string(models.StatusArchived)}
	}

	current.Status = models.StatusArchived
	current.UpdatedBy = actorID
	affected, err := s.medicationRepo.Update(ctx, current)
	if err != nil {
		return err
	}
	if affected == 0 {
		return &common.ConflictError{Resource: "medication"}
	}
	return nil
}
