package services

import (
	"context"
	"errors"
	"time"

	"carehq/internal/caching"
	"carehq/internal/common"
	"carehq/internal/models"
	"carehq/internal/repositories"
	"carehq/pkg/pagination"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const residentCacheTTL = 5 * time.Minute

type ResidentService interface {
	Create(ctx context.Context, tenantID, actorID uuid.UUID, resident *models.Resident) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Resident, error)
	Update(ctx context.Context, tenantID, actorID uuid.UUID, resident *models.Resident) error
	List(ctx context.Context, tenantID uuid.UUID, filter *models.ResidentFilter) ([]*models.Resident, error)
	Archive(ctx context.Context, tenantID, actorID, id uuid.UUID) error
}

type residentService struct {
	residentRepo repositories.ResidentRepository
	bedRepo      repositories.BedRepository
	cacheSvc     caching.CacheService
}

func NewResidentService(residentRepo repositories.ResidentRepository, bedRepo repositories.BedRepository, cacheSvc caching.CacheService) ResidentService {
	return &residentService{
		residentRepo: residentRepo,
		bedRepo:      bedRepo,
		cacheSvc:     cacheSvc,
	}
}

func (s *residentService) validate(resident *models.Resident) error {
	if err := common.ValidateRequiredString(resident.FirstName, "first_name"); err != nil {
		return err
	}
	if err := common.ValidateRequiredString(resident.LastName, "last_name"); err != nil {
		return err
	}
	if resident.DateOfBirth.IsZero() {
		return common.NewValidationError("date_of_birth", "is required")
	}
	if resident.DateOfBirth.After(time.Now()) {
		return common.NewValidationError("date_of_birth", "cannot be in the future")
	}
	if err := common.ValidateEnum(resident.CareLevel, "care_level", models.CareLevels()...); err != nil {
		return err
	}
	if err := common.ValidateOptionalString(resident.Notes, "notes", 2000); err != nil {
		return err
	}
	if err := common.ValidateOptionalString(resident.NextOfKin, "next_of_kin", 200); err != nil {
		return err
	}
	return common.ValidateOptionalString(resident.GPName, "gp_name", 200)
}

// checkBed verifies a requested bed assignment stays inside the tenant and
// points at an active bed.
func (s *residentService) checkBed(ctx context.Context, tenantID uuid.UUID, bedID uuid.UUID) (*models.Bed, error) {
	bed, err := s.bedRepo.GetByID(ctx, tenantID, bedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewValidationError("bed_id", "bed does not exist")
		}
		return nil, err
	}
	if bed.Status != models.StatusActive {
		return nil, common.NewValidationError("bed_id", "bed is not active")
	}
	return bed, nil
}

func (s *residentService) setBedOccupancy(ctx context.Context, bed *models.Bed, actorID uuid.UUID, occupied bool) error {
	if bed.Occupied == occupied {
		return nil
	}
	bed.Occupied = occupied
	bed.UpdatedBy = actorID
	affected, err := s.bedRepo.Update(ctx, bed)
	if err != nil {
		return err
	}
	if affected == 0 {
		return &common.ConflictError{Resource: "bed"}
	}
	return nil
}

func (s *residentService) Create(ctx context.Context, tenantID, actorID uuid.UUID, resident *models.Resident) error {
	if err := s.validate(resident); err != nil {
		return err
	}

	var bed *models.Bed
	if resident.BedID != nil {
		var err error
		bed, err = s.checkBed(ctx, tenantID, *resident.BedID)
		if err != nil {
			return err
		}
		if bed.Occupied {
			return common.NewValidationError("bed_id", "bed is already occupied")
		}
	}

	resident.ID = uuid.New()
	resident.TenantID = tenantID
	resident.Status = models.StatusDraft
	resident.Version = 1
	resident.CreatedBy = actorID
	resident.UpdatedBy = actorID

	if err := s.residentRepo.Create(ctx, resident); err != nil {
		return err
	}

	if bed != nil {
		if err := s.setBedOccupancy(ctx, bed, actorID, true); err != nil {
			return err
		}
	}
	return nil
}

func (s *residentService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Resident, error) {
	if cached, err := s.cacheSvc.GetResident(ctx, tenantID, id); err == nil {
		return cached, nil
	}

	resident, err := s.residentRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, notFoundOrErr("resident", err)
	}

	_ = s.cacheSvc.SetResident(ctx, resident, residentCacheTTL)
	return resident, nil
}

func (s *residentService) Update(ctx context.Context, tenantID, actorID uuid.UUID, resident *models.Resident) error {
	if err := s.validate(resident); err != nil {
		return err
	}

	current, err := s.residentRepo.GetByID(ctx, tenantID, resident.ID)
	if err != nil {
		return notFoundOrErr("resident", err)
	}

	if err := validateTransition(current.Status, resident.Status); err != nil {
		return err
	}

	// Bed reassignment releases the old bed and claims the new one.
	var newBed *models.Bed
	bedChanged := !uuidPtrEqual(current.BedID, resident.BedID)
	if bedChanged && resident.BedID != nil {
		newBed, err = s.checkBed(ctx, tenantID, *resident.BedID)
		if err != nil {
			return err
		}
		if newBed.Occupied {
			return common.NewValidationError("bed_id", "bed is already occupied")
		}
	}

	resident.TenantID = tenantID
	resident.UpdatedBy = actorID
	affected, err := s.residentRepo.Update(ctx, resident)
	if err != nil {
		return err
	}
	if affected == 0 {
		// The row was read moments ago, so zero rows means a stale version.
		if _, err := s.residentRepo.GetByID(ctx, tenantID, resident.ID); err != nil {
			return notFoundOrErr("resident", err)
		}
		return &common.ConflictError{Resource: "resident"}
	}

	if bedChanged {
		if current.BedID != nil {
			if oldBed, err := s.bedRepo.GetByID(ctx, tenantID, *current.BedID); err == nil {
				if err := s.setBedOccupancy(ctx, oldBed, actorID, false); err != nil {
					return err
				}
			}
		}
		if newBed != nil {
			if err := s.setBedOccupancy(ctx, newBed, actorID, true); err != nil {
				return err
			}
		}
	}

	_ = s.cacheSvc.DeleteResident(ctx, tenantID, resident.ID)
	return nil
}

func (s *residentService) List(ctx context.Context, tenantID uuid.UUID, filter *models.ResidentFilter) ([]*models.Resident, error) {
	p := pagination.Clamp(filter.Limit, filter.Offset)
	filter.Limit, filter.Offset = p.Limit, p.Offset
	filter.Query = common.SanitizeSearchQuery(filter.Query)
	return s.residentRepo.List(ctx, tenantID, filter)
}

func (s *residentService) Archive(ctx context.Context, tenantID, actorID, id uuid.UUID) error {
	current, err := s.residentRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return notFoundOrErr("resident", err)
	}
	if current.Status == models.StatusArchived {
		return &common.InvalidTransitionError{From: string(models.StatusArchived), To: string(models.StatusArchived)}
	}

	current.Status = models.StatusArchived
	current.UpdatedBy = actorID
	affected, err := s.residentRepo.Update(ctx, current)
	if err != nil {
		return err
	}
	if affected == 0 {
		return &common.ConflictError{Resource: "resident"}
	}

	// An archived resident no longer holds a bed.
	if current.BedID != nil {
		if bed, err := s.bedRepo.GetByID(ctx, tenantID, *current.BedID); err == nil {
			if err := s.setBedOccupancy(ctx, bed, actorID, false); err != nil {
				return err
			}
		}
	}

	_ = s.cacheSvc.DeleteResident(ctx, tenantID, id)
	return nil
}

func uuidPtrEqual(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
