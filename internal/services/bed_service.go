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

type BedService interface {
	Create(ctx context.Context, tenantID, actorID uuid.UUID, bed *models.Bed) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Bed, error)
	Update(ctx context.Context, tenantID, actorID uuid.UUID, bed *models.Bed) error
	List(ctx context.Context, tenantID uuid.UUID, filter *models.BedFilter) ([]*models.Bed, error)
	Archive(ctx context.Context, tenantID, actorID, id uuid.UUID) error
}

type bedService struct {
	bedRepo repositories.BedRepository
}

func NewBedService(bedRepo repositories.BedRepository) BedService {
	return &bedService{bedRepo: bedRepo}
}

func (s *bedService) validate(bed *models.Bed) error {
	if err := common.ValidateRequiredString(bed.RoomNumber, "room_number"); err != nil {
		return err
	}
	if err := common.ValidateEnum(bed.BedType, "bed_type", models.BedTypes()...); err != nil {
		return err
	}
	if err := common.ValidateOptionalString(bed.Wing, "wing", 100); err != nil {
		return err
	}
	return common.ValidateOptionalString(bed.Notes, "notes", 2000)
}

func (s *bedService) Create(ctx context.Context, tenantID, actorID uuid.UUID, bed *models.Bed) error {
	if err := s.validate(bed); err != nil {
		return err
	}

	existing, err := s.bedRepo.GetByRoom(ctx, tenantID, bed.RoomNumber)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	if existing != nil {
		return common.NewValidationError("room_number", "a bed already exists in this room")
	}

	bed.ID = uuid.New()
	bed.TenantID = tenantID
	bed.Status = models.StatusDraft
	bed.Occupied = false
	bed.Version = 1
	bed.CreatedBy = actorID
	bed.UpdatedBy = actorID

	return s.bedRepo.Create(ctx, bed)
}

func (s *bedService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Bed, error) {
	bed, err := s.bedRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, notFoundOrErr("bed", err)
	}
	return bed, nil
}

func (s *bedService) Update(ctx context.Context, tenantID, actorID uuid.UUID, bed *models.Bed) error {
	if err := s.validate(bed); err != nil {
		return err
	}

	current, err := s.bedRepo.GetByID(ctx, tenantID, bed.ID)
	if err != nil {
		return notFoundOrErr("bed", err)
	}

	if err := validateTransition(current.Status, bed.Status); err != nil {
		return err
	}

	// Occupancy follows resident assignment, not direct edits.
	bed.Occupied = current.Occupied

	bed.TenantID = tenantID
	bed.UpdatedBy = actorID
	affected, err := s.bedRepo.Update(ctx, bed)
	if err != nil {
		return err
	}
	if affected == 0 {
		if _, err := s.bedRepo.GetByID(ctx, tenantID, bed.ID); err != nil {
			return notFoundOrErr("bed", err)
		}
		return &common.ConflictError{Resource: "bed"}
	}
	return nil
}

func (s *bedService) List(ctx context.Context, tenantID uuid.UUID, filter *models.BedFilter) ([]*models.Bed, error) {
	p := pagination.Clamp(filter.Limit, filter.Offset)
	filter.Limit, filter.Offset = p.Limit, p.Offset
	return s.bedRepo.List(ctx, tenantID, filter)
}

func (s *bedService) Archive(ctx context.Context, tenantID, actorID, id uuid.UUID) error {
	current, err := s.bedRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return notFoundOrErr("bed", err)
	}
	if current.Status == models.StatusArchived {
		return &common.InvalidTransitionError{From: string(models.StatusArchived), To: string(models.StatusArchived)}
	}
	if current.Occupied {
		return common.NewValidationError("id", "bed is occupied and cannot be archived")
	}

	current.Status = models.StatusArchived
	current.UpdatedBy = actorID
	affected, err := s.bedRepo.Update(ctx, current)
	if err != nil {
		return err
	}
	if affected == 0 {
		return &common.ConflictError{Resource: "bed"}
	}
	return nil
}
