package services

import (
	"context"
	"errors"
	"regexp"

	"carehq/internal/common"
	"carehq/internal/models"
	"carehq/internal/repositories"
	"carehq/pkg/pagination"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var subdomainPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)

type CreateTenantRequest struct {
	Name      string  `json:"name"`
	Subdomain string  `json:"subdomain"`
	CQCNumber *string `json:"cqc_number"`
}

type TenantService interface {
	Create(ctx context.Context, req *CreateTenantRequest) (*models.Tenant, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	Update(ctx context.Context, tenant *models.Tenant) error
	Suspend(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Tenant, error)
}

type tenantService struct {
	tenantRepo repositories.TenantRepository
}

func NewTenantService(tenantRepo repositories.TenantRepository) TenantService {
	return &tenantService{tenantRepo: tenantRepo}
}

func (s *tenantService) Create(ctx context.Context, req *CreateTenantRequest) (*models.Tenant, error) {
	if req.Name == "" || req.Subdomain == "" {
		return nil, common.NewValidationError("name", "name and subdomain are required")
	}
	if !subdomainPattern.MatchString(req.Subdomain) {
		return nil, common.NewValidationError("subdomain", "must be lowercase alphanumeric with hyphens")
	}

	existing, err := s.tenantRepo.GetBySubdomain(ctx, req.Subdomain)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if existing != nil {
		return nil, common.NewValidationError("subdomain", "is already taken")
	}

	tenant := &models.Tenant{
		ID:        uuid.New(),
		Name:      req.Name,
		Subdomain: req.Subdomain,
		CQCNumber: req.CQCNumber,
		Status:    models.StatusActive,
	}
	if err := s.tenantRepo.Create(ctx, tenant); err != nil {
		return nil, err
	}
	return tenant, nil
}

func (s *tenantService) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOrErr("tenant", err)
	}
	return tenant, nil
}

func (s *tenantService) Update(ctx context.Context, tenant *models.Tenant) error {
	if tenant.Name == "" {
		return common.NewValidationError("name", "is required")
	}

	current, err := s.tenantRepo.GetByID(ctx, tenant.ID)
	if err != nil {
		return notFoundOrErr("tenant", err)
	}
	if err := validateTransition(current.Status, tenant.Status); err != nil {
		return err
	}

	// Subdomain is fixed after creation; it is the tenant's routing identity.
	tenant.Subdomain = current.Subdomain

	return s.tenantRepo.Update(ctx, tenant)
}

func (s *tenantService) Suspend(ctx context.Context, id uuid.UUID) error {
	tenant, err := s.tenantRepo.GetByID(ctx, id)
	if err != nil {
		return notFoundOrErr("tenant", err)
	}
	if err := validateTransition(tenant.Status, models.StatusSuspended); err != nil {
		return err
	}
	tenant.Status = models.StatusSuspended
	return s.tenantRepo.Update(ctx, tenant)
}

func (s *tenantService) List(ctx context.Context, limit, offset int) ([]*models.Tenant, error) {
	p := pagination.Clamp(limit, offset)
	return s.tenantRepo.List(ctx, p.Limit, p.Offset)
}
