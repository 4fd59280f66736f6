package services

import (
	"context"

	"carehq/internal/models"
	"carehq/internal/repositories"

	"github.com/google/uuid"
)

// Resources and actions that make up the permission catalog. Roles are
// assembled from these at runtime, so new roles need no code change.
var permissionResources = []string{"residents", "beds", "medications", "documents", "users", "roles", "audit_logs", "analytics", "tenants"}
var permissionActions = []string{"read", "write", "archive"}

// PermissionCatalog returns every "resource:action" name the platform knows.
func PermissionCatalog() []string {
	names := make([]string, 0, len(permissionResources)*len(permissionActions))
	for _, resource := range permissionResources {
		for _, action := range permissionActions {
			names = append(names, models.PermissionName(resource, action))
		}
	}
	return names
}

type BootstrapRequest struct {
	TenantName string `json:"tenant_name"`
	Subdomain  string `json:"subdomain"`
	CQCNumber  *string `json:"cqc_number"`

	AdminEmail     string `json:"admin_email"`
	AdminPassword  string `json:"admin_password"`
	AdminFirstName string `json:"admin_first_name"`
	AdminLastName  string `json:"admin_last_name"`
}

// ProvisioningService sets up tenants and the data-driven permission model.
// All operations are idempotent so seeding can run repeatedly.
type ProvisioningService interface {
	// EnsurePermissions inserts any catalog permissions that do not exist yet.
	EnsurePermissions(ctx context.Context) error
	// BootstrapTenant creates a tenant together with its admin role (holding
	// the full catalog) and first admin user.
	BootstrapTenant(ctx context.Context, req *BootstrapRequest) (*models.Tenant, *models.User, error)
	// EnsureRole creates a tenant role with the given permissions if absent.
	EnsureRole(ctx context.Context, tenantID uuid.UUID, name string, permissionNames []string) (*models.Role, error)
}

type provisioningService struct {
	tenantService      TenantService
	userService        UserService
	roleRepo           repositories.RoleRepository
	permissionRepo     repositories.PermissionRepository
	rolePermissionRepo repositories.RolePermissionRepository
}

func NewProvisioningService(
	tenantService TenantService,
	userService UserService,
	roleRepo repositories.RoleRepository,
	permissionRepo repositories.PermissionRepository,
	rolePermissionRepo repositories.RolePermissionRepository,
) ProvisioningService {
	return &provisioningService{
		tenantService:      tenantService,
		userService:        userService,
		roleRepo:           roleRepo,
		permissionRepo:     permissionRepo,
		rolePermissionRepo: rolePermissionRepo,
	}
}

func (s *provisioningService) EnsurePermissions(ctx context.Context) error {
	for _, name := range PermissionCatalog() {
		// Create is a no-op on conflict, so re-running is safe.
		if err := s.permissionRepo.Create(ctx, &models.Permission{
			ID:   uuid.New(),
			Name: name,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (s *provisioningService) EnsureRole(ctx context.Context, tenantID uuid.UUID, name string, permissionNames []string) (*models.Role, error) {
	role, err := s.roleRepo.GetByName(ctx, tenantID, name)
	if err != nil {
		role = &models.Role{
			ID:       uuid.New(),
			TenantID: tenantID,
			Name:     name,
		}
		if err := s.roleRepo.Create(ctx, role); err != nil {
			return nil, err
		}
		// Re-read in case a concurrent seed won the insert.
		if existing, err := s.roleRepo.GetByName(ctx, tenantID, name); err == nil {
			role = existing
		}
	}

	for _, permName := range permissionNames {
		perm, err := s.permissionRepo.GetByName(ctx, permName)
		if err != nil {
			return nil, err
		}
		if err := s.rolePermissionRepo.Grant(ctx, &models.RolePermission{
			ID:           uuid.New(),
			TenantID:     tenantID,
			RoleID:       role.ID,
			PermissionID: perm.ID,
		}); err != nil {
			return nil, err
		}
	}
	return role, nil
}

func (s *provisioningService) BootstrapTenant(ctx context.Context, req *BootstrapRequest) (*models.Tenant, *models.User, error) {
	if err := s.EnsurePermissions(ctx); err != nil {
		return nil, nil, err
	}

	tenant, err := s.tenantService.Create(ctx, &CreateTenantRequest{
		Name:      req.TenantName,
		Subdomain: req.Subdomain,
		CQCNumber: req.CQCNumber,
	})
	if err != nil {
		return nil, nil, err
	}

	adminRole, err := s.EnsureRole(ctx, tenant.ID, "admin", PermissionCatalog())
	if err != nil {
		return nil, nil, err
	}

	admin, err := s.userService.Create(ctx, tenant.ID, &CreateUserRequest{
		Email:     req.AdminEmail,
		Password:  req.AdminPassword,
		FirstName: req.AdminFirstName,
		LastName:  req.AdminLastName,
		RoleID:    &adminRole.ID,
	})
	if err != nil {
		return nil, nil, err
	}
	return tenant, admin, nil
}
