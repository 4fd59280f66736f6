package services

import (
	"context"

	"carehq/internal/common"
	"carehq/internal/models"
	"carehq/internal/repositories"
	"carehq/pkg/pagination"

	"github.com/google/uuid"
)

type RoleService interface {
	Create(ctx context.Context, tenantID uuid.UUID, name string, description *string) (*models.Role, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Role, error)
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Role, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error

	GrantPermission(ctx context.Context, tenantID, roleID uuid.UUID, permissionName string) error
	RevokePermission(ctx context.Context, tenantID, roleID uuid.UUID, permissionName string) error
	RolePermissions(ctx context.Context, tenantID, roleID uuid.UUID) ([]string, error)
	// Catalog lists every permission name the platform defines.
	Catalog(ctx context.Context) ([]*models.Permission, error)
}

type roleService struct {
	roleRepo           repositories.RoleRepository
	permissionRepo     repositories.PermissionRepository
	rolePermissionRepo repositories.RolePermissionRepository
}

func NewRoleService(
	roleRepo repositories.RoleRepository,
	permissionRepo repositories.PermissionRepository,
	rolePermissionRepo repositories.RolePermissionRepository,
) RoleService {
	return &roleService{
		roleRepo:           roleRepo,
		permissionRepo:     permissionRepo,
		rolePermissionRepo: rolePermissionRepo,
	}
}

func (s *roleService) Create(ctx context.Context, tenantID uuid.UUID, name string, description *string) (*models.Role, error) {
	if err := common.ValidateRequiredString(name, "name"); err != nil {
		return nil, err
	}
	if existing, err := s.roleRepo.GetByName(ctx, tenantID, name); err == nil && existing != nil {
		return nil, common.NewValidationError("name", "role already exists")
	}

	role := &models.Role{
		ID:          uuid.New(),
		TenantID:    tenantID,
		Name:        name,
		Description: description,
	}
	if err := s.roleRepo.Create(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

func (s *roleService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Role, error) {
	role, err := s.roleRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, notFoundOrErr("role", err)
	}
	return role, nil
}

func (s *roleService) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Role, error) {
	p := pagination.Clamp(limit, offset)
	return s.roleRepo.List(ctx, tenantID, p.Limit, p.Offset)
}

func (s *roleService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.roleRepo.GetByID(ctx, tenantID, id); err != nil {
		return notFoundOrErr("role", err)
	}
	return s.roleRepo.Delete(ctx, tenantID, id)
}

func (s *roleService) resolvePermission(ctx context.Context, permissionName string) (*models.Permission, error) {
	perm, err := s.permissionRepo.GetByName(ctx, permissionName)
	if err != nil {
		return nil, common.NewValidationError("permission", "unknown permission name")
	}
	return perm, nil
}

func (s *roleService) GrantPermission(ctx context.Context, tenantID, roleID uuid.UUID, permissionName string) error {
	if _, err := s.roleRepo.GetByID(ctx, tenantID, roleID); err != nil {
		return notFoundOrErr("role", err)
	}
	perm, err := s.resolvePermission(ctx, permissionName)
	if err != nil {
		return err
	}
	return s.rolePermissionRepo.Grant(ctx, &models.RolePermission{
		ID:           uuid.New(),
		TenantID:     tenantID,
		RoleID:       roleID,
		PermissionID: perm.ID,
	})
}

func (s *roleService) RevokePermission(ctx context.Context, tenantID, roleID uuid.UUID, permissionName string) error {
	perm, err := s.resolvePermission(ctx, permissionName)
	if err != nil {
		return err
	}
	return s.rolePermissionRepo.Revoke(ctx, tenantID, roleID, perm.ID)
}

func (s *roleService) RolePermissions(ctx context.Context, tenantID, roleID uuid.UUID) ([]string, error) {
	grants, err := s.rolePermissionRepo.ListByRole(ctx, tenantID, roleID)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(grants))
	for _, grant := range grants {
		perm, err := s.permissionRepo.GetByID(ctx, grant.PermissionID)
		if err != nil {
			continue
		}
		names = append(names, perm.Name)
	}
	return names, nil
}

func (s *roleService) Catalog(ctx context.Context) ([]*models.Permission, error) {
	return s.permissionRepo.List(ctx, pagination.MaxLimit, 0)
}
