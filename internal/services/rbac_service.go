package services

import (
	"context"

	"carehq/internal/repositories"

	"github.com/google/uuid"
)

// RBACService answers capability questions. A capability is a permission name
// in "resource:action" form; an actor's capability set is the union of the
// permissions granted to their roles.
type RBACService interface {
	UserHasPermission(ctx context.Context, userID, tenantID uuid.UUID, permissionName string) (bool, error)
	GetUserPermissions(ctx context.Context, userID, tenantID uuid.UUID) ([]string, error)
}

type rbacService struct {
	rolePermissionRepo repositories.RolePermissionRepository
}

func NewRBACService(rolePermissionRepo repositories.RolePermissionRepository) RBACService {
	return &rbacService{rolePermissionRepo: rolePermissionRepo}
}

func (s *rbacService) UserHasPermission(ctx context.Context, userID, tenantID uuid.UUID, permissionName string) (bool, error) {
	names, err := s.rolePermissionRepo.PermissionNamesForUser(ctx, tenantID, userID)
	if err != nil {
		return false, err
	}
	for _, name := range names {
		if name == permissionName {
			return true, nil
		}
	}
	return false, nil
}

func (s *rbacService) GetUserPermissions(ctx context.Context, userID, tenantID uuid.UUID) ([]string, error) {
	return s.rolePermissionRepo.PermissionNamesForUser(ctx, tenantID, userID)
}
