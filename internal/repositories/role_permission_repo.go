package repositories

import (
	"context"

	"carehq/internal/models"

	"github.com/google/uuid"
)

type RolePermissionRepository interface {
	Grant(ctx context.Context, rolePermission *models.RolePermission) error
	Revoke(ctx context.Context, tenantID, roleID, permissionID uuid.UUID) error
	ListByRole(ctx context.Context, tenantID, roleID uuid.UUID) ([]*models.RolePermission, error)
	// PermissionNamesForUser resolves the actor's full capability set in one
	// query instead of walking roles row by row.
	PermissionNamesForUser(ctx context.Context, tenantID, userID uuid.UUID) ([]string, error)
}

type rolePermissionRepo struct {
	db DB
}

func NewRolePermissionRepo(db DB) RolePermissionRepository {
	return &rolePermissionRepo{db: db}
}

func (r *rolePermissionRepo) Grant(ctx context.Context, rolePermission *models.RolePermission) error {
	query := `
		INSERT INTO role_permissions (id, tenant_id, role_id, permission_id, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (tenant_id, role_id, permission_id) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query, rolePermission.ID, rolePermission.TenantID, rolePermission.RoleID, rolePermission.PermissionID)
	return err
}

func (r *rolePermissionRepo) Revoke(ctx context.Context, tenantID, roleID, permissionID uuid.UUID) error {
	query := `DELETE FROM role_permissions WHERE tenant_id = $1 AND role_id = $2 AND permission_id = $3`
	_, err := r.db.Exec(ctx, query, tenantID, roleID, permissionID)
	return err
}

func (r *rolePermissionRepo) ListByRole(ctx context.Context, tenantID, roleID uuid.UUID) ([]*models.RolePermission, error) {
	query := `
		SELECT id, tenant_id, role_id, permission_id, created_at
		FROM role_permissions
		WHERE tenant_id = $1 AND role_id = $2
	`
	rows, err := r.db.Query(ctx, query, tenantID, roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rolePermissions []*models.RolePermission
	for rows.Next() {
		rp := &models.RolePermission{}
		if err := rows.Scan(&rp.ID, &rp.TenantID, &rp.RoleID, &rp.PermissionID, &rp.CreatedAt); err != nil {
			return nil, err
		}
		rolePermissions = append(rolePermissions, rp)
	}
	return rolePermissions, rows.Err()
}

func (r *rolePermissionRepo) PermissionNamesForUser(ctx context.Context, tenantID, userID uuid.UUID) ([]string, error) {
	query := `
		SELECT DISTINCT p.name
		FROM user_roles ur
		JOIN role_permissions rp ON rp.tenant_id = ur.tenant_id AND rp.role_id = ur.role_id
		JOIN permissions p ON p.id = rp.permission_id
		WHERE ur.tenant_id = $1 AND ur.user_id = $2
	`
	rows, err := r.db.Query(ctx, query, tenantID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
