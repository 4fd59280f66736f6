package repositories

import (
	"context"

	"carehq/internal/models"

	"github.com/google/uuid"
)

type UserRoleRepository interface {
	Assign(ctx context.Context, userRole *models.UserRole) error
	Remove(ctx context.Context, tenantID, userID, roleID uuid.UUID) error
	ListByUser(ctx context.Context, tenantID, userID uuid.UUID) ([]*models.UserRole, error)
}

type userRoleRepo struct {
	db DB
}

func NewUserRoleRepo(db DB) UserRoleRepository {
	return &userRoleRepo{db: db}
}

func (r *userRoleRepo) Assign(ctx context.Context, userRole *models.UserRole) error {
	query := `
		INSERT INTO user_roles (id, tenant_id, user_id, role_id, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (tenant_id, user_id, role_id) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query, userRole.ID, userRole.TenantID, userRole.UserID, userRole.RoleID)
	return err
}

func (r *userRoleRepo) Remove(ctx context.Context, tenantID, userID, roleID uuid.UUID) error {
	query := `DELETE FROM user_roles WHERE tenant_id = $1 AND user_id = $2 AND role_id = $3`
	_, err := r.db.Exec(ctx, query, tenantID, userID, roleID)
	return err
}

func (r *userRoleRepo) ListByUser(ctx context.Context, tenantID, userID uuid.UUID) ([]*models.UserRole, error) {
	query := `
		SELECT id, tenant_id, user_id, role_id, created_at
		FROM user_roles
		WHERE tenant_id = $1 AND user_id = $2
	`
	rows, err := r.db.Query(ctx, query, tenantID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var userRoles []*models.UserRole
	for rows.Next() {
		ur := &models.UserRole{}
		if err := rows.Scan(&ur.ID, &ur.TenantID, &ur.UserID, &ur.RoleID, &ur.CreatedAt); err != nil {
			return nil, err
		}
		userRoles = append(userRoles, ur)
	}
	return userRoles, rows.Err()
}
