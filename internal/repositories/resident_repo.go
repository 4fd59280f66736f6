package repositories

import (
	"fmt"

	"context"

	"carehq/internal/models"

	"github.com/google/uuid"
)

type ResidentRepository interface {
	Create(ctx context.Context, resident *models.Resident) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Resident, error)
	// Update applies the full record guarded by the version it was read at and
	// returns the number of rows affected: zero means the row is gone or the
	// version is stale.
	Update(ctx context.Context, resident *models.Resident) (int64, error)
	List(ctx context.Context, tenantID uuid.UUID, filter *models.ResidentFilter) ([]*models.Resident, error)
	CountByStatus(ctx context.Context, tenantID uuid.UUID) (map[string]int, error)
}

type residentRepo struct {
	db DB
}

func NewResidentRepo(db DB) ResidentRepository {
	return &residentRepo{db: db}
}

const residentColumns = `id, tenant_id, first_name, last_name, date_of_birth, nhs_number, care_level, bed_id, gp_name, next_of_kin, notes, status, version, created_at, created_by, updated_at, updated_by`

func scanResident(row interface{ Scan(dest ...interface{}) error }) (*models.Resident, error) {
	r := &models.Resident{}
	err := row.Scan(&r.ID, &r.TenantID, &r.FirstName, &r.LastName, &r.DateOfBirth, &r.NHSNumber, &r.CareLevel, &r.BedID, &r.GPName, &r.NextOfKin, &r.Notes, &r.Status, &r.Version, &r.CreatedAt, &r.CreatedBy, &r.UpdatedAt, &r.UpdatedBy)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (r *residentRepo) Create(ctx context.Context, resident *models.Resident) error {
	query := `
		INSERT INTO residents (id, tenant_id, first_name, last_name, date_of_birth, nhs_number, care_level, bed_id, gp_name, next_of_kin, notes, status, version, created_at, created_by, updated_at, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), $14, NOW(), $15)
	`
	_, err := r.db.Exec(ctx, query,
		resident.ID, resident.TenantID, resident.FirstName, resident.LastName,
		resident.DateOfBirth, resident.NHSNumber, resident.CareLevel, resident.BedID,
		resident.GPName, resident.NextOfKin, resident.Notes, resident.Status,
		resident.Version, resident.CreatedBy, resident.UpdatedBy)
	return err
}

func (r *residentRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Resident, error) {
	query := `
		SELECT ` + residentColumns + `
		FROM residents
		WHERE tenant_id = $1 AND id = $2
	`
	return scanResident(r.db.QueryRow(ctx, query, tenantID, id))
}

func (r *residentRepo) Update(ctx context.Context, resident *models.Resident) (int64, error) {
	query := `
		UPDATE residents
		SET first_name = $1, last_name = $2, date_of_birth = $3, nhs_number = $4, care_level = $5, bed_id = $6, gp_name = $7, next_of_kin = $8, notes = $9, status = $10, version = version + 1, updated_at = NOW(), updated_by = $11
		WHERE tenant_id = $12 AND id = $13 AND version = $14
	`
	tag, err := r.db.Exec(ctx, query,
		resident.FirstName, resident.LastName, resident.DateOfBirth, resident.NHSNumber,
		resident.CareLevel, resident.BedID, resident.GPName, resident.NextOfKin,
		resident.Notes, resident.Status, resident.UpdatedBy,
		resident.TenantID, resident.ID, resident.Version)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *residentRepo) List(ctx context.Context, tenantID uuid.UUID, filter *models.ResidentFilter) ([]*models.Resident, error) {
	query := `
		SELECT ` + residentColumns + `
		FROM residents
		WHERE tenant_id = $1
	`
	args := []interface{}{tenantID}
	n := 1

	if filter.Query != "" {
		n++
		query += fmt.Sprintf(` AND (first_name ILIKE $%d OR last_name ILIKE $%d OR COALESCE(nhs_number, '') ILIKE $%d)`, n, n, n)
		args = append(args, "%"+filter.Query+"%")
	}
	if filter.Status != nil {
		n++
		query += fmt.Sprintf(` AND status = $%d`, n)
		args = append(args, *filter.Status)
	}
	if filter.CareLevel != nil {
		n++
		query += fmt.Sprintf(` AND care_level = $%d`, n)
		args = append(args, *filter.CareLevel)
	}
	if filter.BedID != nil {
		n++
		query += fmt.Sprintf(` AND bed_id = $%d`, n)
		args = append(args, *filter.BedID)
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, n+1, n+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var residents []*models.Resident
	for rows.Next() {
		resident, err := scanResident(rows)
		if err != nil {
			return nil, err
		}
		residents = append(residents, resident)
	}
	return residents, rows.Err()
}

func (r *residentRepo) CountByStatus(ctx context.Context, tenantID uuid.UUID) (map[string]int, error) {
	query := `
		SELECT status, COUNT(*)
		FROM residents
		WHERE tenant_id = $1
		GROUP BY status
	`
	rows, err := r.db.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}
