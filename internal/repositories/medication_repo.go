package repositories

import (
	"context"
	"fmt"

	"carehq/internal/models"

	"github.com/google/uuid"
)

type MedicationRepository interface {
	Create(ctx context.Context, medication *models.Medication) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Medication, error)
	Update(ctx context.Context, medication *models.Medication) (int64, error)
	List(ctx context.Context, tenantID uuid.UUID, filter *models.MedicationFilter) ([]*models.Medication, error)
	ListActiveByResident(ctx context.Context, tenantID, residentID uuid.UUID) ([]*models.Medication, error)
}

type medicationRepo struct {
	db DB
}

func NewMedicationRepo(db DB) MedicationRepository {
	return &medicationRepo{db: db}
}

const medicationColumns = `id, tenant_id, resident_id, drug_name, dose, route, frequency, prescriber, start_date, end_date, prn, notes, status, version, created_at, created_by, updated_at, updated_by`

func scanMedication(row interface{ Scan(dest ...interface{}) error }) (*models.Medication, error) {
	m := &models.Medication{}
	err := row.Scan(&m.ID, &m.TenantID, &m.ResidentID, &m.DrugName, &m.Dose, &m.Route, &m.Frequency, &m.Prescriber, &m.StartDate, &m.EndDate, &m.PRN, &m.Notes, &m.Status, &m.Version, &m.CreatedAt, &m.CreatedBy, &m.UpdatedAt, &m.UpdatedBy)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *medicationRepo) Create(ctx context.Context, medication *models.Medication) error {
	query := `
		INSERT INTO medications (id, tenant_id, resident_id, drug_name, dose, route, frequency, prescriber, start_date, end_date, prn, notes, status, version, created_at, created_by, updated_at, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), $15, NOW(), $16)
	`
	_, err := r.db.Exec(ctx, query,
		medication.ID, medication.TenantID, medication.ResidentID, medication.DrugName,
		medication.Dose, medication.Route, medication.Frequency, medication.Prescriber,
		medication.StartDate, medication.EndDate, medication.PRN, medication.Notes,
		medication.Status, medication.Version, medication.CreatedBy, medication.UpdatedBy)
	return err
}

func (r *medicationRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Medication, error) {
	query := `
		SELECT ` + medicationColumns + `
		FROM medications
		WHERE tenant_id = $1 AND id = $2
	`
	return scanMedication(r.db.QueryRow(ctx, query, tenantID, id))
}

func (r *medicationRepo) Update(ctx context.Context, medication *models.Medication) (int64, error) {
	query := `
		UPDATE medications
		SET drug_name = $1, dose = $2, route = $3, frequency = $4, prescriber = $5, start_date = $6, end_date = $7, prn = $8, notes = $9, status = $10, version = version + 1, updated_at = NOW(), updated_by = $11
		WHERE tenant_id = $12 AND id = $13 AND version = $14
	`
	tag, err := r.db.Exec(ctx, query,
		medication.DrugName, medication.Dose, medication.Route, medication.Frequency,
		medication.Prescriber, medication.StartDate, medication.EndDate, medication.PRN,
		medication.Notes, medication.Status, medication.UpdatedBy,
		medication.TenantID, medication.ID, medication.Version)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *medicationRepo) List(ctx context.Context, tenantID uuid.UUID, filter *models.MedicationFilter) ([]*models.Medication, error) {
	query := `
		SELECT ` + medicationColumns + `
		FROM medications
		WHERE tenant_id = $1
	`
	args := []interface{}{tenantID}
	n := 1

	if filter.ResidentID != nil {
		n++
		query += fmt.Sprintf(` AND resident_id = $%d`, n)
		args = append(args, *filter.ResidentID)
	}
	if filter.Status != nil {
		n++
		query += fmt.Sprintf(` AND status = $%d`, n)
		args = append(args, *filter.Status)
	}
	if filter.PRN != nil {
		n++
		query += fmt.Sprintf(` AND prn = $%d`, n)
		args = append(args, *filter.PRN)
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, n+1, n+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var medications []*models.Medication
	for rows.Next() {
		medication, err := scanMedication(rows)
		if err != nil {
			return nil, err
		}
		medications = append(medications, medication)
	}
	return medications, rows.Err()
}

func (r *medicationRepo) ListActiveByResident(ctx context.Context, tenantID, residentID uuid.UUID) ([]*models.Medication, error) {
	query := `
		SELECT ` + medicationColumns + `
		FROM medications
		WHERE tenant_id = $1 AND resident_id = $2 AND status = 'active'
		ORDER BY drug_name
	`
	rows, err := r.db.Query(ctx, query, tenantID, residentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var medications []*models.Medication
	for rows.Next() {
		medication, err := scanMedication(rows)
		if err != nil {
			return nil, err
		}
		medications = append(medications, medication)
	}
	return medications, rows.Err()
}
