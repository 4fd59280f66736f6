package repositories

import (
	"context"
	"fmt"

	"carehq/internal/models"

	"github.com/google/uuid"
)

type BedRepository interface {
	Create(ctx context.Context, bed *models.Bed) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Bed, error)
	GetByRoom(ctx context.Context, tenantID uuid.UUID, roomNumber string) (*models.Bed, error)
	Update(ctx context.Context, bed *models.Bed) (int64, error)
	List(ctx context.Context, tenantID uuid.UUID, filter *models.BedFilter) ([]*models.Bed, error)
	OccupancyCounts(ctx context.Context, tenantID uuid.UUID) (total int, occupied int, err error)
}

type bedRepo struct {
	db DB
}

func NewBedRepo(db DB) BedRepository {
	return &bedRepo{db: db}
}

const bedColumns = `id, tenant_id, room_number, wing, bed_type, occupied, notes, status, version, created_at, created_by, updated_at, updated_by`

func scanBed(row interface{ Scan(dest ...interface{}) error }) (*models.Bed, error) {
	b := &models.Bed{}
	err := row.Scan(&b.ID, &b.TenantID, &b.RoomNumber, &b.Wing, &b.BedType, &b.Occupied, &b.Notes, &b.Status, &b.Version, &b.CreatedAt, &b.CreatedBy, &b.UpdatedAt, &b.UpdatedBy)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *bedRepo) Create(ctx context.Context, bed *models.Bed) error {
	query := `
		INSERT INTO beds (id, tenant_id, room_number, wing, bed_type, occupied, notes, status, version, created_at, created_by, updated_at, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), $10, NOW(), $11)
	`
	_, err := r.db.Exec(ctx, query,
		bed.ID, bed.TenantID, bed.RoomNumber, bed.Wing, bed.BedType,
		bed.Occupied, bed.Notes, bed.Status, bed.Version, bed.CreatedBy, bed.UpdatedBy)
	return err
}

func (r *bedRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Bed, error) {
	query := `
		SELECT ` + bedColumns + `
		FROM beds
		WHERE tenant_id = $1 AND id = $2
	`
	return scanBed(r.db.QueryRow(ctx, query, tenantID, id))
}

func (r *bedRepo) GetByRoom(ctx context.Context, tenantID uuid.UUID, roomNumber string) (*models.Bed, error) {
	query := `
		SELECT ` + bedColumns + `
		FROM beds
		WHERE tenant_id = $1 AND room_number = $2
	`
	return scanBed(r.db.QueryRow(ctx, query, tenantID, roomNumber))
}

func (r *bedRepo) Update(ctx context.Context, bed *models.Bed) (int64, error) {
	query := `
		UPDATE beds
		SET room_number = $1, wing = $2, bed_type = $3, occupied = $4, notes = $5, status = $6, version = version + 1, updated_at = NOW(), updated_by = $7
		WHERE tenant_id = $8 AND id = $9 AND version = $10
	`
	tag, err := r.db.Exec(ctx, query,
		bed.RoomNumber, bed.Wing, bed.BedType, bed.Occupied, bed.Notes,
		bed.Status, bed.UpdatedBy, bed.TenantID, bed.ID, bed.Version)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *bedRepo) List(ctx context.Context, tenantID uuid.UUID, filter *models.BedFilter) ([]*models.Bed, error) {
	query := `
		SELECT ` + bedColumns + `
		FROM beds
		WHERE tenant_id = $1
	`
	args := []interface{}{tenantID}
	n := 1

	if filter.Wing != nil {
		n++
		query += fmt.Sprintf(` AND wing = $%d`, n)
		args = append(args, *filter.Wing)
	}
	if filter.BedType != nil {
		n++
		query += fmt.Sprintf(` AND bed_type = $%d`, n)
		args = append(args, *filter.BedType)
	}
	if filter.Occupied != nil {
		n++
		query += fmt.Sprintf(` AND occupied = $%d`, n)
		args = append(args, *filter.Occupied)
	}
	if filter.Status != nil {
		n++
		query += fmt.Sprintf(` AND status = $%d`, n)
		args = append(args, *filter.Status)
	}

	query += fmt.Sprintf(` ORDER BY room_number LIMIT $%d OFFSET $%d`, n+1, n+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var beds []*models.Bed
	for rows.Next() {
		bed, err := scanBed(rows)
		if err != nil {
			return nil, err
		}
		beds = append(beds, bed)
	}
	return beds, rows.Err()
}

func (r *bedRepo) OccupancyCounts(ctx context.Context, tenantID uuid.UUID) (int, int, error) {
	query := `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE occupied)
		FROM beds
		WHERE tenant_id = $1 AND status = 'active'
	`
	var total, occupied int
	if err := r.db.QueryRow(ctx, query, tenantID).Scan(&total, &occupied); err != nil {
		return 0, 0, err
	}
	return total, occupied, nil
}
