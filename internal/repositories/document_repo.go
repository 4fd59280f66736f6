package repositories

import (
	"context"
	"fmt"

	"carehq/internal/models"

	"github.com/google/uuid"
)

type DocumentRepository interface {
	Create(ctx context.Context, document *models.Document) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Document, error)
	Update(ctx context.Context, document *models.Document) (int64, error)
	List(ctx context.Context, tenantID uuid.UUID, filter *models.DocumentFilter) ([]*models.Document, error)
}

type documentRepo struct {
	db DB
}

func NewDocumentRepo(db DB) DocumentRepository {
	return &documentRepo{db: db}
}

const documentColumns = `id, tenant_id, resident_id, title, category, object_key, content_type, size_bytes, status, version, created_at, created_by, updated_at, updated_by`

func scanDocument(row interface{ Scan(dest ...interface{}) error }) (*models.Document, error) {
	d := &models.Document{}
	err := row.Scan(&d.ID, &d.TenantID, &d.ResidentID, &d.Title, &d.Category, &d.ObjectKey, &d.ContentType, &d.SizeBytes, &d.Status, &d.Version, &d.CreatedAt, &d.CreatedBy, &d.UpdatedAt, &d.UpdatedBy)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *documentRepo) Create(ctx context.Context, document *models.Document) error {
	query := `
		INSERT INTO documents (id, tenant_id, resident_id, title, category, object_key, content_type, size_bytes, status, version, created_at, created_by, updated_at, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), $11, NOW(), $12)
	`
	_, err := r.db.Exec(ctx, query,
		document.ID, document.TenantID, document.ResidentID, document.Title,
		document.Category, document.ObjectKey, document.ContentType, document.SizeBytes,
		document.Status, document.Version, document.CreatedBy, document.UpdatedBy)
	return err
}

func (r *documentRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Document, error) {
	query := `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE tenant_id = $1 AND id = $2
	`
	return scanDocument(r.db.QueryRow(ctx, query, tenantID, id))
}

func (r *documentRepo) Update(ctx context.Context, document *models.Document) (int64, error) {
	query := `
		UPDATE documents
		SET resident_id = $1, title = $2, category = $3, status = $4, version = version + 1, updated_at = NOW(), updated_by = $5
		WHERE tenant_id = $6 AND id = $7 AND version = $8
	`
	tag, err := r.db.Exec(ctx, query,
		document.ResidentID, document.Title, document.Category, document.Status,
		document.UpdatedBy, document.TenantID, document.ID, document.Version)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *documentRepo) List(ctx context.Context, tenantID uuid.UUID, filter *models.DocumentFilter) ([]*models.Document, error) {
	query := `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE tenant_id = $1
	`
	args := []interface{}{tenantID}
	n := 1

	if filter.ResidentID != nil {
		n++
		query += fmt.Sprintf(` AND resident_id = $%d`, n)
		args = append(args, *filter.ResidentID)
	}
	if filter.Category != nil {
		n++
		query += fmt.Sprintf(` AND category = $%d`, n)
		args = append(args, *filter.Category)
	}
	if filter.Status != nil {
		n++
		query += fmt.Sprintf(` AND status = $%d`, n)
		args = append(args, *filter.Status)
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, n+1, n+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var documents []*models.Document
	for rows.Next() {
		document, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		documents = append(documents, document)
	}
	return documents, rows.Err()
}
