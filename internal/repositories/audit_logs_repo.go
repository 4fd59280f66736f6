package repositories

import (
	"context"
	"fmt"

	"carehq/internal/models"

	"github.com/google/uuid"
)

type AuditLogsRepository interface {
	// Create appends a record. There is no update or delete; the log is
	// immutable by construction.
	Create(ctx context.Context, auditLog *models.AuditLog) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.AuditLog, error)
	List(ctx context.Context, tenantID uuid.UUID, filters *models.AuditLogFilters) ([]*models.AuditLog, error)
	EntityHistory(ctx context.Context, tenantID uuid.UUID, tableName, recordID string, limit, offset int) ([]*models.AuditLog, error)
	// MarkExpiredBefore flags old records for the retention sweep; it never
	// physically deletes.
	MarkExpiredBefore(ctx context.Context, cutoffDays int) (int64, error)
}

type auditLogsRepo struct {
	db DB
}

func NewAuditLogsRepo(db DB) AuditLogsRepository {
	return &auditLogsRepo{db: db}
}

const auditLogColumns = `id, tenant_id, request_id, table_name, record_id, action, outcome, old_values, new_values, changed_by, expired, created_at`

func scanAuditLog(row interface{ Scan(dest ...interface{}) error }) (*models.AuditLog, error) {
	a := &models.AuditLog{}
	err := row.Scan(&a.ID, &a.TenantID, &a.RequestID, &a.TableName, &a.RecordID, &a.Action, &a.Outcome, &a.OldValues, &a.NewValues, &a.ChangedBy, &a.Expired, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *auditLogsRepo) Create(ctx context.Context, auditLog *models.AuditLog) error {
	query := `
		INSERT INTO audit_logs (id, tenant_id, request_id, table_name, record_id, action, outcome, old_values, new_values, changed_by, expired, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, false, NOW())
	`
	_, err := r.db.Exec(ctx, query,
		auditLog.ID, auditLog.TenantID, auditLog.RequestID, auditLog.TableName,
		auditLog.RecordID, auditLog.Action, auditLog.Outcome,
		auditLog.OldValues, auditLog.NewValues, auditLog.ChangedBy)
	return err
}

func (r *auditLogsRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.AuditLog, error) {
	query := `
		SELECT ` + auditLogColumns + `
		FROM audit_logs
		WHERE tenant_id = $1 AND id = $2
	`
	return scanAuditLog(r.db.QueryRow(ctx, query, tenantID, id))
}

func (r *auditLogsRepo) List(ctx context.Context, tenantID uuid.UUID, filters *models.AuditLogFilters) ([]*models.AuditLog, error) {
	query := `
		SELECT ` + auditLogColumns + `
		FROM audit_logs
		WHERE tenant_id = $1 AND NOT expired
	`
	args := []interface{}{tenantID}
	n := 1

	if filters.TableName != nil {
		n++
		query += fmt.Sprintf(` AND table_name = $%d`, n)
		args = append(args, *filters.TableName)
	}
	if filters.RecordID != nil {
		n++
		query += fmt.Sprintf(` AND record_id = $%d`, n)
		args = append(args, *filters.RecordID)
	}
	if filters.Action != nil {
		n++
		query += fmt.Sprintf(` AND action = $%d`, n)
		args = append(args, *filters.Action)
	}
	if filters.Outcome != nil {
		n++
		query += fmt.Sprintf(` AND outcome = $%d`, n)
		args = append(args, *filters.Outcome)
	}
	if filters.ChangedBy != nil {
		n++
		query += fmt.Sprintf(` AND changed_by = $%d`, n)
		args = append(args, *filters.ChangedBy)
	}
	if filters.RequestID != nil {
		n++
		query += fmt.Sprintf(` AND request_id = $%d`, n)
		args = append(args, *filters.RequestID)
	}
	if filters.StartDate != nil {
		n++
		query += fmt.Sprintf(` AND created_at >= $%d`, n)
		args = append(args, *filters.StartDate)
	}
	if filters.EndDate != nil {
		n++
		query += fmt.Sprintf(` AND created_at <= $%d`, n)
		args = append(args, *filters.EndDate)
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, n+1, n+2)
	args = append(args, filters.Limit, filters.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*models.AuditLog
	for rows.Next() {
		auditLog, err := scanAuditLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, auditLog)
	}
	return logs, rows.Err()
}

func (r *auditLogsRepo) EntityHistory(ctx context.Context, tenantID uuid.UUID, tableName, recordID string, limit, offset int) ([]*models.AuditLog, error) {
	query := `
		SELECT ` + auditLogColumns + `
		FROM audit_logs
		WHERE tenant_id = $1 AND table_name = $2 AND record_id = $3 AND NOT expired
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5
	`
	rows, err := r.db.Query(ctx, query, tenantID, tableName, recordID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*models.AuditLog
	for rows.Next() {
		auditLog, err := scanAuditLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, auditLog)
	}
	return logs, rows.Err()
}

func (r *auditLogsRepo) MarkExpiredBefore(ctx context.Context, cutoffDays int) (int64, error) {
	query := `
		UPDATE audit_logs
		SET expired = true
		WHERE NOT expired AND created_at < NOW() - make_interval(days => $1)
	`
	tag, err := r.db.Exec(ctx, query, cutoffDays)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
