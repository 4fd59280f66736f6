package services

import (
	"context"

	"carehq/internal/common"
	"carehq/internal/models"
	"carehq/internal/repositories"
	"carehq/pkg/pagination"

	"github.com/google/uuid"
)

type AuditLogsService interface {
	// LogActivity appends one audit record. Callers pass the correlation ID of
	// the causing request so a mutation maps to exactly one record.
	LogActivity(ctx context.Context, entry *models.AuditLog) error

	GetAuditLog(ctx context.Context, tenantID, auditLogID uuid.UUID) (*models.AuditLog, error)
	ListAuditLogs(ctx context.Context, tenantID uuid.UUID, filters *models.AuditLogFilters) ([]*models.AuditLog, error)
	GetEntityHistory(ctx context.Context, tenantID uuid.UUID, tableName, recordID string, limit, offset int) ([]*models.AuditLog, error)

	// ExpireOldRecords flags records older than the retention window; used by
	// the background sweep. Nothing is ever physically deleted.
	ExpireOldRecords(ctx context.Context, retentionDays int) (int64, error)
}

type auditLogsService struct {
	auditLogsRepo repositories.AuditLogsRepository
}

func NewAuditLogsService(auditLogsRepo repositories.AuditLogsRepository) AuditLogsService {
	return &auditLogsService{auditLogsRepo: auditLogsRepo}
}

func (s *auditLogsService) LogActivity(ctx context.Context, entry *models.AuditLog) error {
	if entry.TableName == "" {
		return common.NewValidationError("table_name", "is required")
	}
	if entry.Action == "" {
		return common.NewValidationError("action", "is required")
	}
	if entry.Outcome == "" {
		entry.Outcome = models.OutcomeSuccess
	}

	entry.ID = uuid.New()
	return s.auditLogsRepo.Create(ctx, entry)
}

func (s *auditLogsService) GetAuditLog(ctx context.Context, tenantID, auditLogID uuid.UUID) (*models.AuditLog, error) {
	auditLog, err := s.auditLogsRepo.GetByID(ctx, tenantID, auditLogID)
	if err != nil {
		return nil, notFoundOrErr("audit log", err)
	}
	return auditLog, nil
}

func (s *auditLogsService) ListAuditLogs(ctx context.Context, tenantID uuid.UUID, filters *models.AuditLogFilters) ([]*models.AuditLog, error) {
	if filters.StartDate != nil && filters.EndDate != nil && filters.EndDate.Before(*filters.StartDate) {
		return nil, common.NewValidationError("end_date", "cannot be before start_date")
	}
	p := pagination.Clamp(filters.Limit, filters.Offset)
	filters.Limit, filters.Offset = p.Limit, p.Offset
	return s.auditLogsRepo.List(ctx, tenantID, filters)
}

func (s *auditLogsService) GetEntityHistory(ctx context.Context, tenantID uuid.UUID, tableName, recordID string, limit, offset int) ([]*models.AuditLog, error) {
	p := pagination.Clamp(limit, offset)
	return s.auditLogsRepo.EntityHistory(ctx, tenantID, tableName, recordID, p.Limit, p.Offset)
}

func (s *auditLogsService) ExpireOldRecords(ctx context.Context, retentionDays int) (int64, error) {
	return s.auditLogsRepo.MarkExpiredBefore(ctx, retentionDays)
}
