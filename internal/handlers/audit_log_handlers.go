package handlers

import (
	"net/http"
	"time"

	"carehq/internal/common"
	"carehq/internal/models"
	"carehq/internal/services"
	"carehq/pkg/pagination"

	"github.com/labstack/echo/v4"
)

// AuditLogHandlers exposes the read-only audit trail. There is no write
// surface; records come only from the audit middleware and services.
type AuditLogHandlers struct {
	auditService services.AuditLogsService
}

func NewAuditLogHandlers(auditService services.AuditLogsService) *AuditLogHandlers {
	return &AuditLogHandlers{auditService: auditService}
}

// GetAuditLog handles GET /v1/audit-logs/:id
func (h *AuditLogHandlers) GetAuditLog(c echo.Context) error {
	tenantID, _, err := identity(c)
	if err != nil {
		return common.RespondError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return common.RespondError(c, err)
	}

	entry, err := h.auditService.GetAuditLog(c.Request().Context(), tenantID, id)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, entry)
}

// ListAuditLogs handles GET /v1/audit-logs with table, action, outcome,
// actor, request-id and date-range filters.
func (h *AuditLogHandlers) ListAuditLogs(c echo.Context) error {
	tenantID, _, err := identity(c)
	if err != nil {
		return common.RespondError(c, err)
	}

	p := pagination.FromContext(c)
	filters := &models.AuditLogFilters{Limit: p.Limit, Offset: p.Offset}
	if raw := c.QueryParam("table_name"); raw != "" {
		filters.TableName = &raw
	}
	if raw := c.QueryParam("record_id"); raw != "" {
		filters.RecordID = &raw
	}
	if raw := c.QueryParam("action"); raw != "" {
		filters.Action = &raw
	}
	if raw := c.QueryParam("outcome"); raw != "" {
		filters.Outcome = &raw
	}
	if raw := c.QueryParam("request_id"); raw != "" {
		filters.RequestID = &raw
	}
	if changedBy, err := optionalUUID(c.QueryParam("changed_by"), "changed_by"); err != nil {
		return common.RespondError(c, err)
	} else if changedBy != nil {
		filters.ChangedBy = changedBy
	}
	if raw := c.QueryParam("start_date"); raw != "" {
		start, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return common.RespondError(c, common.NewValidationError("start_date", "must be RFC3339"))
		}
		filters.StartDate = &start
	}
	if raw := c.QueryParam("end_date"); raw != "" {
		end, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return common.RespondError(c, common.NewValidationError("end_date", "must be RFC3339"))
		}
		filters.EndDate = &end
	}

	entries, err := h.auditService.ListAuditLogs(c.Request().Context(), tenantID, filters)
	if err != nil {
		return common.RespondError(c, err)
	}
	if entries == nil {
		entries = []*models.AuditLog{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(entries, p, len(entries)))
}

// EntityHistory handles GET /v1/audit-logs/history/:table/:id, the full
// change trail for one record.
func (h *AuditLogHandlers) EntityHistory(c echo.Context) error {
	tenantID, _, err := identity(c)
	if err != nil {
		return common.RespondError(c, err)
	}
	tableName := c.Param("table")
	recordID := c.Param("id")
	if tableName == "" || recordID == "" {
		return common.RespondError(c, common.NewValidationError("path", "table and id are required"))
	}

	p := pagination.FromContext(c)
	entries, err := h.auditService.GetEntityHistory(c.Request().Context(), tenantID, tableName, recordID, p.Limit, p.Offset)
	if err != nil {
		return common.RespondError(c, err)
	}
	if entries == nil {
		entries = []*models.AuditLog{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(entries, p, len(entries)))
}
