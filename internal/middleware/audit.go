package middleware

import (
	"net/http"
	"strings"

	"carehq/internal/common"
	"carehq/internal/models"
	"carehq/internal/services"

	"github.com/labstack/echo/v4"
)

const (
	changeRecordKey = "carehq.audit.change"
	auditHandledKey = "carehq.audit.handled"
)

// MarkAudited tells the audit middleware this request already has its
// audit record, so it must not write a second one.
func MarkAudited(c echo.Context) {
	c.Set(auditHandledKey, true)
}

// ChangeRecord is what a handler knows about the mutation it performed.
// Handlers attach one via RecordChange; the audit middleware turns it into
// the single audit row for the request.
type ChangeRecord struct {
	TableName string
	RecordID  string
	Action    string
	OldValues models.JSONB
	NewValues models.JSONB
}

// RecordChange registers the entity-level details of a mutation so the
// audit middleware can persist them once the handler returns.
func RecordChange(c echo.Context, rec *ChangeRecord) {
	c.Set(changeRecordKey, rec)
}

type AuditMiddleware struct {
	auditService services.AuditLogsService
}

func NewAuditMiddleware(auditService services.AuditLogsService) *AuditMiddleware {
	return &AuditMiddleware{auditService: auditService}
}

// AuditMutations writes exactly one audit record per mutating request,
// correlated by request ID. The record is written whether the handler
// succeeded or failed; reads are never audited here.
func (m *AuditMiddleware) AuditMutations() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)

			if !isMutating(c.Request().Method) {
				return err
			}
			if handled, ok := c.Get(auditHandledKey).(bool); ok && handled {
				return err
			}

			ctx := c.Request().Context()
			tenantID, ok := common.GetTenantIDFromContext(ctx)
			if !ok {
				// Unauthenticated mutations (login, signup) are audited by
				// their own handlers once a tenant is known.
				return err
			}

			entry := &models.AuditLog{
				TenantID:  tenantID,
				Outcome:   models.OutcomeSuccess,
				TableName: tableFromPath(c.Path()),
				RecordID:  c.Path(),
				Action:    actionFromMethod(c.Request().Method),
			}
			if reqID, ok := common.GetRequestIDFromContext(ctx); ok {
				entry.RequestID = reqID
			}
			if userID, ok := common.GetUserIDFromContext(ctx); ok {
				entry.ChangedBy = &userID
			}

			if rec, ok := c.Get(changeRecordKey).(*ChangeRecord); ok && rec != nil {
				entry.TableName = rec.TableName
				entry.RecordID = rec.RecordID
				entry.Action = rec.Action
				entry.OldValues = rec.OldValues
				entry.NewValues = rec.NewValues
			}

			if err != nil || c.Response().Status >= http.StatusBadRequest {
				entry.Outcome = models.OutcomeFailure
				if err != nil {
					entry.NewValues = withError(entry.NewValues, err)
				}
			}

			if logErr := m.auditService.LogActivity(ctx, entry); logErr != nil {
				c.Logger().Errorf("write audit record: %v", logErr)
			}
			return err
		}
	}
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

func actionFromMethod(method string) string {
	switch method {
	case http.MethodPost:
		return models.ActionCreate
	case http.MethodDelete:
		return models.ActionArchive
	default:
		return models.ActionUpdate
	}
}

// tableFromPath guesses the resource collection from a route like
// "/v1/residents/:id". Handlers that call RecordChange override this.
func tableFromPath(path string) string {
	for _, seg := range strings.Split(path, "/") {
		if seg == "" || seg == "v1" || strings.HasPrefix(seg, ":") {
			continue
		}
		return seg
	}
	return "unknown"
}

func withError(values models.JSONB, err error) models.JSONB {
	if values == nil {
		values = models.JSONB{}
	}
	values["error"] = err.Error()
	return values
}
