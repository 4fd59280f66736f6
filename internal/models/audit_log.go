package models

import (
	"time"

	"github.com/google/uuid"
)

// JSONB round-trips as a jsonb column through pgx.
type JSONB map[string]interface{}

// AuditLog is an immutable record of who did what, when, to which record.
// Exactly one is written per mutating request, correlated by RequestID.
type AuditLog struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	TenantID  uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	RequestID string     `json:"request_id" db:"request_id"`
	TableName string     `json:"table_name" db:"table_name"`
	RecordID  string     `json:"record_id" db:"record_id"`
	Action    string     `json:"action" db:"action"`
	Outcome   string     `json:"outcome" db:"outcome"`
	OldValues JSONB      `json:"old_values" db:"old_values"`
	NewValues JSONB      `json:"new_values" db:"new_values"`
	ChangedBy *uuid.UUID `json:"changed_by" db:"changed_by"`
	Expired   bool       `json:"expired" db:"expired"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// Action constants for audit logs.
const (
	ActionCreate  = "CREATE"
	ActionUpdate  = "UPDATE"
	ActionArchive = "ARCHIVE"
	ActionDenied  = "DENIED"
)

// Outcome constants for audit logs.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// AuditLogFilters represents filters for querying audit logs.
type AuditLogFilters struct {
	TableName *string    `json:"table_name"`
	RecordID  *string    `json:"record_id"`
	Action    *string    `json:"action"`
	Outcome   *string    `json:"outcome"`
	ChangedBy *uuid.UUID `json:"changed_by"`
	RequestID *string    `json:"request_id"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	Limit     int        `json:"limit"`
	Offset    int        `json:"offset"`
}
