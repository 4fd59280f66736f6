package models

import (
	"time"

	"github.com/google/uuid"
)

// Care document categories.
const (
	DocumentCategoryCarePlan   = "care_plan"
	DocumentCategoryAssessment = "assessment"
	DocumentCategoryConsent    = "consent"
	DocumentCategoryMedical    = "medical"
	DocumentCategoryOther      = "other"
)

func DocumentCategories() []string {
	return []string{DocumentCategoryCarePlan, DocumentCategoryAssessment, DocumentCategoryConsent, DocumentCategoryMedical, DocumentCategoryOther}
}

// Document is the metadata row for a care document; the content lives in
// object storage under ObjectKey.
type Document struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	TenantID    uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	ResidentID  *uuid.UUID `json:"resident_id" db:"resident_id"`
	Title       string     `json:"title" db:"title"`
	Category    string     `json:"category" db:"category"`
	ObjectKey   string     `json:"-" db:"object_key"`
	ContentType string     `json:"content_type" db:"content_type"`
	SizeBytes   int64      `json:"size_bytes" db:"size_bytes"`
	Status      Status     `json:"status" db:"status"`
	Version     int        `json:"version" db:"version"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	CreatedBy   uuid.UUID  `json:"created_by" db:"created_by"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
	UpdatedBy   uuid.UUID  `json:"updated_by" db:"updated_by"`
}

// DocumentFilter holds filter criteria for document queries.
type DocumentFilter struct {
	ResidentID *uuid.UUID `json:"resident_id,omitempty"`
	Category   *string    `json:"category,omitempty"`
	Status     *Status    `json:"status,omitempty"`
	Limit      int        `json:"limit,omitempty"`
	Offset     int        `json:"offset,omitempty"`
}
