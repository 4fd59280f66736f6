package models

import (
	"time"

	"github.com/google/uuid"
)

// Administration routes accepted on a prescription.
const (
	RouteOral        = "oral"
	RouteTopical     = "topical"
	RouteInjection   = "injection"
	RouteInhaled     = "inhaled"
	RouteSublingual  = "sublingual"
	RoutePerRectum   = "per_rectum"
	RouteTransdermal = "transdermal"
)

func MedicationRoutes() []string {
	return []string{RouteOral, RouteTopical, RouteInjection, RouteInhaled, RouteSublingual, RoutePerRectum, RouteTransdermal}
}

// Medication is a resident's prescription record, not a stock item.
type Medication struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	TenantID   uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	ResidentID uuid.UUID  `json:"resident_id" db:"resident_id"`
	DrugName   string     `json:"drug_name" db:"drug_name"`
	Dose       string     `json:"dose" db:"dose"`
	Route      string     `json:"route" db:"route"`
	Frequency  string     `json:"frequency" db:"frequency"`
	Prescriber *string    `json:"prescriber" db:"prescriber"`
	StartDate  time.Time  `json:"start_date" db:"start_date"`
	EndDate    *time.Time `json:"end_date" db:"end_date"`
	PRN        bool       `json:"prn" db:"prn"` // as-needed rather than scheduled
	Notes      *string    `json:"notes" db:"notes"`
	Status     Status     `json:"status" db:"status"`
	Version    int        `json:"version" db:"version"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	CreatedBy  uuid.UUID  `json:"created_by" db:"created_by"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
	UpdatedBy  uuid.UUID  `json:"updated_by" db:"updated_by"`
}

// MedicationFilter holds filter criteria for medication queries.
type MedicationFilter struct {
	ResidentID *uuid.UUID `json:"resident_id,omitempty"`
	Status     *Status    `json:"status,omitempty"`
	PRN        *bool      `json:"prn,omitempty"`
	Limit      int        `json:"limit,omitempty"`
	Offset     int        `json:"offset,omitempty"`
}
