package models

import (
	"time"

	"github.com/google/uuid"
)

// CareLevel categories a resident can be assessed at.
const (
	CareLevelResidential = "residential"
	CareLevelNursing     = "nursing"
	CareLevelDementia    = "dementia"
	CareLevelRespite     = "respite"
)

// CareLevels returns the accepted care level categories.
func CareLevels() []string {
	return []string{CareLevelResidential, CareLevelNursing, CareLevelDementia, CareLevelRespite}
}

type Resident struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	TenantID    uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	FirstName   string     `json:"first_name" db:"first_name"`
	LastName    string     `json:"last_name" db:"last_name"`
	DateOfBirth time.Time  `json:"date_of_birth" db:"date_of_birth"`
	NHSNumber   *string    `json:"nhs_number" db:"nhs_number"`
	CareLevel   string     `json:"care_level" db:"care_level"`
	BedID       *uuid.UUID `json:"bed_id" db:"bed_id"`
	GPName      *string    `json:"gp_name" db:"gp_name"`
	NextOfKin   *string    `json:"next_of_kin" db:"next_of_kin"`
	Notes       *string    `json:"notes" db:"notes"`
	Status      Status     `json:"status" db:"status"`
	Version     int        `json:"version" db:"version"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	CreatedBy   uuid.UUID  `json:"created_by" db:"created_by"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
	UpdatedBy   uuid.UUID  `json:"updated_by" db:"updated_by"`
}

// ResidentFilter holds search and filter criteria for resident queries.
type ResidentFilter struct {
	Query     string     `json:"query,omitempty"`      // Name or NHS number search
	Status    *Status    `json:"status,omitempty"`     // Lifecycle status filter
	CareLevel *string    `json:"care_level,omitempty"` // Care level filter
	BedID     *uuid.UUID `json:"bed_id,omitempty"`     // Residents assigned to a bed
	Limit     int        `json:"limit,omitempty"`
	Offset    int        `json:"offset,omitempty"`
}
