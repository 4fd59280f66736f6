package models

import (
	"time"

	"github.com/google/uuid"
)

// Bed types supported per room configuration.
const (
	BedTypeStandard  = "standard"
	BedTypeBariatric = "bariatric"
	BedTypeProfiling = "profiling"
)

func BedTypes() []string {
	return []string{BedTypeStandard, BedTypeBariatric, BedTypeProfiling}
}

type Bed struct {
	ID         uuid.UUID `json:"id" db:"id"`
	TenantID   uuid.UUID `json:"tenant_id" db:"tenant_id"`
	RoomNumber string    `json:"room_number" db:"room_number"`
	Wing       *string   `json:"wing" db:"wing"`
	BedType    string    `json:"bed_type" db:"bed_type"`
	Occupied   bool      `json:"occupied" db:"occupied"`
	Notes      *string   `json:"notes" db:"notes"`
	Status     Status    `json:"status" db:"status"`
	Version    int       `json:"version" db:"version"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	CreatedBy  uuid.UUID `json:"created_by" db:"created_by"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
	UpdatedBy  uuid.UUID `json:"updated_by" db:"updated_by"`
}

// BedFilter holds filter criteria for bed queries.
type BedFilter struct {
	Wing     *string `json:"wing,omitempty"`
	BedType  *string `json:"bed_type,omitempty"`
	Occupied *bool   `json:"occupied,omitempty"`
	Status   *Status `json:"status,omitempty"`
	Limit    int     `json:"limit,omitempty"`
	Offset   int     `json:"offset,omitempty"`
}
