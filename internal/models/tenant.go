package models

import (
	"time"

	"github.com/google/uuid"
)

// Tenant is a care-home organization. All other entities belong to exactly
// one tenant and never cross tenant lines.
type Tenant struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Subdomain string    `json:"subdomain" db:"subdomain"`
	CQCNumber *string   `json:"cqc_number" db:"cqc_number"`
	Status    Status    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
