package models

import (
	"time"

	"github.com/google/uuid"
)

// Permission names a single permitted operation on a resource type, in
// "resource:action" form (e.g. "residents:create"). Roles are plain bundles
// of permissions, so adding a role is a data change, not a code change.
type Permission struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// PermissionName builds the canonical "resource:action" permission name.
func PermissionName(resource, action string) string {
	return resource + ":" + action
}
