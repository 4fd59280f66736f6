package common

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ValidateUUID validates UUID path/query parameters.
func ValidateUUID(idStr string, fieldName string) (uuid.UUID, error) {
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		return uuid.Nil, NewValidationError(fieldName, "is required")
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, NewValidationError(fieldName, "must be a valid UUID")
	}

	return id, nil
}

// ValidateRequiredString validates required string fields.
func ValidateRequiredString(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return NewValidationError(fieldName, "is required")
	}
	return nil
}

// ValidateOptionalString trims and bounds optional string fields.
func ValidateOptionalString(value *string, fieldName string, maxLength int) error {
	if value != nil {
		if len(*value) > maxLength {
			return NewValidationError(fieldName, fmt.Sprintf("cannot exceed %d characters", maxLength))
		}
		*value = strings.TrimSpace(*value)
	}
	return nil
}

// ValidateDate parses a YYYY-MM-DD date and rejects implausible values.
func ValidateDate(dateStr, fieldName string) (time.Time, error) {
	date, err := time.Parse("2006-01-02", strings.TrimSpace(dateStr))
	if err != nil {
		return time.Time{}, NewValidationError(fieldName, "must be in YYYY-MM-DD format")
	}

	if date.After(time.Now().AddDate(1, 0, 0)) {
		return time.Time{}, NewValidationError(fieldName, "cannot be more than a year in the future")
	}
	if date.Before(time.Now().AddDate(-130, 0, 0)) {
		return time.Time{}, NewValidationError(fieldName, "is implausibly far in the past")
	}

	return date, nil
}

// ValidateEnum checks membership in an enumerated category.
func ValidateEnum(value, fieldName string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return NewValidationError(fieldName, "must be one of: "+strings.Join(allowed, ", "))
}

// SanitizeSearchQuery strips LIKE wildcards from user-supplied search text.
// Queries are parameterized everywhere; this keeps wildcard injection out of
// ILIKE patterns.
func SanitizeSearchQuery(query string) string {
	query = strings.ReplaceAll(query, "%", "")
	query = strings.ReplaceAll(query, "_", "")
	if len(query) > 100 {
		query = query[:100]
	}
	return strings.TrimSpace(query)
}

// SafeString safely dereferences optional string fields.
func SafeString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
