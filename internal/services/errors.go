package services

import (
	"errors"

	"carehq/internal/common"
	"carehq/internal/models"

	"github.com/jackc/pgx/v5"
)

// notFoundOrErr maps a missing row to the taxonomy's not-found error. A
// tenant mismatch surfaces as pgx.ErrNoRows too, so both causes are reported
// identically and existence never leaks across tenants.
func notFoundOrErr(resource string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return &common.NotFoundError{Resource: resource}
	}
	return err
}

// validateTransition enforces the lifecycle graph on a requested status change.
func validateTransition(from, to models.Status) error {
	if !models.ValidStatus(string(to)) {
		return common.NewValidationError("status", "must be one of: "+joinStatuses())
	}
	if !models.CanTransition(from, to) {
		return &common.InvalidTransitionError{From: string(from), To: string(to)}
	}
	return nil
}

func joinStatuses() string {
	out := ""
	for i, s := range models.Statuses() {
		if i > 0 {
			out += ", "
		}
		out += s
	}
	return out
}
