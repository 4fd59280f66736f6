package common

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ValidationError reports malformed or missing input with a per-field breakdown.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d invalid field(s)", len(e.Fields))
}

// NewValidationError creates a validation error for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// Add records another invalid field and returns the error for chaining.
func (e *ValidationError) Add(field, message string) *ValidationError {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = message
	return e
}

// NotFoundError covers both a genuinely absent entity and a tenant mismatch;
// the two are indistinguishable to the caller so existence never leaks across
// tenant lines.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// InvalidTransitionError reports a lifecycle status change outside the legal graph.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition %s -> %s", e.From, e.To)
}

// ConflictError reports a concurrent modification detected via version mismatch.
type ConflictError struct {
	Resource string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s was modified concurrently", e.Resource)
}

// AuthorizationError reports an authenticated actor lacking a required permission.
type AuthorizationError struct {
	Permission string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("missing permission %s", e.Permission)
}

// AuthenticationError reports a missing or invalid credential.
type AuthenticationError struct {
	Reason string
}

func (e *AuthenticationError) Error() string {
	return e.Reason
}

// ErrorResponse is the wire shape of every error the API returns.
type ErrorResponse struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// CreateErrorResponse creates a standardized error response body.
func CreateErrorResponse(code string, message string, details map[string]string) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Details = details
	return &resp
}

// RespondError translates a service-layer error into an HTTP response with a
// stable machine-readable code. Unexpected errors are logged server-side and
// reported without internal detail.
func RespondError(c echo.Context, err error) error {
	var (
		validationErr *ValidationError
		notFoundErr   *NotFoundError
		transitionErr *InvalidTransitionError
		conflictErr   *ConflictError
		authzErr      *AuthorizationError
		authnErr      *AuthenticationError
		httpErr       *echo.HTTPError
	)

	switch {
	case errors.As(err, &validationErr):
		return c.JSON(http.StatusBadRequest, CreateErrorResponse("VALIDATION_ERROR", "Validation failed", validationErr.Fields))
	case errors.As(err, &notFoundErr):
		return c.JSON(http.StatusNotFound, CreateErrorResponse("NOT_FOUND", notFoundErr.Error(), nil))
	case errors.As(err, &transitionErr):
		return c.JSON(http.StatusConflict, CreateErrorResponse("INVALID_TRANSITION", transitionErr.Error(), nil))
	case errors.As(err, &conflictErr):
		return c.JSON(http.StatusConflict, CreateErrorResponse("CONFLICT", conflictErr.Error(), nil))
	case errors.As(err, &authzErr):
		return c.JSON(http.StatusForbidden, CreateErrorResponse("FORBIDDEN", "Insufficient permissions", nil))
	case errors.As(err, &authnErr):
		return c.JSON(http.StatusUnauthorized, CreateErrorResponse("UNAUTHORIZED", "Unauthorized access", nil))
	case errors.As(err, &httpErr):
		return err
	default:
		c.Logger().Errorf("unexpected error: %v", err)
		return c.JSON(http.StatusInternalServerError, CreateErrorResponse("UNEXPECTED_ERROR", "Operation could not be completed", nil))
	}
}
