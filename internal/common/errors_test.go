package common

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func respond(t *testing.T, err error) (*httptest.ResponseRecorder, *ErrorResponse) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if respErr := RespondError(c, err); respErr != nil {
		t.Fatalf("RespondError returned %v", respErr)
	}

	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response body is not valid JSON: %v", err)
	}
	return rec, &body
}

func TestRespondError_Validation(t *testing.T) {
	rec, body := respond(t, NewValidationError("email", "must be a valid email address"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	assert.Equal(t, "must be a valid email address", body.Error.Details["email"])
}

func TestRespondError_NotFound(t *testing.T) {
	rec, body := respond(t, &NotFoundError{Resource: "resident"})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", body.Error.Code)
}

func TestRespondError_InvalidTransition(t *testing.T) {
	rec, body := respond(t, &InvalidTransitionError{From: "archived", To: "active"})

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "INVALID_TRANSITION", body.Error.Code)
}

func TestRespondError_Conflict(t *testing.T) {
	rec, body := respond(t, &ConflictError{Resource: "bed"})

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CONFLICT", body.Error.Code)
}

func TestRespondError_Authorization(t *testing.T) {
	rec, body := respond(t, &AuthorizationError{Permission: "residents:write"})

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", body.Error.Code)
	assert.Empty(t, body.Error.Details)
}

func TestRespondError_Authentication(t *testing.T) {
	rec, body := respond(t, &AuthenticationError{Reason: "invalid credentials"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", body.Error.Code)
	assert.NotContains(t, body.Error.Message, "invalid credentials")
}

func TestRespondError_WrappedErrorStillMatches(t *testing.T) {
	wrapped := errors.Join(errors.New("outer context"), &ConflictError{Resource: "resident"})

	rec, body := respond(t, wrapped)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CONFLICT", body.Error.Code)
}

func TestRespondError_UnexpectedHidesDetail(t *testing.T) {
	rec, body := respond(t, errors.New("pq: connection reset by peer"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "UNEXPECTED_ERROR", body.Error.Code)
	assert.NotContains(t, body.Error.Message, "connection reset")
}

func TestValidationError_AddAccumulatesFields(t *testing.T) {
	err := NewValidationError("first_name", "is required").Add("last_name", "is required")

	assert.Len(t, err.Fields, 2)
}
