package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"carehq/internal/common"
	"carehq/internal/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockAuditLogsService struct {
	mock.Mock
}

func (m *MockAuditLogsService) LogActivity(ctx context.Context, entry *models.AuditLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditLogsService) GetAuditLog(ctx context.Context, tenantID, auditLogID uuid.UUID) (*models.AuditLog, error) {
	args := m.Called(ctx, tenantID, auditLogID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuditLog), args.Error(1)
}

func (m *MockAuditLogsService) ListAuditLogs(ctx context.Context, tenantID uuid.UUID, filters *models.AuditLogFilters) ([]*models.AuditLog, error) {
	args := m.Called(ctx, tenantID, filters)
	return args.Get(0).([]*models.AuditLog), args.Error(1)
}

func (m *MockAuditLogsService) GetEntityHistory(ctx context.Context, tenantID uuid.UUID, tableName, recordID string, limit, offset int) ([]*models.AuditLog, error) {
	args := m.Called(ctx, tenantID, tableName, recordID, limit, offset)
	return args.Get(0).([]*models.AuditLog), args.Error(1)
}

func (m *MockAuditLogsService) ExpireOldRecords(ctx context.Context, retentionDays int) (int64, error) {
	args := m.Called(ctx, retentionDays)
	return args.Get(0).(int64), args.Error(1)
}

type AuditMiddlewareTestSuite struct {
	suite.Suite
	mockAuditSvc *MockAuditLogsService
	middleware   *AuditMiddleware
	echo         *echo.Echo
	tenantID     uuid.UUID
	userID       uuid.UUID
}

func (suite *AuditMiddlewareTestSuite) SetupTest() {
	suite.mockAuditSvc = &MockAuditLogsService{}
	suite.middleware = NewAuditMiddleware(suite.mockAuditSvc)
	suite.echo = echo.New()
	suite.tenantID = uuid.New()
	suite.userID = uuid.New()
}

func (suite *AuditMiddlewareTestSuite) TearDownTest() {
	suite.mockAuditSvc.AssertExpectations(suite.T())
}

func TestAuditMiddlewareTestSuite(t *testing.T) {
	suite.Run(t, new(AuditMiddlewareTestSuite))
}

// newContext builds an echo context carrying an authenticated identity, the
// way the token middleware leaves it.
func (suite *AuditMiddlewareTestSuite) newContext(method, path string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, nil)

	ctx := req.Context()
	ctx = context.WithValue(ctx, common.TenantIDKey, suite.tenantID)
	ctx = context.WithValue(ctx, common.UserIDKey, suite.userID)
	ctx = context.WithValue(ctx, common.RequestIDKey, "req-123")
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	c := suite.echo.NewContext(req, rec)
	c.SetPath(path)
	return c, rec
}

func (suite *AuditMiddlewareTestSuite) TestMutatingRequest_WritesOneRecord() {
	c, _ := suite.newContext(http.MethodPost, "/v1/residents")
	residentID := uuid.New()

	suite.mockAuditSvc.On("LogActivity", mock.Anything, mock.MatchedBy(func(e *models.AuditLog) bool {
		return e.TenantID == suite.tenantID &&
			e.TableName == "residents" &&
			e.RecordID == residentID.String() &&
			e.Action == models.ActionCreate &&
			e.Outcome == models.OutcomeSuccess &&
			e.RequestID == "req-123" &&
			e.ChangedBy != nil && *e.ChangedBy == suite.userID
	})).Return(nil).Once()

	handler := suite.middleware.AuditMutations()(func(c echo.Context) error {
		RecordChange(c, &ChangeRecord{
			TableName: "residents",
			RecordID:  residentID.String(),
			Action:    models.ActionCreate,
			NewValues: models.JSONB{"first_name": "Margaret"},
		})
		return c.JSON(http.StatusCreated, map[string]string{"id": residentID.String()})
	})

	err := handler(c)
	suite.NoError(err)
}

func (suite *AuditMiddlewareTestSuite) TestFailedRequest_RecordsFailureOutcome() {
	c, _ := suite.newContext(http.MethodPut, "/v1/residents/:id")

	suite.mockAuditSvc.On("LogActivity", mock.Anything, mock.MatchedBy(func(e *models.AuditLog) bool {
		errText, _ := e.NewValues["error"].(string)
		return e.Outcome == models.OutcomeFailure && errText == "resident was modified concurrently"
	})).Return(nil).Once()

	handler := suite.middleware.AuditMutations()(func(c echo.Context) error {
		return &common.ConflictError{Resource: "resident"}
	})

	err := handler(c)
	suite.Error(err)
}

func (suite *AuditMiddlewareTestSuite) TestErrorStatus_RecordsFailureOutcome() {
	c, _ := suite.newContext(http.MethodPost, "/v1/beds")

	suite.mockAuditSvc.On("LogActivity", mock.Anything, mock.MatchedBy(func(e *models.AuditLog) bool {
		return e.Outcome == models.OutcomeFailure
	})).Return(nil).Once()

	handler := suite.middleware.AuditMutations()(func(c echo.Context) error {
		return common.RespondError(c, common.NewValidationError("room_number", "is required"))
	})

	err := handler(c)
	suite.NoError(err)
}

func (suite *AuditMiddlewareTestSuite) TestReadRequest_NotAudited() {
	c, _ := suite.newContext(http.MethodGet, "/v1/residents")

	handler := suite.middleware.AuditMutations()(func(c echo.Context) error {
		return c.JSON(http.StatusOK, []string{})
	})

	err := handler(c)
	suite.NoError(err)
	suite.mockAuditSvc.AssertNotCalled(suite.T(), "LogActivity", mock.Anything, mock.Anything)
}

func (suite *AuditMiddlewareTestSuite) TestMarkAudited_SuppressesSecondRecord() {
	c, _ := suite.newContext(http.MethodPost, "/v1/residents")

	handler := suite.middleware.AuditMutations()(func(c echo.Context) error {
		MarkAudited(c)
		return c.JSON(http.StatusForbidden, nil)
	})

	err := handler(c)
	suite.NoError(err)
	suite.mockAuditSvc.AssertNotCalled(suite.T(), "LogActivity", mock.Anything, mock.Anything)
}

func (suite *AuditMiddlewareTestSuite) TestNoTenantContext_SkipsRecord() {
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", nil)
	rec := httptest.NewRecorder()
	c := suite.echo.NewContext(req, rec)
	c.SetPath("/v1/auth/login")

	handler := suite.middleware.AuditMutations()(func(c echo.Context) error {
		return c.JSON(http.StatusOK, nil)
	})

	err := handler(c)
	suite.NoError(err)
	suite.mockAuditSvc.AssertNotCalled(suite.T(), "LogActivity", mock.Anything, mock.Anything)
}

func (suite *AuditMiddlewareTestSuite) TestDeleteWithoutChangeRecord_FallsBackToPath() {
	c, _ := suite.newContext(http.MethodDelete, "/v1/beds/:id")

	suite.mockAuditSvc.On("LogActivity", mock.Anything, mock.MatchedBy(func(e *models.AuditLog) bool {
		return e.TableName == "beds" && e.Action == models.ActionArchive
	})).Return(nil).Once()

	handler := suite.middleware.AuditMutations()(func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	err := handler(c)
	suite.NoError(err)
}
