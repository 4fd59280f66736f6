package handlers

import (
	"context"
	"encoding/json"
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

type MockResidentService struct {
	mock.Mock
}

func (m *MockResidentService) Create(ctx context.Context, tenantID, actorID uuid.UUID, resident *models.Resident) error {
	args := m.Called(ctx, tenantID, actorID, resident)
	return args.Error(0)
}

func (m *MockResidentService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Resident, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Resident), args.Error(1)
}

func (m *MockResidentService) Update(ctx context.Context, tenantID, actorID uuid.UUID, resident *models.Resident) error {
	args := m.Called(ctx, tenantID, actorID, resident)
	return args.Error(0)
}

func (m *MockResidentService) List(ctx context.Context, tenantID uuid.UUID, filter *models.ResidentFilter) ([]*models.Resident, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Resident), args.Error(1)
}

func (m *MockResidentService) Archive(ctx context.Context, tenantID, actorID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, actorID, id)
	return args.Error(0)
}

type ResidentHandlersTestSuite struct {
	suite.Suite
	mockService *MockResidentService
	handlers    *ResidentHandlers
	echo        *echo.Echo
	tenantID    uuid.UUID
	userID      uuid.UUID
}

func (suite *ResidentHandlersTestSuite) SetupTest() {
	suite.mockService = &MockResidentService{}
	suite.handlers = NewResidentHandlers(suite.mockService)
	suite.echo = echo.New()
	suite.tenantID = uuid.New()
	suite.userID = uuid.New()
}

func (suite *ResidentHandlersTestSuite) TearDownTest() {
	suite.mockService.AssertExpectations(suite.T())
}

func TestResidentHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(ResidentHandlersTestSuite))
}

func (suite *ResidentHandlersTestSuite) newContext(method, url string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, url, nil)

	ctx := req.Context()
	ctx = context.WithValue(ctx, common.TenantIDKey, suite.tenantID)
	ctx = context.WithValue(ctx, common.UserIDKey, suite.userID)
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	return suite.echo.NewContext(req, rec), rec
}

func (suite *ResidentHandlersTestSuite) TestListResidents_StatusFilterApplied() {
	c, rec := suite.newContext(http.MethodGet, "/v1/residents?status=active")

	suite.mockService.On("List", mock.Anything, suite.tenantID, mock.MatchedBy(func(f *models.ResidentFilter) bool {
		return f.Status != nil && *f.Status == models.StatusActive
	})).Return([]*models.Resident{}, nil)

	err := suite.handlers.ListResidents(c)

	suite.NoError(err)
	suite.Equal(http.StatusOK, rec.Code)
}

func (suite *ResidentHandlersTestSuite) TestListResidents_UnknownStatusRejected() {
	c, rec := suite.newContext(http.MethodGet, "/v1/residents?status=deleted")

	err := suite.handlers.ListResidents(c)

	suite.NoError(err)
	suite.Equal(http.StatusBadRequest, rec.Code)

	var body common.ErrorResponse
	suite.NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	suite.Equal("VALIDATION_ERROR", body.Error.Code)
	suite.mockService.AssertNotCalled(suite.T(), "List", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ResidentHandlersTestSuite) TestListResidents_NoFilters() {
	c, rec := suite.newContext(http.MethodGet, "/v1/residents")

	suite.mockService.On("List", mock.Anything, suite.tenantID, mock.MatchedBy(func(f *models.ResidentFilter) bool {
		return f.Status == nil && f.CareLevel == nil && f.BedID == nil
	})).Return([]*models.Resident{}, nil)

	err := suite.handlers.ListResidents(c)

	suite.NoError(err)
	suite.Equal(http.StatusOK, rec.Code)
}

func (suite *ResidentHandlersTestSuite) TestListResidents_InvalidCareLevelRejected() {
	c, rec := suite.newContext(http.MethodGet, "/v1/residents?care_level=intensive")

	err := suite.handlers.ListResidents(c)

	suite.NoError(err)
	suite.Equal(http.StatusBadRequest, rec.Code)
	suite.mockService.AssertNotCalled(suite.T(), "List", mock.Anything, mock.Anything, mock.Anything)
}
