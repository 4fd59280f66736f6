package background

import (
	"context"
	"testing"

	"carehq/internal/analytics"
	"carehq/internal/models"
	"carehq/internal/services"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockTenantService struct {
	mock.Mock
}

func (m *MockTenantService) Create(ctx context.Context, req *services.CreateTenantRequest) (*models.Tenant, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantService) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantService) Update(ctx context.Context, tenant *models.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantService) Suspend(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTenantService) List(ctx context.Context, limit, offset int) ([]*models.Tenant, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.Tenant), args.Error(1)
}

type MockAnalyticsService struct {
	mock.Mock
}

func (m *MockAnalyticsService) Occupancy(ctx context.Context, tenantID uuid.UUID) (*analytics.OccupancySnapshot, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analytics.OccupancySnapshot), args.Error(1)
}

func (m *MockAnalyticsService) Census(ctx context.Context, tenantID uuid.UUID) (*analytics.CensusReport, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analytics.CensusReport), args.Error(1)
}

func (m *MockAnalyticsService) RefreshOccupancy(ctx context.Context, tenantID uuid.UUID) error {
	args := m.Called(ctx, tenantID)
	return args.Error(0)
}

type JobSchedulerTestSuite struct {
	suite.Suite
	mockTenantSvc    *MockTenantService
	mockAnalyticsSvc *MockAnalyticsService
	scheduler        *JobScheduler
}

func (suite *JobSchedulerTestSuite) SetupTest() {
	suite.mockTenantSvc = &MockTenantService{}
	suite.mockAnalyticsSvc = &MockAnalyticsService{}
	suite.scheduler = &JobScheduler{
		analyticsSvc: suite.mockAnalyticsSvc,
		tenantSvc:    suite.mockTenantSvc,
		logger:       zerolog.Nop(),
	}
}

func (suite *JobSchedulerTestSuite) TearDownTest() {
	suite.mockTenantSvc.AssertExpectations(suite.T())
	suite.mockAnalyticsSvc.AssertExpectations(suite.T())
}

func TestJobSchedulerTestSuite(t *testing.T) {
	suite.Run(t, new(JobSchedulerTestSuite))
}

func activeTenants(n int) []*models.Tenant {
	tenants := make([]*models.Tenant, n)
	for i := range tenants {
		tenants[i] = &models.Tenant{ID: uuid.New(), Status: models.StatusActive}
	}
	return tenants
}

func (suite *JobSchedulerTestSuite) TestRefreshOccupancy_WalksAllTenantPages() {
	firstPage := activeTenants(tenantPageSize)
	secondPage := activeTenants(3)

	suite.mockTenantSvc.On("List", mock.Anything, tenantPageSize, 0).Return(firstPage, nil).Once()
	suite.mockTenantSvc.On("List", mock.Anything, tenantPageSize, tenantPageSize).Return(secondPage, nil).Once()
	suite.mockAnalyticsSvc.On("RefreshOccupancy", mock.Anything, mock.Anything).Return(nil).Times(tenantPageSize + 3)

	err := suite.scheduler.refreshOccupancySnapshots(context.Background())
	suite.NoError(err)
}

func (suite *JobSchedulerTestSuite) TestRefreshOccupancy_SkipsInactiveTenants() {
	tenants := []*models.Tenant{
		{ID: uuid.New(), Status: models.StatusActive},
		{ID: uuid.New(), Status: models.StatusSuspended},
		{ID: uuid.New(), Status: models.StatusArchived},
	}

	suite.mockTenantSvc.On("List", mock.Anything, tenantPageSize, 0).Return(tenants, nil).Once()
	suite.mockAnalyticsSvc.On("RefreshOccupancy", mock.Anything, tenants[0].ID).Return(nil).Once()

	err := suite.scheduler.refreshOccupancySnapshots(context.Background())
	suite.NoError(err)
}

func (suite *JobSchedulerTestSuite) TestRefreshOccupancy_StopsOnShortPage() {
	suite.mockTenantSvc.On("List", mock.Anything, tenantPageSize, 0).Return(activeTenants(2), nil).Once()
	suite.mockAnalyticsSvc.On("RefreshOccupancy", mock.Anything, mock.Anything).Return(nil).Twice()

	err := suite.scheduler.refreshOccupancySnapshots(context.Background())
	suite.NoError(err)
}
