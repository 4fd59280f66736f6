package services

import (
	"context"
	"testing"
	"time"

	"carehq/internal/caching"
	"carehq/internal/common"
	"carehq/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockResidentRepository struct {
	mock.Mock
}

func (m *MockResidentRepository) Create(ctx context.Context, resident *models.Resident) error {
	args := m.Called(ctx, resident)
	return args.Error(0)
}

func (m *MockResidentRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Resident, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Resident), args.Error(1)
}

func (m *MockResidentRepository) Update(ctx context.Context, resident *models.Resident) (int64, error) {
	args := m.Called(ctx, resident)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockResidentRepository) List(ctx context.Context, tenantID uuid.UUID, filter *models.ResidentFilter) ([]*models.Resident, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]*models.Resident), args.Error(1)
}

func (m *MockResidentRepository) CountByStatus(ctx context.Context, tenantID uuid.UUID) (map[string]int, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(map[string]int), args.Error(1)
}

type MockBedRepository struct {
	mock.Mock
}

func (m *MockBedRepository) Create(ctx context.Context, bed *models.Bed) error {
	args := m.Called(ctx, bed)
	return args.Error(0)
}

func (m *MockBedRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Bed, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bed), args.Error(1)
}

func (m *MockBedRepository) GetByRoom(ctx context.Context, tenantID uuid.UUID, roomNumber string) (*models.Bed, error) {
	args := m.Called(ctx, tenantID, roomNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bed), args.Error(1)
}

func (m *MockBedRepository) Update(ctx context.Context, bed *models.Bed) (int64, error) {
	args := m.Called(ctx, bed)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBedRepository) List(ctx context.Context, tenantID uuid.UUID, filter *models.BedFilter) ([]*models.Bed, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]*models.Bed), args.Error(1)
}

func (m *MockBedRepository) OccupancyCounts(ctx context.Context, tenantID uuid.UUID) (int, int, error) {
	args := m.Called(ctx, tenantID)
	return args.Int(0), args.Int(1), args.Error(2)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetResident(ctx context.Context, tenantID, residentID uuid.UUID) (*models.Resident, error) {
	args := m.Called(ctx, tenantID, residentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Resident), args.Error(1)
}

func (m *MockCacheService) SetResident(ctx context.Context, resident *models.Resident, ttl time.Duration) error {
	args := m.Called(ctx, resident, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteResident(ctx context.Context, tenantID, residentID uuid.UUID) error {
	args := m.Called(ctx, tenantID, residentID)
	return args.Error(0)
}

func (m *MockCacheService) GetOccupancy(ctx context.Context, tenantID uuid.UUID) (map[string]interface{}, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]interface{}), args.Error(1)
}

func (m *MockCacheService) SetOccupancy(ctx context.Context, tenantID uuid.UUID, snapshot map[string]interface{}, ttl time.Duration) error {
	args := m.Called(ctx, tenantID, snapshot, ttl)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateTenant(ctx context.Context, tenantID uuid.UUID) error {
	args := m.Called(ctx, tenantID)
	return args.Error(0)
}

func (m *MockCacheService) IncrementRateLimit(ctx context.Context, key string, window time.Duration) (int64, error) {
	args := m.Called(ctx, key, window)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCacheService) SetString(ctx context.Context, key, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheService) GetString(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheService) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type ResidentServiceTestSuite struct {
	suite.Suite
	mockResidentRepo *MockResidentRepository
	mockBedRepo      *MockBedRepository
	mockCache        *MockCacheService
	service          ResidentService
	tenantID         uuid.UUID
	actorID          uuid.UUID
}

func (suite *ResidentServiceTestSuite) SetupTest() {
	suite.mockResidentRepo = &MockResidentRepository{}
	suite.mockBedRepo = &MockBedRepository{}
	suite.mockCache = &MockCacheService{}
	suite.service = NewResidentService(suite.mockResidentRepo, suite.mockBedRepo, suite.mockCache)
	suite.tenantID = uuid.New()
	suite.actorID = uuid.New()
}

func (suite *ResidentServiceTestSuite) TearDownTest() {
	suite.mockResidentRepo.AssertExpectations(suite.T())
	suite.mockBedRepo.AssertExpectations(suite.T())
}

func TestResidentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ResidentServiceTestSuite))
}

func (suite *ResidentServiceTestSuite) validResident() *models.Resident {
	return &models.Resident{
		FirstName:   "Edith",
		LastName:    "Walker",
		DateOfBirth: time.Date(1938, 4, 12, 0, 0, 0, 0, time.UTC),
		CareLevel:   models.CareLevelNursing,
	}
}

func (suite *ResidentServiceTestSuite) TestCreate_Success() {
	resident := suite.validResident()
	suite.mockResidentRepo.On("Create", mock.Anything, resident).Return(nil)

	err := suite.service.Create(context.Background(), suite.tenantID, suite.actorID, resident)

	suite.NoError(err)
	suite.Equal(models.StatusDraft, resident.Status)
	suite.Equal(1, resident.Version)
	suite.Equal(suite.tenantID, resident.TenantID)
	suite.Equal(suite.actorID, resident.CreatedBy)
	suite.NotEqual(uuid.Nil, resident.ID)
}

func (suite *ResidentServiceTestSuite) TestCreate_InvalidCareLevel() {
	resident := suite.validResident()
	resident.CareLevel = "intensive"

	err := suite.service.Create(context.Background(), suite.tenantID, suite.actorID, resident)

	var validationErr *common.ValidationError
	suite.ErrorAs(err, &validationErr)
}

func (suite *ResidentServiceTestSuite) TestCreate_OccupiedBedRejected() {
	bedID := uuid.New()
	resident := suite.validResident()
	resident.BedID = &bedID

	suite.mockBedRepo.On("GetByID", mock.Anything, suite.tenantID, bedID).
		Return(&models.Bed{ID: bedID, Status: models.StatusActive, Occupied: true}, nil)

	err := suite.service.Create(context.Background(), suite.tenantID, suite.actorID, resident)

	var validationErr *common.ValidationError
	suite.ErrorAs(err, &validationErr)
}

func (suite *ResidentServiceTestSuite) TestGetByID_CrossTenantLooksLikeNotFound() {
	id := uuid.New()
	suite.mockCache.On("GetResident", mock.Anything, suite.tenantID, id).Return(nil, caching.ErrCacheMiss)
	// The repository scopes every query by tenant, so a record belonging to
	// another tenant scans as no rows at all.
	suite.mockResidentRepo.On("GetByID", mock.Anything, suite.tenantID, id).Return(nil, pgx.ErrNoRows)

	_, err := suite.service.GetByID(context.Background(), suite.tenantID, id)

	var notFoundErr *common.NotFoundError
	suite.ErrorAs(err, &notFoundErr)
}

func (suite *ResidentServiceTestSuite) TestUpdate_DraftToActive() {
	id := uuid.New()
	current := suite.validResident()
	current.ID = id
	current.Status = models.StatusDraft
	current.Version = 1

	updated := suite.validResident()
	updated.ID = id
	updated.Status = models.StatusActive
	updated.Version = 1

	suite.mockResidentRepo.On("GetByID", mock.Anything, suite.tenantID, id).Return(current, nil)
	suite.mockResidentRepo.On("Update", mock.Anything, updated).Return(int64(1), nil)
	suite.mockCache.On("DeleteResident", mock.Anything, suite.tenantID, id).Return(nil)

	err := suite.service.Update(context.Background(), suite.tenantID, suite.actorID, updated)

	suite.NoError(err)
}

func (suite *ResidentServiceTestSuite) TestUpdate_ArchivedToActiveRejected() {
	id := uuid.New()
	current := suite.validResident()
	current.ID = id
	current.Status = models.StatusArchived

	updated := suite.validResident()
	updated.ID = id
	updated.Status = models.StatusActive

	suite.mockResidentRepo.On("GetByID", mock.Anything, suite.tenantID, id).Return(current, nil)

	err := suite.service.Update(context.Background(), suite.tenantID, suite.actorID, updated)

	var transitionErr *common.InvalidTransitionError
	suite.ErrorAs(err, &transitionErr)
}

func (suite *ResidentServiceTestSuite) TestUpdate_StaleVersionConflict() {
	id := uuid.New()
	current := suite.validResident()
	current.ID = id
	current.Status = models.StatusActive
	current.Version = 3

	updated := suite.validResident()
	updated.ID = id
	updated.Status = models.StatusActive
	updated.Version = 2 // stale read

	suite.mockResidentRepo.On("GetByID", mock.Anything, suite.tenantID, id).Return(current, nil)
	suite.mockResidentRepo.On("Update", mock.Anything, updated).Return(int64(0), nil)

	err := suite.service.Update(context.Background(), suite.tenantID, suite.actorID, updated)

	var conflictErr *common.ConflictError
	suite.ErrorAs(err, &conflictErr)
}

func (suite *ResidentServiceTestSuite) TestArchive_AlreadyArchivedRejected() {
	id := uuid.New()
	current := suite.validResident()
	current.ID = id
	current.Status = models.StatusArchived

	suite.mockResidentRepo.On("GetByID", mock.Anything, suite.tenantID, id).Return(current, nil)

	err := suite.service.Archive(context.Background(), suite.tenantID, suite.actorID, id)

	var transitionErr *common.InvalidTransitionError
	suite.ErrorAs(err, &transitionErr)
}

func (suite *ResidentServiceTestSuite) TestArchive_FreesBed() {
	id := uuid.New()
	bedID := uuid.New()
	current := suite.validResident()
	current.ID = id
	current.Status = models.StatusActive
	current.Version = 2
	current.BedID = &bedID

	bed := &models.Bed{ID: bedID, Status: models.StatusActive, Occupied: true}

	suite.mockResidentRepo.On("GetByID", mock.Anything, suite.tenantID, id).Return(current, nil)
	suite.mockResidentRepo.On("Update", mock.Anything, mock.MatchedBy(func(r *models.Resident) bool {
		return r.Status == models.StatusArchived
	})).Return(int64(1), nil)
	suite.mockBedRepo.On("GetByID", mock.Anything, suite.tenantID, bedID).Return(bed, nil)
	suite.mockBedRepo.On("Update", mock.Anything, mock.MatchedBy(func(b *models.Bed) bool {
		return b.ID == bedID && !b.Occupied
	})).Return(int64(1), nil)
	suite.mockCache.On("DeleteResident", mock.Anything, suite.tenantID, id).Return(nil)

	err := suite.service.Archive(context.Background(), suite.tenantID, suite.actorID, id)

	suite.NoError(err)
}

func (suite *ResidentServiceTestSuite) TestList_ClampsPageSize() {
	suite.mockResidentRepo.On("List", mock.Anything, suite.tenantID, mock.MatchedBy(func(f *models.ResidentFilter) bool {
		return f.Limit == 100 && f.Offset == 0
	})).Return([]*models.Resident{}, nil)

	_, err := suite.service.List(context.Background(), suite.tenantID, &models.ResidentFilter{Limit: 5000})

	suite.NoError(err)
}

func (suite *ResidentServiceTestSuite) TestList_DefaultsPageSize() {
	suite.mockResidentRepo.On("List", mock.Anything, suite.tenantID, mock.MatchedBy(func(f *models.ResidentFilter) bool {
		return f.Limit == 20
	})).Return([]*models.Resident{}, nil)

	_, err := suite.service.List(context.Background(), suite.tenantID, &models.ResidentFilter{})

	suite.NoError(err)
}
