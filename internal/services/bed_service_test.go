package services

import (
	"context"
	"testing"

	"carehq/internal/common"
	"carehq/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type BedServiceTestSuite struct {
	suite.Suite
	mockBedRepo *MockBedRepository
	service     BedService
	tenantID    uuid.UUID
	actorID     uuid.UUID
}

func (suite *BedServiceTestSuite) SetupTest() {
	suite.mockBedRepo = &MockBedRepository{}
	suite.service = NewBedService(suite.mockBedRepo)
	suite.tenantID = uuid.New()
	suite.actorID = uuid.New()
}

func (suite *BedServiceTestSuite) TearDownTest() {
	suite.mockBedRepo.AssertExpectations(suite.T())
}

func TestBedServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BedServiceTestSuite))
}

func (suite *BedServiceTestSuite) TestCreate_Success() {
	bed := &models.Bed{RoomNumber: "A7", BedType: models.BedTypeStandard}

	suite.mockBedRepo.On("GetByRoom", mock.Anything, suite.tenantID, "A7").Return(nil, pgx.ErrNoRows)
	suite.mockBedRepo.On("Create", mock.Anything, bed).Return(nil)

	err := suite.service.Create(context.Background(), suite.tenantID, suite.actorID, bed)

	suite.NoError(err)
	suite.Equal(models.StatusDraft, bed.Status)
	suite.False(bed.Occupied)
	suite.Equal(1, bed.Version)
}

func (suite *BedServiceTestSuite) TestCreate_DuplicateRoomRejected() {
	bed := &models.Bed{RoomNumber: "A7", BedType: models.BedTypeStandard}

	suite.mockBedRepo.On("GetByRoom", mock.Anything, suite.tenantID, "A7").
		Return(&models.Bed{ID: uuid.New(), RoomNumber: "A7"}, nil)

	err := suite.service.Create(context.Background(), suite.tenantID, suite.actorID, bed)

	var validationErr *common.ValidationError
	suite.ErrorAs(err, &validationErr)
}

func (suite *BedServiceTestSuite) TestUpdate_OccupancyCannotBeEditedDirectly() {
	id := uuid.New()
	current := &models.Bed{ID: id, RoomNumber: "B2", BedType: models.BedTypeStandard, Status: models.StatusActive, Occupied: true, Version: 2}
	update := &models.Bed{ID: id, RoomNumber: "B2", BedType: models.BedTypeStandard, Status: models.StatusActive, Occupied: false, Version: 2}

	suite.mockBedRepo.On("GetByID", mock.Anything, suite.tenantID, id).Return(current, nil)
	suite.mockBedRepo.On("Update", mock.Anything, mock.MatchedBy(func(b *models.Bed) bool {
		return b.Occupied // the stored flag wins over the request
	})).Return(int64(1), nil)

	err := suite.service.Update(context.Background(), suite.tenantID, suite.actorID, update)

	suite.NoError(err)
}

func (suite *BedServiceTestSuite) TestArchive_OccupiedBedRejected() {
	id := uuid.New()
	suite.mockBedRepo.On("GetByID", mock.Anything, suite.tenantID, id).
		Return(&models.Bed{ID: id, Status: models.StatusActive, Occupied: true}, nil)

	err := suite.service.Archive(context.Background(), suite.tenantID, suite.actorID, id)

	var validationErr *common.ValidationError
	suite.ErrorAs(err, &validationErr)
}

func (suite *BedServiceTestSuite) TestArchive_SuspendedBedSucceeds() {
	id := uuid.New()
	current := &models.Bed{ID: id, RoomNumber: "C1", BedType: models.BedTypeStandard, Status: models.StatusSuspended, Version: 4}

	suite.mockBedRepo.On("GetByID", mock.Anything, suite.tenantID, id).Return(current, nil)
	suite.mockBedRepo.On("Update", mock.Anything, mock.MatchedBy(func(b *models.Bed) bool {
		return b.Status == models.StatusArchived
	})).Return(int64(1), nil)

	err := suite.service.Archive(context.Background(), suite.tenantID, suite.actorID, id)

	suite.NoError(err)
}
