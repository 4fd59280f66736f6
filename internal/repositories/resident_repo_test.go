package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"carehq/internal/models"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type ResidentRepoTestSuite struct {
	suite.Suite
	mock       pgxmock.PgxPoolIface
	repo       ResidentRepository
	tenantID1  uuid.UUID
	tenantID2  uuid.UUID
	residentID uuid.UUID
	actorID    uuid.UUID
	context    context.Context
}

func (suite *ResidentRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewResidentRepo(mock)
	suite.tenantID1 = uuid.New()
	suite.tenantID2 = uuid.New()
	suite.residentID = uuid.New()
	suite.actorID = uuid.New()
	suite.context = context.Background()
}

func (suite *ResidentRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestResidentRepoTestSuite(t *testing.T) {
	suite.Run(t, new(ResidentRepoTestSuite))
}

func (suite *ResidentRepoTestSuite) residentRow(r *models.Resident) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "tenant_id", "first_name", "last_name", "date_of_birth", "nhs_number",
		"care_level", "bed_id", "gp_name", "next_of_kin", "notes", "status", "version",
		"created_at", "created_by", "updated_at", "updated_by",
	}).AddRow(
		r.ID, r.TenantID, r.FirstName, r.LastName, r.DateOfBirth, r.NHSNumber,
		r.CareLevel, r.BedID, r.GPName, r.NextOfKin, r.Notes, r.Status, r.Version,
		r.CreatedAt, r.CreatedBy, r.UpdatedAt, r.UpdatedBy,
	)
}

func (suite *ResidentRepoTestSuite) sampleResident() *models.Resident {
	return &models.Resident{
		ID:          suite.residentID,
		TenantID:    suite.tenantID1,
		FirstName:   "Margaret",
		LastName:    "Hughes",
		DateOfBirth: time.Date(1938, 4, 12, 0, 0, 0, 0, time.UTC),
		CareLevel:   models.CareLevelNursing,
		Status:      models.StatusDraft,
		Version:     1,
		CreatedAt:   time.Now().UTC(),
		CreatedBy:   suite.actorID,
		UpdatedAt:   time.Now().UTC(),
		UpdatedBy:   suite.actorID,
	}
}

func (suite *ResidentRepoTestSuite) TestCreate_Success() {
	resident := suite.sampleResident()

	suite.mock.ExpectExec(`
			INSERT INTO residents \(id, tenant_id, first_name, last_name, date_of_birth, nhs_number, care_level, bed_id, gp_name, next_of_kin, notes, status, version, created_at, created_by, updated_at, updated_by\)
			VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7, \$8, \$9, \$10, \$11, \$12, \$13, NOW\(\), \$14, NOW\(\), \$15\)
		`).WithArgs(resident.ID, resident.TenantID, resident.FirstName, resident.LastName,
		resident.DateOfBirth, resident.NHSNumber, resident.CareLevel, resident.BedID,
		resident.GPName, resident.NextOfKin, resident.Notes, resident.Status,
		resident.Version, resident.CreatedBy, resident.UpdatedBy).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Create(suite.context, resident)
	assert.NoError(suite.T(), err)
}

func (suite *ResidentRepoTestSuite) TestCreate_DatabaseError() {
	resident := suite.sampleResident()

	suite.mock.ExpectExec(`INSERT INTO residents`).
		WithArgs(resident.ID, resident.TenantID, resident.FirstName, resident.LastName,
			resident.DateOfBirth, resident.NHSNumber, resident.CareLevel, resident.BedID,
			resident.GPName, resident.NextOfKin, resident.Notes, resident.Status,
			resident.Version, resident.CreatedBy, resident.UpdatedBy).
		WillReturnError(errors.New("database connection failed"))

	err := suite.repo.Create(suite.context, resident)
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "database connection failed")
}

func (suite *ResidentRepoTestSuite) TestGetByID_Success() {
	resident := suite.sampleResident()

	suite.mock.ExpectQuery(`
			SELECT id, tenant_id, first_name, last_name, date_of_birth, nhs_number, care_level, bed_id, gp_name, next_of_kin, notes, status, version, created_at, created_by, updated_at, updated_by
			FROM residents
			WHERE tenant_id = \$1 AND id = \$2
		`).WithArgs(suite.tenantID1, suite.residentID).
		WillReturnRows(suite.residentRow(resident))

	result, err := suite.repo.GetByID(suite.context, suite.tenantID1, suite.residentID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), resident.ID, result.ID)
	assert.Equal(suite.T(), resident.FirstName, result.FirstName)
	assert.Equal(suite.T(), models.StatusDraft, result.Status)
	assert.Equal(suite.T(), 1, result.Version)
}

func (suite *ResidentRepoTestSuite) TestGetByID_WrongTenant() {
	suite.mock.ExpectQuery(`
			SELECT id, tenant_id, first_name, last_name, date_of_birth, nhs_number, care_level, bed_id, gp_name, next_of_kin, notes, status, version, created_at, created_by, updated_at, updated_by
			FROM residents
			WHERE tenant_id = \$1 AND id = \$2
		`).WithArgs(suite.tenantID2, suite.residentID).
		WillReturnError(pgx.ErrNoRows)

	result, err := suite.repo.GetByID(suite.context, suite.tenantID2, suite.residentID)
	assert.Error(suite.T(), err)
	assert.ErrorIs(suite.T(), err, pgx.ErrNoRows)
	assert.Nil(suite.T(), result)
}

func (suite *ResidentRepoTestSuite) TestUpdate_Success() {
	resident := suite.sampleResident()
	resident.Status = models.StatusActive

	suite.mock.ExpectExec(`
			UPDATE residents
			SET first_name = \$1, last_name = \$2, date_of_birth = \$3, nhs_number = \$4, care_level = \$5, bed_id = \$6, gp_name = \$7, next_of_kin = \$8, notes = \$9, status = \$10, version = version \+ 1, updated_at = NOW\(\), updated_by = \$11
			WHERE tenant_id = \$12 AND id = \$13 AND version = \$14
		`).WithArgs(resident.FirstName, resident.LastName, resident.DateOfBirth, resident.NHSNumber,
		resident.CareLevel, resident.BedID, resident.GPName, resident.NextOfKin,
		resident.Notes, resident.Status, resident.UpdatedBy,
		resident.TenantID, resident.ID, resident.Version).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	affected, err := suite.repo.Update(suite.context, resident)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(1), affected)
}

func (suite *ResidentRepoTestSuite) TestUpdate_StaleVersion() {
	resident := suite.sampleResident()
	resident.Version = 3

	suite.mock.ExpectExec(`UPDATE residents`).
		WithArgs(resident.FirstName, resident.LastName, resident.DateOfBirth, resident.NHSNumber,
			resident.CareLevel, resident.BedID, resident.GPName, resident.NextOfKin,
			resident.Notes, resident.Status, resident.UpdatedBy,
			resident.TenantID, resident.ID, resident.Version).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	affected, err := suite.repo.Update(suite.context, resident)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(0), affected)
}

func (suite *ResidentRepoTestSuite) TestList_NoFilters() {
	a := suite.sampleResident()
	b := suite.sampleResident()
	b.ID = uuid.New()
	b.FirstName = "Ernest"

	rows := suite.residentRow(a).AddRow(
		b.ID, b.TenantID, b.FirstName, b.LastName, b.DateOfBirth, b.NHSNumber,
		b.CareLevel, b.BedID, b.GPName, b.NextOfKin, b.Notes, b.Status, b.Version,
		b.CreatedAt, b.CreatedBy, b.UpdatedAt, b.UpdatedBy,
	)

	suite.mock.ExpectQuery(`
			SELECT id, tenant_id, first_name, last_name, date_of_birth, nhs_number, care_level, bed_id, gp_name, next_of_kin, notes, status, version, created_at, created_by, updated_at, updated_by
			FROM residents
			WHERE tenant_id = \$1
		 ORDER BY created_at DESC LIMIT \$2 OFFSET \$3`).
		WithArgs(suite.tenantID1, 20, 0).
		WillReturnRows(rows)

	result, err := suite.repo.List(suite.context, suite.tenantID1, &models.ResidentFilter{Limit: 20, Offset: 0})
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), result, 2)
	assert.Equal(suite.T(), "Margaret", result[0].FirstName)
	assert.Equal(suite.T(), "Ernest", result[1].FirstName)
}

func (suite *ResidentRepoTestSuite) TestList_StatusAndSearchFilters() {
	resident := suite.sampleResident()
	resident.Status = models.StatusActive
	status := models.StatusActive

	suite.mock.ExpectQuery(`
			SELECT id, tenant_id, first_name, last_name, date_of_birth, nhs_number, care_level, bed_id, gp_name, next_of_kin, notes, status, version, created_at, created_by, updated_at, updated_by
			FROM residents
			WHERE tenant_id = \$1
		 AND \(first_name ILIKE \$2 OR last_name ILIKE \$2 OR COALESCE\(nhs_number, ''\) ILIKE \$2\) AND status = \$3 ORDER BY created_at DESC LIMIT \$4 OFFSET \$5`).
		WithArgs(suite.tenantID1, "%hugh%", status, 20, 0).
		WillReturnRows(suite.residentRow(resident))

	result, err := suite.repo.List(suite.context, suite.tenantID1, &models.ResidentFilter{
		Query:  "hugh",
		Status: &status,
		Limit:  20,
		Offset: 0,
	})
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), result, 1)
	assert.Equal(suite.T(), models.StatusActive, result[0].Status)
}

func (suite *ResidentRepoTestSuite) TestList_EmptyResult() {
	rows := pgxmock.NewRows([]string{
		"id", "tenant_id", "first_name", "last_name", "date_of_birth", "nhs_number",
		"care_level", "bed_id", "gp_name", "next_of_kin", "notes", "status", "version",
		"created_at", "created_by", "updated_at", "updated_by",
	})

	suite.mock.ExpectQuery(`SELECT .+ FROM residents`).
		WithArgs(suite.tenantID2, 20, 0).
		WillReturnRows(rows)

	result, err := suite.repo.List(suite.context, suite.tenantID2, &models.ResidentFilter{Limit: 20, Offset: 0})
	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), result)
}

func (suite *ResidentRepoTestSuite) TestCountByStatus() {
	rows := pgxmock.NewRows([]string{"status", "count"}).
		AddRow("active", 12).
		AddRow("draft", 2).
		AddRow("archived", 5)

	suite.mock.ExpectQuery(`
			SELECT status, COUNT\(\*\)
			FROM residents
			WHERE tenant_id = \$1
			GROUP BY status
		`).WithArgs(suite.tenantID1).
		WillReturnRows(rows)

	counts, err := suite.repo.CountByStatus(suite.context, suite.tenantID1)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 12, counts["active"])
	assert.Equal(suite.T(), 2, counts["draft"])
	assert.Equal(suite.T(), 5, counts["archived"])
}

func (suite *ResidentRepoTestSuite) TestContextCancellation() {
	cancelledCtx, cancel := context.WithCancel(suite.context)
	cancel()

	resident := suite.sampleResident()

	suite.mock.ExpectExec(`INSERT INTO residents`).
		WithArgs(resident.ID, resident.TenantID, resident.FirstName, resident.LastName,
			resident.DateOfBirth, resident.NHSNumber, resident.CareLevel, resident.BedID,
			resident.GPName, resident.NextOfKin, resident.Notes, resident.Status,
			resident.Version, resident.CreatedBy, resident.UpdatedBy).
		WillReturnError(context.Canceled)

	err := suite.repo.Create(cancelledCtx, resident)
	assert.Error(suite.T(), err)
	assert.Equal(suite.T(), context.Canceled, err)
}
