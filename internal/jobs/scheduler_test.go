package jobs

import (
	"context"
	"testing"
	"time"

	"cantina/internal/config"
	"cantina/internal/models"
	"cantina/internal/repositories"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockCanteenRepository struct {
	mock.Mock
}

func (m *MockCanteenRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Canteen, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Canteen), args.Error(1)
}

func (m *MockCanteenRepository) List(ctx context.Context, status *string) ([]*models.Canteen, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Canteen), args.Error(1)
}

func (m *MockCanteenRepository) ListActiveIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) ExportMealReport(ctx context.Context, canteenID uuid.UUID, orderDate time.Time, mealType string) (string, error) {
	args := m.Called(ctx, canteenID, orderDate, mealType)
	return args.String(0), args.Error(1)
}

type SchedulerTestSuite struct {
	suite.Suite
	mock        pgxmock.PgxPoolIface
	canteenRepo *MockCanteenRepository
	reports     *MockReportService
	scheduler   *Scheduler
	ctx         context.Context
}

func (suite *SchedulerTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.canteenRepo = &MockCanteenRepository{}
	suite.reports = &MockReportService{}

	cfg := &config.JobsConfig{
		Enabled:             true,
		CompletionSweepCron: "0 21 * * *",
		ReportExportCron:    "30 21 * * *",
	}
	clock := func() time.Time {
		return time.Date(2024, 5, 10, 21, 0, 0, 0, time.UTC)
	}

	suite.scheduler, err = NewScheduler(repositories.NewOrderRepo(mock), suite.canteenRepo, suite.reports, cfg, clock)
	assert.NoError(suite.T(), err)
	suite.ctx = context.Background()
}

func (suite *SchedulerTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.scheduler.Stop())
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestSchedulerTestSuite(t *testing.T) {
	suite.Run(t, new(SchedulerTestSuite))
}

func (suite *SchedulerTestSuite) TestRunCompletionSweep() {
	today := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	suite.mock.ExpectExec(`UPDATE orders`).
		WithArgs(today).
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))

	suite.scheduler.RunCompletionSweep(suite.ctx)
}

func (suite *SchedulerTestSuite) TestRunReportExport() {
	canteenID := uuid.New()
	reportDate := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	suite.canteenRepo.On("ListActiveIDs", suite.ctx).Return([]uuid.UUID{canteenID}, nil)
	for _, mealType := range []string{models.MealBreakfast, models.MealLunch, models.MealDinner} {
		suite.reports.On("ExportMealReport", suite.ctx, canteenID, reportDate, mealType).
			Return("2024-05-10/"+canteenID.String()+"/"+mealType+".csv", nil)
	}

	suite.scheduler.RunReportExport(suite.ctx)

	suite.canteenRepo.AssertExpectations(suite.T())
	suite.reports.AssertExpectations(suite.T())
}

func (suite *SchedulerTestSuite) TestRunReportExport_ContinuesAfterFailure() {
	first := uuid.New()
	second := uuid.New()
	reportDate := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	suite.canteenRepo.On("ListActiveIDs", suite.ctx).Return([]uuid.UUID{first, second}, nil)
	suite.reports.On("ExportMealReport", suite.ctx, first, reportDate, mock.Anything).
		Return("", assert.AnError)
	suite.reports.On("ExportMealReport", suite.ctx, second, reportDate, mock.Anything).
		Return("report.csv", nil)

	suite.scheduler.RunReportExport(suite.ctx)

	suite.reports.AssertNumberOfCalls(suite.T(), "ExportMealReport", 6)
}
