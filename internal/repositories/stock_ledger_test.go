package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type StockLedgerTestSuite struct {
	suite.Suite
	mock       pgxmock.PgxPoolIface
	ledger     StockLedger
	menuItemID uuid.UUID
	ctx        context.Context
}

func (suite *StockLedgerTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.ledger = NewStockLedger(mock)
	suite.menuItemID = uuid.New()
	suite.ctx = context.Background()
}

func (suite *StockLedgerTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestStockLedgerTestSuite(t *testing.T) {
	suite.Run(t, new(StockLedgerTestSuite))
}

func (suite *StockLedgerTestSuite) TestReserve_Success() {
	suite.mock.ExpectExec(`UPDATE menu_items`).
		WithArgs(3, suite.menuItemID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.ledger.Reserve(suite.ctx, suite.menuItemID, 3)
	assert.NoError(suite.T(), err)
}

func (suite *StockLedgerTestSuite) TestReserve_InsufficientStock() {
	// The guarded update touches no row when stock has run out.
	suite.mock.ExpectExec(`UPDATE menu_items`).
		WithArgs(10, suite.menuItemID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.ledger.Reserve(suite.ctx, suite.menuItemID, 10)
	assert.ErrorIs(suite.T(), err, ErrInsufficientStock)
}

func (suite *StockLedgerTestSuite) TestRelease_Success() {
	suite.mock.ExpectExec(`UPDATE menu_items`).
		WithArgs(2, suite.menuItemID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.ledger.Release(suite.ctx, suite.menuItemID, 2)
	assert.NoError(suite.T(), err)
}

func (suite *StockLedgerTestSuite) TestRelease_MissingItem() {
	suite.mock.ExpectExec(`UPDATE menu_items`).
		WithArgs(2, suite.menuItemID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.ledger.Release(suite.ctx, suite.menuItemID, 2)
	assert.ErrorIs(suite.T(), err, ErrMenuItemNotFound)
}

func (suite *StockLedgerTestSuite) TestResize_Success() {
	suite.mock.ExpectExec(`UPDATE menu_items`).
		WithArgs(8, suite.menuItemID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.ledger.Resize(suite.ctx, suite.menuItemID, 8)
	assert.NoError(suite.T(), err)
}

func (suite *StockLedgerTestSuite) TestResize_ShrinkBelowReserved() {
	suite.mock.ExpectExec(`UPDATE menu_items`).
		WithArgs(1, suite.menuItemID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	suite.mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(suite.menuItemID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	err := suite.ledger.Resize(suite.ctx, suite.menuItemID, 1)
	assert.ErrorIs(suite.T(), err, ErrShrinkBelowReserved)
}

func (suite *StockLedgerTestSuite) TestResize_MissingItem() {
	suite.mock.ExpectExec(`UPDATE menu_items`).
		WithArgs(5, suite.menuItemID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	suite.mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(suite.menuItemID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	err := suite.ledger.Resize(suite.ctx, suite.menuItemID, 5)
	assert.ErrorIs(suite.T(), err, ErrMenuItemNotFound)
}
