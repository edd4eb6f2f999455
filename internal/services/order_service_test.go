package services

import (
	"context"
	"testing"
	"time"

	"cantina/internal/common"
	"cantina/internal/config"
	"cantina/internal/models"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

// orderClock is 09:00 on 2024-05-10: breakfast (07:30) has closed, lunch
// (11:00) and dinner (17:00) are still open.
var orderClock = func() time.Time {
	return time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
}

type OrderServiceTestSuite struct {
	suite.Suite
	mock      pgxmock.PgxPoolIface
	service   OrderService
	ctx       context.Context
	userID    uuid.UUID
	canteenID uuid.UUID
	menuID    uuid.UUID
	orderDate time.Time
}

func (suite *OrderServiceTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	meals := &config.MealConfig{
		BreakfastCutoff: "07:30",
		LunchCutoff:     "11:00",
		DinnerCutoff:    "17:00",
	}
	policy, err := NewTimeWindowPolicy(meals, orderClock)
	assert.NoError(suite.T(), err)

	suite.service = NewOrderService(mock, mock, policy, nil, orderClock)
	suite.ctx = context.Background()
	suite.userID = uuid.New()
	suite.canteenID = uuid.New()
	suite.menuID = uuid.New()
	suite.orderDate = time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
}

func (suite *OrderServiceTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestOrderServiceTestSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceTestSuite))
}

func (suite *OrderServiceTestSuite) menuItemRow(itemID, dishID uuid.UUID, quantity, available int, name string, price float64) *pgxmock.Rows {
	now := orderClock()
	return pgxmock.NewRows([]string{"id", "menu_id", "dish_id", "quantity", "available_quantity", "created_at", "updated_at", "name", "price"}).
		AddRow(itemID, suite.menuID, dishID, quantity, available, now, now, name, price)
}

func (suite *OrderServiceTestSuite) lockedOrderRow(orderID, userID uuid.UUID, orderDate time.Time, status string) *pgxmock.Rows {
	now := orderClock()
	return pgxmock.NewRows([]string{"id", "order_no", "user_id", "canteen_id", "menu_id", "meal_type", "order_date", "status", "total_amount", "created_at", "updated_at"}).
		AddRow(orderID, "ORD20240510080000000001", userID, suite.canteenID, suite.menuID, models.MealLunch, orderDate, status, 17.0, now, now)
}

func (suite *OrderServiceTestSuite) TestCreateOrder() {
	dishID := uuid.New()
	itemID := uuid.New()
	lines := []models.OrderLine{{DishID: dishID, Quantity: 2}}

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`status IN`).
		WithArgs(suite.userID, suite.orderDate, models.MealLunch).
		WillReturnError(pgx.ErrNoRows)
	suite.mock.ExpectQuery(`FROM menu_items mi`).
		WithArgs(suite.menuID, dishID).
		WillReturnRows(suite.menuItemRow(itemID, dishID, 10, 10, "Fried Rice", 8.5))
	suite.mock.ExpectExec(`UPDATE menu_items`).
		WithArgs(2, itemID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectExec(`INSERT INTO orders`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectExec(`INSERT INTO order_items`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectExec(`UPDATE orders SET total_amount`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectCommit()

	orderID, err := suite.service.CreateOrder(suite.ctx, suite.userID, suite.canteenID, suite.menuID, models.MealLunch, suite.orderDate, lines)
	assert.NoError(suite.T(), err)
	assert.NotEqual(suite.T(), uuid.Nil, orderID)
}

func (suite *OrderServiceTestSuite) TestCreateOrder_DuplicateSlot() {
	lines := []models.OrderLine{{DishID: uuid.New(), Quantity: 1}}

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`status IN`).
		WithArgs(suite.userID, suite.orderDate, models.MealLunch).
		WillReturnRows(suite.lockedOrderRow(uuid.New(), suite.userID, suite.orderDate, models.OrderStatusPlaced))
	suite.mock.ExpectRollback()

	_, err := suite.service.CreateOrder(suite.ctx, suite.userID, suite.canteenID, suite.menuID, models.MealLunch, suite.orderDate, lines)
	assert.ErrorIs(suite.T(), err, common.ErrDuplicateOrder)
}

func (suite *OrderServiceTestSuite) TestCreateOrder_InsufficientStock() {
	dishID := uuid.New()
	itemID := uuid.New()
	lines := []models.OrderLine{{DishID: dishID, Quantity: 5}}

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`status IN`).
		WithArgs(suite.userID, suite.orderDate, models.MealLunch).
		WillReturnError(pgx.ErrNoRows)
	suite.mock.ExpectQuery(`FROM menu_items mi`).
		WithArgs(suite.menuID, dishID).
		WillReturnRows(suite.menuItemRow(itemID, dishID, 10, 2, "Braised Pork", 12.0))
	suite.mock.ExpectExec(`UPDATE menu_items`).
		WithArgs(5, itemID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	suite.mock.ExpectRollback()

	_, err := suite.service.CreateOrder(suite.ctx, suite.userID, suite.canteenID, suite.menuID, models.MealLunch, suite.orderDate, lines)
	be, ok := common.AsBusinessError(err)
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), common.CodeInsufficientStock, be.Code)
	assert.Contains(suite.T(), be.Message, "Braised Pork")
}

func (suite *OrderServiceTestSuite) TestCreateOrder_DishNotInMenu() {
	dishID := uuid.New()
	lines := []models.OrderLine{{DishID: dishID, Quantity: 1}}

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`status IN`).
		WithArgs(suite.userID, suite.orderDate, models.MealLunch).
		WillReturnError(pgx.ErrNoRows)
	suite.mock.ExpectQuery(`FROM menu_items mi`).
		WithArgs(suite.menuID, dishID).
		WillReturnError(pgx.ErrNoRows)
	suite.mock.ExpectRollback()

	_, err := suite.service.CreateOrder(suite.ctx, suite.userID, suite.canteenID, suite.menuID, models.MealLunch, suite.orderDate, lines)
	be, ok := common.AsBusinessError(err)
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), common.CodeDishNotInMenu, be.Code)
}

func (suite *OrderServiceTestSuite) TestCreateOrder_AfterCutoff() {
	// Breakfast cutoff passed at 07:30; no transaction is opened.
	lines := []models.OrderLine{{DishID: uuid.New(), Quantity: 1}}

	_, err := suite.service.CreateOrder(suite.ctx, suite.userID, suite.canteenID, suite.menuID, models.MealBreakfast, suite.orderDate, lines)
	assert.ErrorIs(suite.T(), err, common.ErrTimeLimit)
}

func (suite *OrderServiceTestSuite) TestCreateOrder_EmptyLines() {
	_, err := suite.service.CreateOrder(suite.ctx, suite.userID, suite.canteenID, suite.menuID, models.MealLunch, suite.orderDate, nil)
	assert.ErrorIs(suite.T(), err, common.ErrInvalidParam)
}

func (suite *OrderServiceTestSuite) TestCreateOrder_NonPositiveQuantity() {
	lines := []models.OrderLine{{DishID: uuid.New(), Quantity: 0}}

	_, err := suite.service.CreateOrder(suite.ctx, suite.userID, suite.canteenID, suite.menuID, models.MealLunch, suite.orderDate, lines)
	assert.ErrorIs(suite.T(), err, common.ErrInvalidParam)
}

func (suite *OrderServiceTestSuite) TestCancelOrder() {
	orderID := uuid.New()
	dishID := uuid.New()
	itemID := uuid.New()
	now := orderClock()

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(orderID).
		WillReturnRows(suite.lockedOrderRow(orderID, suite.userID, suite.orderDate, models.OrderStatusPlaced))
	suite.mock.ExpectQuery(`FROM order_items`).
		WithArgs(orderID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "order_id", "dish_id", "dish_name", "dish_price", "quantity", "subtotal", "created_at"}).
			AddRow(uuid.New(), orderID, dishID, "Fried Rice", 8.5, 2, 17.0, now))
	suite.mock.ExpectQuery(`FROM menu_items mi`).
		WithArgs(suite.menuID, dishID).
		WillReturnRows(suite.menuItemRow(itemID, dishID, 10, 6, "Fried Rice", 8.5))
	suite.mock.ExpectExec(`UPDATE menu_items`).
		WithArgs(2, itemID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectExec(`UPDATE orders SET status`).
		WithArgs(models.OrderStatusCancelled, orderID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectCommit()

	err := suite.service.CancelOrder(suite.ctx, orderID, suite.userID)
	assert.NoError(suite.T(), err)
}

func (suite *OrderServiceTestSuite) TestCancelOrder_NotOwner() {
	orderID := uuid.New()

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(orderID).
		WillReturnRows(suite.lockedOrderRow(orderID, uuid.New(), suite.orderDate, models.OrderStatusPlaced))
	suite.mock.ExpectRollback()

	err := suite.service.CancelOrder(suite.ctx, orderID, suite.userID)
	assert.ErrorIs(suite.T(), err, common.ErrOrderNotFound)
}

func (suite *OrderServiceTestSuite) TestCancelOrder_AlreadyCancelled() {
	orderID := uuid.New()

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(orderID).
		WillReturnRows(suite.lockedOrderRow(orderID, suite.userID, suite.orderDate, models.OrderStatusCancelled))
	suite.mock.ExpectRollback()

	err := suite.service.CancelOrder(suite.ctx, orderID, suite.userID)
	assert.ErrorIs(suite.T(), err, common.ErrCannotModify)
}

func (suite *OrderServiceTestSuite) TestUpdateOrder_AfterCutoff() {
	// The order is for yesterday's lunch; stock must not be touched.
	orderID := uuid.New()
	yesterday := suite.orderDate.AddDate(0, 0, -1)
	lines := []models.OrderLine{{DishID: uuid.New(), Quantity: 1}}

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(orderID).
		WillReturnRows(suite.lockedOrderRow(orderID, suite.userID, yesterday, models.OrderStatusPlaced))
	suite.mock.ExpectRollback()

	err := suite.service.UpdateOrder(suite.ctx, orderID, suite.userID, lines)
	assert.ErrorIs(suite.T(), err, common.ErrTimeLimit)
}

func (suite *OrderServiceTestSuite) TestUpdateOrder_InsufficientStockRollsBack() {
	// Reservation of the replacement items fails partway; the whole
	// transaction rolls back, restoring the old items and reservations.
	orderID := uuid.New()
	oldDishID := uuid.New()
	oldItemID := uuid.New()
	newDishID := uuid.New()
	newItemID := uuid.New()
	now := orderClock()
	lines := []models.OrderLine{{DishID: newDishID, Quantity: 4}}

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(orderID).
		WillReturnRows(suite.lockedOrderRow(orderID, suite.userID, suite.orderDate, models.OrderStatusPlaced))
	suite.mock.ExpectQuery(`FROM order_items`).
		WithArgs(orderID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "order_id", "dish_id", "dish_name", "dish_price", "quantity", "subtotal", "created_at"}).
			AddRow(uuid.New(), orderID, oldDishID, "Fried Rice", 8.5, 2, 17.0, now))
	suite.mock.ExpectQuery(`FROM menu_items mi`).
		WithArgs(suite.menuID, oldDishID).
		WillReturnRows(suite.menuItemRow(oldItemID, oldDishID, 10, 6, "Fried Rice", 8.5))
	suite.mock.ExpectExec(`UPDATE menu_items`).
		WithArgs(2, oldItemID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectExec(`DELETE FROM order_items`).
		WithArgs(orderID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	suite.mock.ExpectQuery(`FROM menu_items mi`).
		WithArgs(suite.menuID, newDishID).
		WillReturnRows(suite.menuItemRow(newItemID, newDishID, 10, 1, "Soup", 3.0))
	suite.mock.ExpectExec(`UPDATE menu_items`).
		WithArgs(4, newItemID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	suite.mock.ExpectRollback()

	err := suite.service.UpdateOrder(suite.ctx, orderID, suite.userID, lines)

	be, ok := common.AsBusinessError(err)
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), common.CodeInsufficientStock, be.Code)
	assert.Contains(suite.T(), be.Message, "Soup")
}

func (suite *OrderServiceTestSuite) TestUpdateOrder_ReplacesItems() {
	orderID := uuid.New()
	oldDishID := uuid.New()
	oldItemID := uuid.New()
	newDishID := uuid.New()
	newItemID := uuid.New()
	now := orderClock()
	lines := []models.OrderLine{{DishID: newDishID, Quantity: 3}}

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(orderID).
		WillReturnRows(suite.lockedOrderRow(orderID, suite.userID, suite.orderDate, models.OrderStatusPlaced))
	suite.mock.ExpectQuery(`FROM order_items`).
		WithArgs(orderID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "order_id", "dish_id", "dish_name", "dish_price", "quantity", "subtotal", "created_at"}).
			AddRow(uuid.New(), orderID, oldDishID, "Fried Rice", 8.5, 2, 17.0, now))
	suite.mock.ExpectQuery(`FROM menu_items mi`).
		WithArgs(suite.menuID, oldDishID).
		WillReturnRows(suite.menuItemRow(oldItemID, oldDishID, 10, 6, "Fried Rice", 8.5))
	suite.mock.ExpectExec(`UPDATE menu_items`).
		WithArgs(2, oldItemID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectExec(`DELETE FROM order_items`).
		WithArgs(orderID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	suite.mock.ExpectQuery(`FROM menu_items mi`).
		WithArgs(suite.menuID, newDishID).
		WillReturnRows(suite.menuItemRow(newItemID, newDishID, 10, 10, "Soup", 3.0))
	suite.mock.ExpectExec(`UPDATE menu_items`).
		WithArgs(3, newItemID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectExec(`INSERT INTO order_items`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectExec(`UPDATE orders SET total_amount`).
		WithArgs(9.0, orderID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectCommit()

	err := suite.service.UpdateOrder(suite.ctx, orderID, suite.userID, lines)
	assert.NoError(suite.T(), err)
}
