package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cantina/internal/caching"
	"cantina/internal/common"
	"cantina/internal/models"
	"cantina/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// TxBeginner opens database transactions. *pgxpool.Pool satisfies it in
// production, pgxmock in tests.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// OrderService is the order transaction manager: every mutating operation
// runs as one all-or-nothing database transaction combining the time
// window check, the stock ledger and the order rows. No partial effect is
// ever observable outside the transaction.
type OrderService interface {
	CreateOrder(ctx context.Context, userID, canteenID, menuID uuid.UUID, mealType string, orderDate time.Time, lines []models.OrderLine) (uuid.UUID, error)
	UpdateOrder(ctx context.Context, orderID, userID uuid.UUID, lines []models.OrderLine) error
	CancelOrder(ctx context.Context, orderID, userID uuid.UUID) error

	GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	GetUserOrders(ctx context.Context, userID uuid.UUID, status *string) ([]*models.Order, error)
	GetCanteenOrders(ctx context.Context, canteenID uuid.UUID, filter *models.OrderFilter) ([]*models.Order, error)
}

type orderService struct {
	pool   TxBeginner
	reader repositories.DBTX
	policy *TimeWindowPolicy
	cache  caching.CacheService
	now    Clock
}

// NewOrderService wires the transaction manager. reader serves the
// non-transactional read paths; cache may be nil when caching is disabled.
func NewOrderService(pool TxBeginner, reader repositories.DBTX, policy *TimeWindowPolicy, cache caching.CacheService, now Clock) OrderService {
	if now == nil {
		now = time.Now
	}
	return &orderService{pool: pool, reader: reader, policy: policy, cache: cache, now: now}
}

// generateOrderNo builds the caller-visible order number: ORD plus a
// microsecond timestamp, unique enough across one deployment and sortable
// by creation time.
func (s *orderService) generateOrderNo() string {
	t := s.now()
	return fmt.Sprintf("ORD%s%06d", t.Format("20060102150405"), t.Nanosecond()/1000)
}

func (s *orderService) CreateOrder(ctx context.Context, userID, canteenID, menuID uuid.UUID, mealType string, orderDate time.Time, lines []models.OrderLine) (uuid.UUID, error) {
	if len(lines) == 0 {
		return uuid.Nil, common.InvalidParam("order must contain at least one item")
	}
	for _, line := range lines {
		if line.Quantity <= 0 {
			return uuid.Nil, common.InvalidParam("item quantity must be positive")
		}
	}
	if !models.ValidMealType(mealType) {
		return uuid.Nil, common.InvalidParam("unknown meal type")
	}
	if !s.policy.WithinWindow(mealType, orderDate) {
		return uuid.Nil, common.ErrTimeLimit
	}

	orderID := uuid.New()
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		orders := repositories.NewOrderRepo(tx)
		menus := repositories.NewMenuRepo(tx)
		ledger := repositories.NewStockLedger(tx)

		existing, err := orders.FindActiveBySlot(ctx, userID, orderDate, mealType)
		if err != nil {
			return fmt.Errorf("check existing order: %w", err)
		}
		if existing != nil {
			return common.ErrDuplicateOrder
		}

		// Reserve every line before persisting anything. A failure on any
		// line aborts the transaction, rolling earlier reservations back.
		reserved := make([]*models.MenuItem, 0, len(lines))
		for _, line := range lines {
			item, err := menus.GetItemForOrder(ctx, menuID, line.DishID)
			if err != nil {
				return fmt.Errorf("resolve menu item: %w", err)
			}
			if item == nil {
				return common.ErrDishNotInMenu(line.DishID.String())
			}
			if err := ledger.Reserve(ctx, item.ID, line.Quantity); err != nil {
				if errors.Is(err, repositories.ErrInsufficientStock) {
					return common.ErrInsufficientStock(item.DishName)
				}
				return fmt.Errorf("reserve stock: %w", err)
			}
			reserved = append(reserved, item)
		}

		order := &models.Order{
			ID:        orderID,
			OrderNo:   s.generateOrderNo(),
			UserID:    userID,
			CanteenID: canteenID,
			MenuID:    menuID,
			MealType:  mealType,
			OrderDate: orderDate,
			Status:    models.OrderStatusPlaced,
		}
		if err := orders.Create(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		var totalAmount float64
		for i, line := range lines {
			item := reserved[i]
			subtotal := item.DishPrice * float64(line.Quantity)
			totalAmount += subtotal
			orderItem := &models.OrderItem{
				ID:        uuid.New(),
				OrderID:   orderID,
				DishID:    line.DishID,
				DishName:  item.DishName,
				DishPrice: item.DishPrice,
				Quantity:  line.Quantity,
				Subtotal:  subtotal,
			}
			if err := orders.CreateItem(ctx, orderItem); err != nil {
				return fmt.Errorf("create order item: %w", err)
			}
		}
		if err := orders.UpdateTotal(ctx, orderID, totalAmount); err != nil {
			return fmt.Errorf("update order total: %w", err)
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	s.invalidateStats(ctx, canteenID, orderDate, mealType)
	log.Info().
		Str("order_id", orderID.String()).
		Str("user_id", userID.String()).
		Str("meal_type", mealType).
		Msg("order created")
	return orderID, nil
}

func (s *orderService) UpdateOrder(ctx context.Context, orderID, userID uuid.UUID, lines []models.OrderLine) error {
	if len(lines) == 0 {
		return common.InvalidParam("order must contain at least one item")
	}
	for _, line := range lines {
		if line.Quantity <= 0 {
			return common.InvalidParam("item quantity must be positive")
		}
	}

	var order *models.Order
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		orders := repositories.NewOrderRepo(tx)
		menus := repositories.NewMenuRepo(tx)
		ledger := repositories.NewStockLedger(tx)

		var err error
		order, err = s.lockOwnedOrder(ctx, orders, orderID, userID)
		if err != nil {
			return err
		}
		// The window is judged against the order's own meal slot, not the
		// day the modification request arrives.
		if !s.policy.WithinWindow(order.MealType, order.OrderDate) {
			return common.ErrTimeLimit
		}

		oldItems, err := orders.ListItems(ctx, orderID)
		if err != nil {
			return fmt.Errorf("list order items: %w", err)
		}
		for _, oldItem := range oldItems {
			menuItem, err := menus.GetItemForOrder(ctx, order.MenuID, oldItem.DishID)
			if err != nil {
				return fmt.Errorf("resolve menu item: %w", err)
			}
			if menuItem == nil {
				// Dish since removed from the menu; nothing to return
				// stock to.
				continue
			}
			if err := ledger.Release(ctx, menuItem.ID, oldItem.Quantity); err != nil {
				return fmt.Errorf("release stock: %w", err)
			}
		}
		if err := orders.DeleteItems(ctx, orderID); err != nil {
			return fmt.Errorf("delete order items: %w", err)
		}

		var totalAmount float64
		for _, line := range lines {
			item, err := menus.GetItemForOrder(ctx, order.MenuID, line.DishID)
			if err != nil {
				return fmt.Errorf("resolve menu item: %w", err)
			}
			if item == nil {
				return common.ErrDishNotInMenu(line.DishID.String())
			}
			if err := ledger.Reserve(ctx, item.ID, line.Quantity); err != nil {
				if errors.Is(err, repositories.ErrInsufficientStock) {
					return common.ErrInsufficientStock(item.DishName)
				}
				return fmt.Errorf("reserve stock: %w", err)
			}
			subtotal := item.DishPrice * float64(line.Quantity)
			totalAmount += subtotal
			orderItem := &models.OrderItem{
				ID:        uuid.New(),
				OrderID:   orderID,
				DishID:    line.DishID,
				DishName:  item.DishName,
				DishPrice: item.DishPrice,
				Quantity:  line.Quantity,
				Subtotal:  subtotal,
			}
			if err := orders.CreateItem(ctx, orderItem); err != nil {
				return fmt.Errorf("create order item: %w", err)
			}
		}
		if err := orders.UpdateTotal(ctx, orderID, totalAmount); err != nil {
			return fmt.Errorf("update order total: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidateStats(ctx, order.CanteenID, order.OrderDate, order.MealType)
	log.Info().Str("order_id", orderID.String()).Msg("order updated")
	return nil
}

func (s *orderService) CancelOrder(ctx context.Context, orderID, userID uuid.UUID) error {
	var order *models.Order
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		orders := repositories.NewOrderRepo(tx)
		menus := repositories.NewMenuRepo(tx)
		ledger := repositories.NewStockLedger(tx)

		var err error
		order, err = s.lockOwnedOrder(ctx, orders, orderID, userID)
		if err != nil {
			return err
		}
		if !s.policy.WithinWindow(order.MealType, order.OrderDate) {
			return common.ErrTimeLimit
		}

		items, err := orders.ListItems(ctx, orderID)
		if err != nil {
			return fmt.Errorf("list order items: %w", err)
		}
		for _, item := range items {
			menuItem, err := menus.GetItemForOrder(ctx, order.MenuID, item.DishID)
			if err != nil {
				return fmt.Errorf("resolve menu item: %w", err)
			}
			if menuItem == nil {
				continue
			}
			if err := ledger.Release(ctx, menuItem.ID, item.Quantity); err != nil {
				return fmt.Errorf("release stock: %w", err)
			}
		}

		if err := orders.UpdateStatus(ctx, orderID, models.OrderStatusCancelled); err != nil {
			return fmt.Errorf("update order status: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidateStats(ctx, order.CanteenID, order.OrderDate, order.MealType)
	log.Info().Str("order_id", orderID.String()).Msg("order cancelled")
	return nil
}

func (s *orderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	orders := repositories.NewOrderRepo(s.reader)
	order, err := orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, common.ErrOrderNotFound
	}
	order.Items, err = orders.ListItems(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	return order, nil
}

func (s *orderService) GetUserOrders(ctx context.Context, userID uuid.UUID, status *string) ([]*models.Order, error) {
	if status != nil && !models.ValidOrderStatus(*status) {
		return nil, common.InvalidParam("unknown order status")
	}
	return repositories.NewOrderRepo(s.reader).ListByUser(ctx, userID, status)
}

func (s *orderService) GetCanteenOrders(ctx context.Context, canteenID uuid.UUID, filter *models.OrderFilter) ([]*models.Order, error) {
	if filter != nil {
		if filter.MealType != nil && !models.ValidMealType(*filter.MealType) {
			return nil, common.InvalidParam("unknown meal type")
		}
		if filter.Status != nil && !models.ValidOrderStatus(*filter.Status) {
			return nil, common.InvalidParam("unknown order status")
		}
	}
	return repositories.NewOrderRepo(s.reader).ListByCanteen(ctx, canteenID, filter)
}

// lockOwnedOrder loads and row-locks an order for mutation, folding the
// ownership and status preconditions into the usual business errors. A
// foreign order is reported as not found rather than forbidden.
func (s *orderService) lockOwnedOrder(ctx context.Context, orders repositories.OrderRepository, orderID, userID uuid.UUID) (*models.Order, error) {
	order, err := orders.GetByIDForUpdate(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil || order.UserID != userID {
		return nil, common.ErrOrderNotFound
	}
	if order.Status != models.OrderStatusPlaced {
		return nil, common.ErrCannotModify
	}
	return order, nil
}

func (s *orderService) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (s *orderService) invalidateStats(ctx context.Context, canteenID uuid.UUID, orderDate time.Time, mealType string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteMealStatistics(ctx, canteenID, orderDate, mealType); err != nil {
		log.Debug().Err(err).Msg("meal statistics cache invalidation failed")
	}
}
