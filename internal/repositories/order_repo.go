package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cantina/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindActiveBySlot(ctx context.Context, userID uuid.UUID, orderDate time.Time, mealType string) (*models.Order, error)
	UpdateTotal(ctx context.Context, id uuid.UUID, totalAmount float64) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	ListByUser(ctx context.Context, userID uuid.UUID, status *string) ([]*models.Order, error)
	ListByCanteen(ctx context.Context, canteenID uuid.UUID, filter *models.OrderFilter) ([]*models.Order, error)
	CompletePastPlaced(ctx context.Context, before time.Time) (int64, error)

	CreateItem(ctx context.Context, item *models.OrderItem) error
	ListItems(ctx context.Context, orderID uuid.UUID) ([]*models.OrderItem, error)
	DeleteItems(ctx context.Context, orderID uuid.UUID) error
}

type orderRepo struct {
	db DBTX
}

func NewOrderRepo(db DBTX) OrderRepository {
	return &orderRepo{db: db}
}

func (r *orderRepo) Create(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (id, order_no, user_id, canteen_id, menu_id, meal_type, order_date, status, total_amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, order.ID, order.OrderNo, order.UserID, order.CanteenID, order.MenuID, order.MealType, order.OrderDate, order.Status, order.TotalAmount)
	return err
}

func (r *orderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order := &models.Order{}
	query := `
		SELECT o.id, o.order_no, o.user_id, o.canteen_id, o.menu_id, o.meal_type, o.order_date, o.status, o.total_amount, o.created_at, o.updated_at,
		       c.name, u.full_name, u.employee_id
		FROM orders o
		LEFT JOIN canteens c ON o.canteen_id = c.id
		LEFT JOIN users u ON o.user_id = u.id
		WHERE o.id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&order.ID, &order.OrderNo, &order.UserID, &order.CanteenID, &order.MenuID, &order.MealType, &order.OrderDate, &order.Status, &order.TotalAmount, &order.CreatedAt, &order.UpdatedAt,
		&order.CanteenName, &order.UserName, &order.EmployeeID,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

// GetByIDForUpdate locks the order row for the enclosing transaction, so
// a concurrent update or cancel of the same order serializes behind it.
func (r *orderRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order := &models.Order{}
	query := `
		SELECT id, order_no, user_id, canteen_id, menu_id, meal_type, order_date, status, total_amount, created_at, updated_at
		FROM orders
		WHERE id = $1
		FOR UPDATE
	`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&order.ID, &order.OrderNo, &order.UserID, &order.CanteenID, &order.MenuID, &order.MealType, &order.OrderDate, &order.Status, &order.TotalAmount, &order.CreatedAt, &order.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

// FindActiveBySlot returns the placed or completed order a user already
// holds for a meal slot, or nil. Backs the one-active-order-per-slot rule.
func (r *orderRepo) FindActiveBySlot(ctx context.Context, userID uuid.UUID, orderDate time.Time, mealType string) (*models.Order, error) {
	order := &models.Order{}
	query := `
		SELECT id, order_no, user_id, canteen_id, menu_id, meal_type, order_date, status, total_amount, created_at, updated_at
		FROM orders
		WHERE user_id = $1 AND order_date = $2 AND meal_type = $3
		  AND status IN ('placed', 'completed')
	`
	err := r.db.QueryRow(ctx, query, userID, orderDate, mealType).Scan(
		&order.ID, &order.OrderNo, &order.UserID, &order.CanteenID, &order.MenuID, &order.MealType, &order.OrderDate, &order.Status, &order.TotalAmount, &order.CreatedAt, &order.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepo) UpdateTotal(ctx context.Context, id uuid.UUID, totalAmount float64) error {
	query := `UPDATE orders SET total_amount = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(ctx, query, totalAmount, id)
	return err
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(ctx, query, status, id)
	return err
}

func (r *orderRepo) ListByUser(ctx context.Context, userID uuid.UUID, status *string) ([]*models.Order, error) {
	query := `
		SELECT o.id, o.order_no, o.user_id, o.canteen_id, o.menu_id, o.meal_type, o.order_date, o.status, o.total_amount, o.created_at, o.updated_at,
		       c.name
		FROM orders o
		LEFT JOIN canteens c ON o.canteen_id = c.id
		WHERE o.user_id = $1
	`
	args := []any{userID}
	if status != nil {
		query += ` AND o.status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY o.order_date DESC, o.meal_type DESC, o.created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order := &models.Order{}
		if err := rows.Scan(
			&order.ID, &order.OrderNo, &order.UserID, &order.CanteenID, &order.MenuID, &order.MealType, &order.OrderDate, &order.Status, &order.TotalAmount, &order.CreatedAt, &order.UpdatedAt,
			&order.CanteenName,
		); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func (r *orderRepo) ListByCanteen(ctx context.Context, canteenID uuid.UUID, filter *models.OrderFilter) ([]*models.Order, error) {
	query := `
		SELECT o.id, o.order_no, o.user_id, o.canteen_id, o.menu_id, o.meal_type, o.order_date, o.status, o.total_amount, o.created_at, o.updated_at,
		       u.full_name, u.employee_id
		FROM orders o
		LEFT JOIN users u ON o.user_id = u.id
		WHERE o.canteen_id = $1
	`
	args := []any{canteenID}
	if filter != nil {
		if filter.OrderDate != nil {
			args = append(args, *filter.OrderDate)
			query += fmt.Sprintf(` AND o.order_date = $%d`, len(args))
		}
		if filter.MealType != nil {
			args = append(args, *filter.MealType)
			query += fmt.Sprintf(` AND o.meal_type = $%d`, len(args))
		}
		if filter.Status != nil {
			args = append(args, *filter.Status)
			query += fmt.Sprintf(` AND o.status = $%d`, len(args))
		}
	}
	query += ` ORDER BY o.order_date DESC, o.meal_type, o.created_at`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order := &models.Order{}
		if err := rows.Scan(
			&order.ID, &order.OrderNo, &order.UserID, &order.CanteenID, &order.MenuID, &order.MealType, &order.OrderDate, &order.Status, &order.TotalAmount, &order.CreatedAt, &order.UpdatedAt,
			&order.UserName, &order.EmployeeID,
		); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

// CompletePastPlaced marks every placed order dated before the given day
// as completed. Run by the nightly completion sweep.
func (r *orderRepo) CompletePastPlaced(ctx context.Context, before time.Time) (int64, error) {
	query := `
		UPDATE orders
		SET status = 'completed', updated_at = NOW()
		WHERE status = 'placed' AND order_date < $1
	`
	tag, err := r.db.Exec(ctx, query, before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *orderRepo) CreateItem(ctx context.Context, item *models.OrderItem) error {
	query := `
		INSERT INTO order_items (id, order_id, dish_id, dish_name, dish_price, quantity, subtotal, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`
	_, err := r.db.Exec(ctx, query, item.ID, item.OrderID, item.DishID, item.DishName, item.DishPrice, item.Quantity, item.Subtotal)
	return err
}

func (r *orderRepo) ListItems(ctx context.Context, orderID uuid.UUID) ([]*models.OrderItem, error) {
	query := `
		SELECT id, order_id, dish_id, dish_name, dish_price, quantity, subtotal, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY created_at, id
	`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.OrderItem
	for rows.Next() {
		item := &models.OrderItem{}
		if err := rows.Scan(&item.ID, &item.OrderID, &item.DishID, &item.DishName, &item.DishPrice, &item.Quantity, &item.Subtotal, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *orderRepo) DeleteItems(ctx context.Context, orderID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, orderID)
	return err
}
