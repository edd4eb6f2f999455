package repositories

import (
	"context"
	"time"

	"cantina/internal/models"

	"github.com/google/uuid"
)

// StatisticsRepository reads committed orders only; it never mutates.
type StatisticsRepository interface {
	DishStats(ctx context.Context, canteenID uuid.UUID, orderDate time.Time, mealType string) ([]*models.DishStat, error)
	UserStats(ctx context.Context, canteenID uuid.UUID, orderDate time.Time, mealType string) ([]*models.UserStat, error)
	CountActiveOrders(ctx context.Context, canteenID uuid.UUID, orderDate time.Time, mealType string) (int, error)
}

type statisticsRepo struct {
	db DBTX
}

func NewStatisticsRepo(db DBTX) StatisticsRepository {
	return &statisticsRepo{db: db}
}

func (r *statisticsRepo) DishStats(ctx context.Context, canteenID uuid.UUID, orderDate time.Time, mealType string) ([]*models.DishStat, error) {
	query := `
		SELECT oi.dish_name, SUM(oi.quantity) AS total_quantity, COUNT(DISTINCT o.id) AS order_count
		FROM orders o
		JOIN order_items oi ON o.id = oi.order_id
		WHERE o.canteen_id = $1 AND o.order_date = $2 AND o.meal_type = $3
		  AND o.status IN ('placed', 'completed')
		GROUP BY oi.dish_id, oi.dish_name
		ORDER BY total_quantity DESC
	`
	rows, err := r.db.Query(ctx, query, canteenID, orderDate, mealType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []*models.DishStat
	for rows.Next() {
		stat := &models.DishStat{}
		if err := rows.Scan(&stat.DishName, &stat.TotalQuantity, &stat.OrderCount); err != nil {
			return nil, err
		}
		stats = append(stats, stat)
	}
	return stats, rows.Err()
}

func (r *statisticsRepo) UserStats(ctx context.Context, canteenID uuid.UUID, orderDate time.Time, mealType string) ([]*models.UserStat, error) {
	query := `
		SELECT u.employee_id, u.full_name, o.order_no, o.created_at
		FROM orders o
		JOIN users u ON o.user_id = u.id
		WHERE o.canteen_id = $1 AND o.order_date = $2 AND o.meal_type = $3
		  AND o.status IN ('placed', 'completed')
		ORDER BY o.created_at
	`
	rows, err := r.db.Query(ctx, query, canteenID, orderDate, mealType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []*models.UserStat
	for rows.Next() {
		stat := &models.UserStat{}
		if err := rows.Scan(&stat.EmployeeID, &stat.FullName, &stat.OrderNo, &stat.CreatedAt); err != nil {
			return nil, err
		}
		stats = append(stats, stat)
	}
	return stats, rows.Err()
}

func (r *statisticsRepo) CountActiveOrders(ctx context.Context, canteenID uuid.UUID, orderDate time.Time, mealType string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM orders
		WHERE canteen_id = $1 AND order_date = $2 AND meal_type = $3
		  AND status IN ('placed', 'completed')
	`
	var count int
	if err := r.db.QueryRow(ctx, query, canteenID, orderDate, mealType).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
