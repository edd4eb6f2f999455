package models

import "time"

// DishStat is the aggregate demand for one dish in one meal slot.
type DishStat struct {
	DishName      string `json:"dish_name"`
	TotalQuantity int    `json:"total_quantity"`
	OrderCount    int    `json:"order_count"`
}

// UserStat is one ordering employee in a meal slot listing.
type UserStat struct {
	EmployeeID string    `json:"employee_id"`
	FullName   string    `json:"full_name"`
	OrderNo    string    `json:"order_no"`
	CreatedAt  time.Time `json:"created_at"`
}

// MealStatistics is the per-slot summary a canteen works from: what to
// cook, who ordered, how many orders in total. Computed over active
// (placed or completed) orders only.
type MealStatistics struct {
	DishStatistics []*DishStat `json:"dish_statistics"`
	UserStatistics []*UserStat `json:"user_statistics"`
	TotalOrders    int         `json:"total_orders"`
}
