package models

import (
	"time"

	"github.com/google/uuid"
)

// Meal slot types. Orders, menus and cutoff configuration all key on these.
const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
)

// Order statuses. An order is "active" (counts toward the one-per-slot
// limit) while placed or completed; placed -> cancelled is the only
// transition this service performs on behalf of users.
const (
	OrderStatusPlaced    = "placed"
	OrderStatusCancelled = "cancelled"
	OrderStatusCompleted = "completed"
)

// ValidMealType reports whether mealType is one of the closed meal slot set.
func ValidMealType(mealType string) bool {
	switch mealType {
	case MealBreakfast, MealLunch, MealDinner:
		return true
	}
	return false
}

// ValidOrderStatus reports whether status is one of the closed status set.
func ValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusPlaced, OrderStatusCancelled, OrderStatusCompleted:
		return true
	}
	return false
}

type Order struct {
	ID          uuid.UUID   `json:"id" db:"id"`
	OrderNo     string      `json:"order_no" db:"order_no"`
	UserID      uuid.UUID   `json:"user_id" db:"user_id"`
	CanteenID   uuid.UUID   `json:"canteen_id" db:"canteen_id"`
	MenuID      uuid.UUID   `json:"menu_id" db:"menu_id"`
	MealType    string      `json:"meal_type" db:"meal_type"`
	OrderDate   time.Time   `json:"order_date" db:"order_date"`
	Status      string      `json:"status" db:"status"`
	TotalAmount float64     `json:"total_amount" db:"total_amount"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`
	Items       []*OrderItem `json:"items,omitempty"`

	// Joined display fields, populated on reads only.
	CanteenName string `json:"canteen_name,omitempty" db:"-"`
	UserName    string `json:"user_name,omitempty" db:"-"`
	EmployeeID  string `json:"employee_id,omitempty" db:"-"`
}

// OrderItem is a line of an order. DishName and DishPrice are snapshots
// taken when the line is created; later catalog edits never change them.
type OrderItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	OrderID   uuid.UUID `json:"order_id" db:"order_id"`
	DishID    uuid.UUID `json:"dish_id" db:"dish_id"`
	DishName  string    `json:"dish_name" db:"dish_name"`
	DishPrice float64   `json:"dish_price" db:"dish_price"`
	Quantity  int       `json:"quantity" db:"quantity"`
	Subtotal  float64   `json:"subtotal" db:"subtotal"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// OrderLine is a requested line item before it is resolved against a menu.
type OrderLine struct {
	DishID   uuid.UUID `json:"dish_id"`
	Quantity int       `json:"quantity"`
}

// OrderFilter holds the optional filters for canteen/user order listings.
type OrderFilter struct {
	OrderDate *time.Time `json:"order_date,omitempty"`
	MealType  *string    `json:"meal_type,omitempty"`
	Status    *string    `json:"status,omitempty"`
}
