package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	MenuStatusActive   = "active"
	MenuStatusInactive = "inactive"
)

// Menu is the published offering of one canteen for one meal slot.
type Menu struct {
	ID        uuid.UUID   `json:"id" db:"id"`
	CanteenID uuid.UUID   `json:"canteen_id" db:"canteen_id"`
	MenuDate  time.Time   `json:"menu_date" db:"menu_date"`
	MealType  string      `json:"meal_type" db:"meal_type"`
	Status    string      `json:"status" db:"status"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" db:"updated_at"`
	Items     []*MenuItem `json:"items,omitempty"`

	CanteenName string `json:"canteen_name,omitempty" db:"-"`
}

// MenuItem carries the stock ledger for one dish on one menu.
// Invariant at rest: 0 <= AvailableQuantity <= Quantity.
type MenuItem struct {
	ID                uuid.UUID `json:"id" db:"id"`
	MenuID            uuid.UUID `json:"menu_id" db:"menu_id"`
	DishID            uuid.UUID `json:"dish_id" db:"dish_id"`
	Quantity          int       `json:"quantity" db:"quantity"`
	AvailableQuantity int       `json:"available_quantity" db:"available_quantity"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`

	// Joined dish fields for menu reads and order line resolution.
	DishName  string  `json:"dish_name,omitempty" db:"-"`
	DishPrice float64 `json:"dish_price,omitempty" db:"-"`
}

// MenuFilter holds the optional filters for menu listings.
type MenuFilter struct {
	CanteenID *uuid.UUID `json:"canteen_id,omitempty"`
	MenuDate  *time.Time `json:"menu_date,omitempty"`
	MealType  *string    `json:"meal_type,omitempty"`
}
