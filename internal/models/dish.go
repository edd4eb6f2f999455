package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	DishStatusActive   = "active"
	DishStatusInactive = "inactive"
)

type Dish struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	CategoryID  *uuid.UUID `json:"category_id" db:"category_id"`
	CanteenID   uuid.UUID  `json:"canteen_id" db:"canteen_id"`
	Price       float64    `json:"price" db:"price"`
	ImageURL    *string    `json:"image_url" db:"image_url"`
	Description *string    `json:"description" db:"description"`
	Status      string     `json:"status" db:"status"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`

	CategoryName string `json:"category_name,omitempty" db:"-"`
}

type DishCategory struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	SortOrder int       `json:"sort_order" db:"sort_order"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// DishFilter holds the optional filters for dish listings.
type DishFilter struct {
	CanteenID  *uuid.UUID `json:"canteen_id,omitempty"`
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
	Status     *string    `json:"status,omitempty"`
}
