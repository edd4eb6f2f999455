package models

import (
	"time"

	"github.com/google/uuid"
)

// User roles. Role gating happens in the HTTP middleware; the core order
// services only ever see a resolved user ID.
const (
	RoleEmployee     = "employee"
	RoleCanteenStaff = "canteen_staff"
	RoleAdmin        = "admin"
)

type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	EmployeeID   string    `json:"employee_id" db:"employee_id"`
	FullName     string    `json:"full_name" db:"full_name"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	Department   *string   `json:"department" db:"department"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
