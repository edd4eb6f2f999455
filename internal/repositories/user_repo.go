package repositories

import (
	"context"
	"errors"

	"cantina/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmployeeID(ctx context.Context, employeeID string) (*models.User, error)
}

type userRepo struct {
	db DBTX
}

func NewUserRepo(db DBTX) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, employee_id, full_name, password_hash, role, department, is_active, created_at, updated_at
		FROM users
		WHERE id = $1 AND is_active
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&user.ID, &user.EmployeeID, &user.FullName, &user.PasswordHash, &user.Role, &user.Department, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepo) GetByEmployeeID(ctx context.Context, employeeID string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, employee_id, full_name, password_hash, role, department, is_active, created_at, updated_at
		FROM users
		WHERE employee_id = $1 AND is_active
	`
	err := r.db.QueryRow(ctx, query, employeeID).Scan(&user.ID, &user.EmployeeID, &user.FullName, &user.PasswordHash, &user.Role, &user.Department, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
