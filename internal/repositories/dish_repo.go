package repositories

import (
	"context"
	"errors"
	"fmt"

	"cantina/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type DishRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Dish, error)
	List(ctx context.Context, filter *models.DishFilter) ([]*models.Dish, error)
	ListCategories(ctx context.Context) ([]*models.DishCategory, error)
}

type dishRepo struct {
	db DBTX
}

func NewDishRepo(db DBTX) DishRepository {
	return &dishRepo{db: db}
}

func (r *dishRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Dish, error) {
	dish := &models.Dish{}
	query := `
		SELECT d.id, d.name, d.category_id, d.canteen_id, d.price, d.image_url, d.description, d.status, d.created_at, d.updated_at,
		       COALESCE(dc.name, '')
		FROM dishes d
		LEFT JOIN dish_categories dc ON d.category_id = dc.id
		WHERE d.id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&dish.ID, &dish.Name, &dish.CategoryID, &dish.CanteenID, &dish.Price, &dish.ImageURL, &dish.Description, &dish.Status, &dish.CreatedAt, &dish.UpdatedAt,
		&dish.CategoryName,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return dish, nil
}

func (r *dishRepo) List(ctx context.Context, filter *models.DishFilter) ([]*models.Dish, error) {
	query := `
		SELECT d.id, d.name, d.category_id, d.canteen_id, d.price, d.image_url, d.description, d.status, d.created_at, d.updated_at,
		       COALESCE(dc.name, '')
		FROM dishes d
		LEFT JOIN dish_categories dc ON d.category_id = dc.id
		WHERE 1=1
	`
	var args []any
	if filter != nil {
		if filter.CanteenID != nil {
			args = append(args, *filter.CanteenID)
			query += fmt.Sprintf(` AND d.canteen_id = $%d`, len(args))
		}
		if filter.CategoryID != nil {
			args = append(args, *filter.CategoryID)
			query += fmt.Sprintf(` AND d.category_id = $%d`, len(args))
		}
		if filter.Status != nil {
			args = append(args, *filter.Status)
			query += fmt.Sprintf(` AND d.status = $%d`, len(args))
		}
	}
	query += ` ORDER BY d.name`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dishes []*models.Dish
	for rows.Next() {
		dish := &models.Dish{}
		if err := rows.Scan(
			&dish.ID, &dish.Name, &dish.CategoryID, &dish.CanteenID, &dish.Price, &dish.ImageURL, &dish.Description, &dish.Status, &dish.CreatedAt, &dish.UpdatedAt,
			&dish.CategoryName,
		); err != nil {
			return nil, err
		}
		dishes = append(dishes, dish)
	}
	return dishes, rows.Err()
}

func (r *dishRepo) ListCategories(ctx context.Context) ([]*models.DishCategory, error) {
	query := `
		SELECT id, name, sort_order, created_at
		FROM dish_categories
		ORDER BY sort_order, name
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*models.DishCategory
	for rows.Next() {
		category := &models.DishCategory{}
		if err := rows.Scan(&category.ID, &category.Name, &category.SortOrder, &category.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}
