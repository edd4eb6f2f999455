package repositories

import (
	"context"
	"errors"
	"fmt"

	"cantina/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type MenuRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Menu, error)
	List(ctx context.Context, filter *models.MenuFilter) ([]*models.Menu, error)
	ListItems(ctx context.Context, menuID uuid.UUID) ([]*models.MenuItem, error)
	GetItemByID(ctx context.Context, itemID uuid.UUID) (*models.MenuItem, error)
	GetItemForOrder(ctx context.Context, menuID, dishID uuid.UUID) (*models.MenuItem, error)
}

type menuRepo struct {
	db DBTX
}

func NewMenuRepo(db DBTX) MenuRepository {
	return &menuRepo{db: db}
}

func (r *menuRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Menu, error) {
	menu := &models.Menu{}
	query := `
		SELECT m.id, m.canteen_id, m.menu_date, m.meal_type, m.status, m.created_at, m.updated_at, c.name
		FROM menus m
		LEFT JOIN canteens c ON m.canteen_id = c.id
		WHERE m.id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&menu.ID, &menu.CanteenID, &menu.MenuDate, &menu.MealType, &menu.Status, &menu.CreatedAt, &menu.UpdatedAt, &menu.CanteenName,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return menu, nil
}

func (r *menuRepo) List(ctx context.Context, filter *models.MenuFilter) ([]*models.Menu, error) {
	query := `
		SELECT m.id, m.canteen_id, m.menu_date, m.meal_type, m.status, m.created_at, m.updated_at, c.name
		FROM menus m
		LEFT JOIN canteens c ON m.canteen_id = c.id
		WHERE 1=1
	`
	var args []any
	if filter != nil {
		if filter.CanteenID != nil {
			args = append(args, *filter.CanteenID)
			query += fmt.Sprintf(` AND m.canteen_id = $%d`, len(args))
		}
		if filter.MenuDate != nil {
			args = append(args, *filter.MenuDate)
			query += fmt.Sprintf(` AND m.menu_date = $%d`, len(args))
		}
		if filter.MealType != nil {
			args = append(args, *filter.MealType)
			query += fmt.Sprintf(` AND m.meal_type = $%d`, len(args))
		}
	}
	query += ` ORDER BY m.menu_date DESC, m.meal_type`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var menus []*models.Menu
	for rows.Next() {
		menu := &models.Menu{}
		if err := rows.Scan(&menu.ID, &menu.CanteenID, &menu.MenuDate, &menu.MealType, &menu.Status, &menu.CreatedAt, &menu.UpdatedAt, &menu.CanteenName); err != nil {
			return nil, err
		}
		menus = append(menus, menu)
	}
	return menus, rows.Err()
}

func (r *menuRepo) ListItems(ctx context.Context, menuID uuid.UUID) ([]*models.MenuItem, error) {
	query := `
		SELECT mi.id, mi.menu_id, mi.dish_id, mi.quantity, mi.available_quantity, mi.created_at, mi.updated_at,
		       d.name, d.price
		FROM menu_items mi
		LEFT JOIN dishes d ON mi.dish_id = d.id
		WHERE mi.menu_id = $1
		ORDER BY d.name
	`
	rows, err := r.db.Query(ctx, query, menuID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.MenuItem
	for rows.Next() {
		item := &models.MenuItem{}
		if err := rows.Scan(&item.ID, &item.MenuID, &item.DishID, &item.Quantity, &item.AvailableQuantity, &item.CreatedAt, &item.UpdatedAt, &item.DishName, &item.DishPrice); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *menuRepo) GetItemByID(ctx context.Context, itemID uuid.UUID) (*models.MenuItem, error) {
	item := &models.MenuItem{}
	query := `
		SELECT mi.id, mi.menu_id, mi.dish_id, mi.quantity, mi.available_quantity, mi.created_at, mi.updated_at,
		       d.name, d.price
		FROM menu_items mi
		LEFT JOIN dishes d ON mi.dish_id = d.id
		WHERE mi.id = $1
	`
	err := r.db.QueryRow(ctx, query, itemID).Scan(
		&item.ID, &item.MenuID, &item.DishID, &item.Quantity, &item.AvailableQuantity, &item.CreatedAt, &item.UpdatedAt, &item.DishName, &item.DishPrice,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// GetItemForOrder resolves one requested order line against the menu,
// pulling the dish name and price used for the line item snapshot.
func (r *menuRepo) GetItemForOrder(ctx context.Context, menuID, dishID uuid.UUID) (*models.MenuItem, error) {
	item := &models.MenuItem{}
	query := `
		SELECT mi.id, mi.menu_id, mi.dish_id, mi.quantity, mi.available_quantity, mi.created_at, mi.updated_at,
		       d.name, d.price
		FROM menu_items mi
		LEFT JOIN dishes d ON mi.dish_id = d.id
		WHERE mi.menu_id = $1 AND mi.dish_id = $2
	`
	err := r.db.QueryRow(ctx, query, menuID, dishID).Scan(
		&item.ID, &item.MenuID, &item.DishID, &item.Quantity, &item.AvailableQuantity, &item.CreatedAt, &item.UpdatedAt, &item.DishName, &item.DishPrice,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}
