package repositories

import (
	"context"
	"errors"

	"cantina/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CanteenRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Canteen, error)
	List(ctx context.Context, status *string) ([]*models.Canteen, error)
	ListActiveIDs(ctx context.Context) ([]uuid.UUID, error)
}

type canteenRepo struct {
	db DBTX
}

func NewCanteenRepo(db DBTX) CanteenRepository {
	return &canteenRepo{db: db}
}

func (r *canteenRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Canteen, error) {
	canteen := &models.Canteen{}
	query := `
		SELECT id, name, address, phone, status, created_at, updated_at
		FROM canteens
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&canteen.ID, &canteen.Name, &canteen.Address, &canteen.Phone, &canteen.Status, &canteen.CreatedAt, &canteen.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return canteen, nil
}

func (r *canteenRepo) List(ctx context.Context, status *string) ([]*models.Canteen, error) {
	query := `
		SELECT id, name, address, phone, status, created_at, updated_at
		FROM canteens
	`
	var args []any
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY name`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var canteens []*models.Canteen
	for rows.Next() {
		canteen := &models.Canteen{}
		if err := rows.Scan(&canteen.ID, &canteen.Name, &canteen.Address, &canteen.Phone, &canteen.Status, &canteen.CreatedAt, &canteen.UpdatedAt); err != nil {
			return nil, err
		}
		canteens = append(canteens, canteen)
	}
	return canteens, rows.Err()
}

// ListActiveIDs feeds the report exporter, which walks every active
// canteen once per day.
func (r *canteenRepo) ListActiveIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM canteens WHERE status = 'active' ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
