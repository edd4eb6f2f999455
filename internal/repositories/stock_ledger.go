package repositories

import (
	"context"

	"github.com/google/uuid"
)

// StockLedger performs the stock bookkeeping on menu_items. Every mutation
// is a single guarded UPDATE so concurrent reservations against the same
// row can never both pass a stale availability check.
type StockLedger interface {
	Reserve(ctx context.Context, menuItemID uuid.UUID, qty int) error
	Release(ctx context.Context, menuItemID uuid.UUID, qty int) error
	Resize(ctx context.Context, menuItemID uuid.UUID, newQuantity int) error
}

type stockLedger struct {
	db DBTX
}

func NewStockLedger(db DBTX) StockLedger {
	return &stockLedger{db: db}
}

// Reserve decrements available_quantity by qty iff enough stock remains.
// The availability check and the decrement are one statement; zero rows
// affected means the row is missing or the stock has run out.
func (l *stockLedger) Reserve(ctx context.Context, menuItemID uuid.UUID, qty int) error {
	query := `
		UPDATE menu_items
		SET available_quantity = available_quantity - $1, updated_at = NOW()
		WHERE id = $2 AND available_quantity >= $1
	`
	tag, err := l.db.Exec(ctx, query, qty, menuItemID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInsufficientStock
	}
	return nil
}

// Release returns qty units to the pool, clamped at the published
// quantity. A correct caller never releases more than it reserved; the
// clamp keeps the ledger invariant intact even if one does.
func (l *stockLedger) Release(ctx context.Context, menuItemID uuid.UUID, qty int) error {
	query := `
		UPDATE menu_items
		SET available_quantity = LEAST(available_quantity + $1, quantity), updated_at = NOW()
		WHERE id = $2
	`
	tag, err := l.db.Exec(ctx, query, qty, menuItemID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrMenuItemNotFound
	}
	return nil
}

// Resize changes the published quantity, recomputing availability as
// newQuantity minus what is already reserved. Shrinking below the
// reserved amount is refused in the statement's guard.
func (l *stockLedger) Resize(ctx context.Context, menuItemID uuid.UUID, newQuantity int) error {
	query := `
		UPDATE menu_items
		SET available_quantity = $1 - (quantity - available_quantity),
		    quantity = $1,
		    updated_at = NOW()
		WHERE id = $2 AND $1 >= (quantity - available_quantity)
	`
	tag, err := l.db.Exec(ctx, query, newQuantity, menuItemID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		exists, err := l.menuItemExists(ctx, menuItemID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrMenuItemNotFound
		}
		return ErrShrinkBelowReserved
	}
	return nil
}

func (l *stockLedger) menuItemExists(ctx context.Context, menuItemID uuid.UUID) (bool, error) {
	var exists bool
	err := l.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM menu_items WHERE id = $1)`, menuItemID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}
