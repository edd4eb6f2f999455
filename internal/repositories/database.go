package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the query surface repositories run against. It is satisfied by
// *pgxpool.Pool, pgx.Tx and pgxmock, so the same repository code serves
// plain reads, transactional workflows and tests.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Storage-level sentinels. The service layer translates these into
// client-facing business errors.
var (
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrShrinkBelowReserved = errors.New("new quantity below reserved amount")
	ErrMenuItemNotFound    = errors.New("menu item not found")
)
