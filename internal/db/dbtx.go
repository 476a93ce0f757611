package db

import (
	"context"
	"database/sql"
)

// DBTX is what repositories run queries against: a pooled *sql.DB for
// single statements or a *sql.Tx inside UnitOfWork.WithinTx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)
