package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/alexanderramin/pmt/internal/db"
)

const dateLayout = "2006-01-02"

var (
	// ErrNotFound is returned when a lookup by id matches no row.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a conditional write matched no row or a
	// write lost a race with a concurrent transaction.
	ErrConflict = errors.New("conflict")
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// notFound maps sql.ErrNoRows to ErrNotFound and wraps everything else.
func notFound(err error, entity, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", entity, id, ErrNotFound)
	}
	return fmt.Errorf("scanning %s: %w", entity, err)
}

// classifyWrite tags lock contention and constraint violations as ErrConflict.
func classifyWrite(err error, action string) error {
	if db.IsBusy(err) || db.IsConstraint(err) {
		return fmt.Errorf("%s: %w: %w", action, ErrConflict, err)
	}
	return fmt.Errorf("%s: %w", action, err)
}

// expectOne returns ErrNotFound when an UPDATE or DELETE by id matched nothing.
func expectOne(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", entity, id, ErrNotFound)
	}
	return nil
}

// parseNullableTime parses a sql.NullString into a *time.Time using the given layout.
// Returns nil if the value is NULL, empty, or fails to parse.
func parseNullableTime(s sql.NullString, layout string) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(layout, s.String)
	if err != nil {
		return nil
	}
	return &t
}

// nullableTimeToString returns nil (SQL NULL) for a nil pointer.
func nullableTimeToString(t *time.Time, layout string) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(layout)
}

// nullableString stores "" as NULL so optional references stay valid.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// parseTimes parses created_at and updated_at columns.
func parseTimes(createdAt, updatedAt string) (time.Time, time.Time, error) {
	c, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parsing created_at: %w", err)
	}
	u, err := time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parsing updated_at: %w", err)
	}
	return c, u, nil
}

// queryAll runs query and scans every row with scan.
func queryAll[T any](ctx context.Context, q db.DBTX, scan func(rowScanner) (T, error), what, query string, args ...any) ([]T, error) {
	return Collect(querySeq(ctx, q, scan, what, query, args...))
}

// querySeq streams rows lazily. The statement stays open until the loop
// ends, so callers on a single-connection transaction must finish iterating
// before issuing the next query.
func querySeq[T any](ctx context.Context, q db.DBTX, scan func(rowScanner) (T, error), what, query string, args ...any) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		rows, err := q.QueryContext(ctx, query, args...)
		if err != nil {
			yield(zero, fmt.Errorf("listing %s: %w", what, err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			v, err := scan(rows)
			if err != nil {
				yield(zero, fmt.Errorf("scanning %s: %w", what, err))
				return
			}
			if !yield(v, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(zero, fmt.Errorf("iterating %s: %w", what, err))
		}
	}
}

// Collect drains a child sequence into a slice.
func Collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	var out []T
	for v, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
