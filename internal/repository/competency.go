package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/pmt/internal/db"
	"github.com/alexanderramin/pmt/internal/domain"
)

// SQLCompetencyRepo persists the competency matrix, one row per level.
type SQLCompetencyRepo struct {
	db db.DBTX
}

func NewSQLCompetencyRepo(q db.DBTX) *SQLCompetencyRepo {
	return &SQLCompetencyRepo{db: q}
}

// Get returns the stored matrix with missing levels taken from
// domain.DefaultCompetencyMatrix.
func (r *SQLCompetencyRepo) Get(ctx context.Context) (domain.CompetencyMatrix, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT level, low, medium, high FROM competency_matrix`)
	if err != nil {
		return nil, fmt.Errorf("loading competency matrix: %w", err)
	}
	defer rows.Close()

	stored := make(domain.CompetencyMatrix)
	for rows.Next() {
		var level string
		var w domain.Weights
		if err := rows.Scan(&level, &w.Low, &w.Medium, &w.High); err != nil {
			return nil, fmt.Errorf("scanning competency row: %w", err)
		}
		stored[domain.CompetencyLevel(level)] = w
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating competency matrix: %w", err)
	}
	return stored.WithDefaults(), nil
}

// Upsert writes one level. It tries UPDATE first so the same statement pair
// works on every driver.
func (r *SQLCompetencyRepo) Upsert(ctx context.Context, level domain.CompetencyLevel, w domain.Weights) error {
	now := formatTimestamp(time.Now())
	res, err := r.db.ExecContext(ctx,
		`UPDATE competency_matrix SET low = ?, medium = ?, high = ?, updated_at = ? WHERE level = ?`,
		w.Low, w.Medium, w.High, now, string(level))
	if err != nil {
		return classifyWrite(err, "updating competency matrix")
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	} else if n > 0 {
		return nil
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO competency_matrix (level, low, medium, high, updated_at) VALUES (?, ?, ?, ?, ?)`,
		string(level), w.Low, w.Medium, w.High, now)
	if err != nil {
		return classifyWrite(err, "inserting competency matrix")
	}
	return nil
}
