package repository

import (
	"context"
	"database/sql"
	"fmt"
	"iter"
	"time"

	"github.com/alexanderramin/pmt/internal/db"
	"github.com/alexanderramin/pmt/internal/domain"
)

// SQLModuleRepo implements ModuleRepo on any DBTX.
type SQLModuleRepo struct {
	db db.DBTX
}

func NewSQLModuleRepo(q db.DBTX) *SQLModuleRepo {
	return &SQLModuleRepo{db: q}
}

const moduleColumns = `id, project_id, name, description, start_date, expected_end_date, actual_end_date, created_at, updated_at`

func (r *SQLModuleRepo) Create(ctx context.Context, m *domain.Module) error {
	query := `INSERT INTO modules (` + moduleColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		m.ID,
		m.ProjectID,
		m.Name,
		m.Description,
		m.StartDate.Format(dateLayout),
		nullableTimeToString(m.ExpectedEndDate, dateLayout),
		nullableTimeToString(m.ActualEndDate, time.RFC3339),
		formatTimestamp(m.CreatedAt),
		formatTimestamp(m.UpdatedAt),
	)
	if err != nil {
		return classifyWrite(err, "inserting module")
	}
	return nil
}

func (r *SQLModuleRepo) GetByID(ctx context.Context, id string) (*domain.Module, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+moduleColumns+` FROM modules WHERE id = ?`, id)
	m, err := scanModule(row)
	if err != nil {
		return nil, notFound(err, "module", id)
	}
	return m, nil
}

// ListChildren yields the modules of a project ordered by id.
func (r *SQLModuleRepo) ListChildren(ctx context.Context, projectID string) iter.Seq2[*domain.Module, error] {
	return querySeq(ctx, r.db, scanModule, "modules",
		`SELECT `+moduleColumns+` FROM modules WHERE project_id = ? ORDER BY id`, projectID)
}

func (r *SQLModuleRepo) Update(ctx context.Context, m *domain.Module) error {
	query := `UPDATE modules SET name = ?, description = ?, start_date = ?, expected_end_date = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		m.Name,
		m.Description,
		m.StartDate.Format(dateLayout),
		nullableTimeToString(m.ExpectedEndDate, dateLayout),
		formatTimestamp(m.UpdatedAt),
		m.ID,
	)
	if err != nil {
		return classifyWrite(err, "updating module")
	}
	return expectOne(res, "module", m.ID)
}

func (r *SQLModuleRepo) SetActualEnd(ctx context.Context, id string, end *time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE modules SET actual_end_date = ?, updated_at = ? WHERE id = ?`,
		nullableTimeToString(end, time.RFC3339), formatTimestamp(time.Now()), id)
	if err != nil {
		return classifyWrite(err, "setting module end date")
	}
	return expectOne(res, "module", id)
}

func (r *SQLModuleRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM modules WHERE id = ?`, id)
	if err != nil {
		return classifyWrite(err, "deleting module")
	}
	return expectOne(res, "module", id)
}

func scanModule(row rowScanner) (*domain.Module, error) {
	var m domain.Module
	var expectedEnd, actualEnd sql.NullString
	var startDateStr, createdAtStr, updatedAtStr string

	err := row.Scan(
		&m.ID, &m.ProjectID, &m.Name, &m.Description,
		&startDateStr, &expectedEnd, &actualEnd,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		return nil, err
	}

	if m.StartDate, err = time.Parse(dateLayout, startDateStr); err != nil {
		return nil, fmt.Errorf("parsing start_date: %w", err)
	}
	if m.CreatedAt, m.UpdatedAt, err = parseTimes(createdAtStr, updatedAtStr); err != nil {
		return nil, err
	}
	m.ExpectedEndDate = parseNullableTime(expectedEnd, dateLayout)
	m.ActualEndDate = parseNullableTime(actualEnd, time.RFC3339)
	return &m, nil
}
