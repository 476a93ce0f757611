package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/pmt/internal/db"
	"github.com/alexanderramin/pmt/internal/domain"
)

// SQLProjectRepo implements ProjectRepo on any DBTX.
type SQLProjectRepo struct {
	db db.DBTX
}

func NewSQLProjectRepo(q db.DBTX) *SQLProjectRepo {
	return &SQLProjectRepo{db: q}
}

const projectColumns = `id, name, description, manager_id, start_date, expected_end_date, actual_end_date, created_at, updated_at`

func (r *SQLProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	query := `INSERT INTO projects (` + projectColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Name,
		p.Description,
		nullableString(p.ManagerID),
		p.StartDate.Format(dateLayout),
		nullableTimeToString(p.ExpectedEndDate, dateLayout),
		nullableTimeToString(p.ActualEndDate, time.RFC3339),
		formatTimestamp(p.CreatedAt),
		formatTimestamp(p.UpdatedAt),
	)
	if err != nil {
		return classifyWrite(err, "inserting project")
	}
	return nil
}

func (r *SQLProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if err != nil {
		return nil, notFound(err, "project", id)
	}
	return p, nil
}

func (r *SQLProjectRepo) List(ctx context.Context) ([]*domain.Project, error) {
	return queryAll(ctx, r.db, scanProject, "projects",
		`SELECT `+projectColumns+` FROM projects ORDER BY start_date, name, id`)
}

func (r *SQLProjectRepo) ListByManager(ctx context.Context, managerID string) ([]*domain.Project, error) {
	return queryAll(ctx, r.db, scanProject, "projects",
		`SELECT `+projectColumns+` FROM projects WHERE manager_id = ? ORDER BY start_date, name, id`, managerID)
}

// Update writes the manager-editable fields. The actual end date is owned
// by completion tracking and is not touched here.
func (r *SQLProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	query := `UPDATE projects SET name = ?, description = ?, manager_id = ?, start_date = ?, expected_end_date = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		p.Name,
		p.Description,
		nullableString(p.ManagerID),
		p.StartDate.Format(dateLayout),
		nullableTimeToString(p.ExpectedEndDate, dateLayout),
		formatTimestamp(p.UpdatedAt),
		p.ID,
	)
	if err != nil {
		return classifyWrite(err, "updating project")
	}
	return expectOne(res, "project", p.ID)
}

func (r *SQLProjectRepo) SetActualEnd(ctx context.Context, id string, end *time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE projects SET actual_end_date = ?, updated_at = ? WHERE id = ?`,
		nullableTimeToString(end, time.RFC3339), formatTimestamp(time.Now()), id)
	if err != nil {
		return classifyWrite(err, "setting project end date")
	}
	return expectOne(res, "project", id)
}

func (r *SQLProjectRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return classifyWrite(err, "deleting project")
	}
	return expectOne(res, "project", id)
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var p domain.Project
	var managerID, expectedEnd, actualEnd sql.NullString
	var startDateStr, createdAtStr, updatedAtStr string

	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &managerID,
		&startDateStr, &expectedEnd, &actualEnd,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		return nil, err
	}

	p.ManagerID = managerID.String
	if p.StartDate, err = time.Parse(dateLayout, startDateStr); err != nil {
		return nil, fmt.Errorf("parsing start_date: %w", err)
	}
	if p.CreatedAt, p.UpdatedAt, err = parseTimes(createdAtStr, updatedAtStr); err != nil {
		return nil, err
	}
	p.ExpectedEndDate = parseNullableTime(expectedEnd, dateLayout)
	p.ActualEndDate = parseNullableTime(actualEnd, time.RFC3339)
	return &p, nil
}
