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

// SQLTaskRepo implements TaskRepo on any DBTX.
type SQLTaskRepo struct {
	db db.DBTX
}

func NewSQLTaskRepo(q db.DBTX) *SQLTaskRepo {
	return &SQLTaskRepo{db: q}
}

const taskColumns = `id, module_id, project_id, name, description, complexity, status,
	start_date, expected_end_date, actual_end_date, created_at, updated_at`

// taskColumnsT is taskColumns qualified with the "t" alias for joins.
const taskColumnsT = `t.id, t.module_id, t.project_id, t.name, t.description, t.complexity, t.status,
	t.start_date, t.expected_end_date, t.actual_end_date, t.created_at, t.updated_at`

// currentSeq restricts an assignments alias "a" to each task's latest row.
const currentSeq = `a.seq = (SELECT MAX(a2.seq) FROM task_assignments a2 WHERE a2.task_id = a.task_id)`

const countColumns = `COUNT(*),
	COALESCE(SUM(CASE WHEN status = 'new' THEN 1 ELSE 0 END), 0),
	COALESCE(SUM(CASE WHEN status = 'in_progress' THEN 1 ELSE 0 END), 0),
	COALESCE(SUM(CASE WHEN status = 'approved' THEN 1 ELSE 0 END), 0)`

func (r *SQLTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	query := `INSERT INTO tasks (` + taskColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.ModuleID,
		t.ProjectID,
		t.Name,
		t.Description,
		string(t.Complexity),
		string(t.Status),
		t.StartDate.Format(dateLayout),
		nullableTimeToString(t.ExpectedEndDate, dateLayout),
		nullableTimeToString(t.ActualEndDate, time.RFC3339),
		formatTimestamp(t.CreatedAt),
		formatTimestamp(t.UpdatedAt),
	)
	if err != nil {
		return classifyWrite(err, "inserting task")
	}
	return nil
}

func (r *SQLTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err != nil {
		return nil, notFound(err, "task", id)
	}
	return t, nil
}

// ListChildren yields the tasks of a module ordered by id.
func (r *SQLTaskRepo) ListChildren(ctx context.Context, moduleID string) iter.Seq2[*domain.Task, error] {
	return querySeq(ctx, r.db, scanTask, "tasks",
		`SELECT `+taskColumns+` FROM tasks WHERE module_id = ? ORDER BY id`, moduleID)
}

// ListByDeveloper returns the tasks whose current assignment is developerID.
func (r *SQLTaskRepo) ListByDeveloper(ctx context.Context, developerID string) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumnsT + `
		FROM tasks t
		JOIN task_assignments a ON a.task_id = t.id
		WHERE a.developer_id = ? AND ` + currentSeq + `
		ORDER BY t.status, t.id`
	return queryAll(ctx, r.db, scanTask, "developer tasks", query, developerID)
}

// Update writes the descriptive fields. Status and the actual end date only
// change through TransitionStatus.
func (r *SQLTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	query := `UPDATE tasks SET name = ?, description = ?, complexity = ?, start_date = ?, expected_end_date = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		t.Name,
		t.Description,
		string(t.Complexity),
		t.StartDate.Format(dateLayout),
		nullableTimeToString(t.ExpectedEndDate, dateLayout),
		formatTimestamp(t.UpdatedAt),
		t.ID,
	)
	if err != nil {
		return classifyWrite(err, "updating task")
	}
	return expectOne(res, "task", t.ID)
}

// TransitionStatus moves a task from one status to another only if it is
// still in the from status. A concurrent writer that got there first leaves
// nothing to match and the call returns ErrConflict.
func (r *SQLTaskRepo) TransitionStatus(ctx context.Context, id string, from, to domain.TaskStatus, actualEnd *time.Time, at time.Time) error {
	query := `UPDATE tasks SET status = ?, actual_end_date = ?, updated_at = ? WHERE id = ? AND status = ?`
	res, err := r.db.ExecContext(ctx, query,
		string(to),
		nullableTimeToString(actualEnd, time.RFC3339),
		formatTimestamp(at),
		id,
		string(from),
	)
	if err != nil {
		return classifyWrite(err, "updating task status")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("task %s is no longer %s: %w", id, from, ErrConflict)
	}
	return nil
}

func (r *SQLTaskRepo) CountByModule(ctx context.Context, moduleID string) (TaskCounts, error) {
	return r.count(ctx, `SELECT `+countColumns+` FROM tasks WHERE module_id = ?`, moduleID)
}

func (r *SQLTaskRepo) CountByProject(ctx context.Context, projectID string) (TaskCounts, error) {
	return r.count(ctx, `SELECT `+countColumns+` FROM tasks WHERE project_id = ?`, projectID)
}

// CountPerModule returns counts keyed by module id for every module of the
// project, including modules without tasks.
func (r *SQLTaskRepo) CountPerModule(ctx context.Context, projectID string) (map[string]TaskCounts, error) {
	query := `SELECT m.id, COUNT(t.id),
		COALESCE(SUM(CASE WHEN t.status = 'new' THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN t.status = 'in_progress' THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN t.status = 'approved' THEN 1 ELSE 0 END), 0)
		FROM modules m LEFT JOIN tasks t ON t.module_id = m.id
		WHERE m.project_id = ?
		GROUP BY m.id`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("counting tasks per module: %w", err)
	}
	defer rows.Close()

	out := make(map[string]TaskCounts)
	for rows.Next() {
		var id string
		var c TaskCounts
		if err := rows.Scan(&id, &c.Total, &c.New, &c.InProgress, &c.Approved); err != nil {
			return nil, fmt.Errorf("scanning task counts: %w", err)
		}
		out[id] = c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating task counts: %w", err)
	}
	return out, nil
}

func (r *SQLTaskRepo) count(ctx context.Context, query string, arg string) (TaskCounts, error) {
	var c TaskCounts
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(&c.Total, &c.New, &c.InProgress, &c.Approved); err != nil {
		return TaskCounts{}, fmt.Errorf("counting tasks: %w", err)
	}
	return c, nil
}

func (r *SQLTaskRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return classifyWrite(err, "deleting task")
	}
	return expectOne(res, "task", id)
}

func (r *SQLTaskRepo) DeleteByModule(ctx context.Context, moduleID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE module_id = ?`, moduleID); err != nil {
		return classifyWrite(err, "deleting module tasks")
	}
	return nil
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var t domain.Task
	var complexity, status string
	var expectedEnd, actualEnd sql.NullString
	var startDateStr, createdAtStr, updatedAtStr string

	err := row.Scan(
		&t.ID, &t.ModuleID, &t.ProjectID, &t.Name, &t.Description,
		&complexity, &status,
		&startDateStr, &expectedEnd, &actualEnd,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		return nil, err
	}

	t.Complexity = domain.Complexity(complexity)
	t.Status = domain.TaskStatus(status)
	if t.StartDate, err = time.Parse(dateLayout, startDateStr); err != nil {
		return nil, fmt.Errorf("parsing start_date: %w", err)
	}
	if t.CreatedAt, t.UpdatedAt, err = parseTimes(createdAtStr, updatedAtStr); err != nil {
		return nil, err
	}
	t.ExpectedEndDate = parseNullableTime(expectedEnd, dateLayout)
	t.ActualEndDate = parseNullableTime(actualEnd, time.RFC3339)
	return &t, nil
}
