package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/pmt/internal/db"
	"github.com/alexanderramin/pmt/internal/domain"
)

// SQLAssignmentRepo implements AssignmentRepo. Rows are append-only; the
// highest seq per task is the current assignment.
type SQLAssignmentRepo struct {
	db db.DBTX
}

func NewSQLAssignmentRepo(q db.DBTX) *SQLAssignmentRepo {
	return &SQLAssignmentRepo{db: q}
}

// Append inserts a history row. Two writers appending the same seq collide
// on the primary key and the loser gets ErrConflict.
func (r *SQLAssignmentRepo) Append(ctx context.Context, a *domain.TaskAssignment) error {
	query := `INSERT INTO task_assignments (task_id, seq, developer_id, assigned_at) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, a.TaskID, a.Seq, a.DeveloperID, formatTimestamp(a.AssignedAt))
	if err != nil {
		return classifyWrite(err, "inserting task assignment")
	}
	return nil
}

func (r *SQLAssignmentRepo) Current(ctx context.Context, taskID string) (*domain.TaskAssignment, error) {
	query := `SELECT task_id, seq, developer_id, assigned_at FROM task_assignments
		WHERE task_id = ? ORDER BY seq DESC LIMIT 1`
	a, err := scanAssignment(r.db.QueryRowContext(ctx, query, taskID))
	if err != nil {
		return nil, notFound(err, "assignment for task", taskID)
	}
	return &a, nil
}

// CurrentForProject returns the current assignment of every assigned task in
// the project, keyed by task id.
func (r *SQLAssignmentRepo) CurrentForProject(ctx context.Context, projectID string) (map[string]domain.TaskAssignment, error) {
	query := `SELECT a.task_id, a.seq, a.developer_id, a.assigned_at
		FROM task_assignments a
		JOIN tasks t ON t.id = a.task_id
		WHERE t.project_id = ? AND ` + currentSeq
	list, err := queryAll(ctx, r.db, scanAssignment, "project assignments", query, projectID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]domain.TaskAssignment, len(list))
	for _, a := range list {
		out[a.TaskID] = a
	}
	return out, nil
}

func (r *SQLAssignmentRepo) History(ctx context.Context, taskID string) ([]domain.TaskAssignment, error) {
	return queryAll(ctx, r.db, scanAssignment, "assignment history",
		`SELECT task_id, seq, developer_id, assigned_at FROM task_assignments WHERE task_id = ? ORDER BY seq`, taskID)
}

// OpenTaskCounts returns, per developer, the number of tasks currently
// assigned to them that are not yet approved. Developers with no open
// tasks are absent from the map.
func (r *SQLAssignmentRepo) OpenTaskCounts(ctx context.Context) (map[string]int, error) {
	query := `SELECT a.developer_id, COUNT(*)
		FROM task_assignments a
		JOIN tasks t ON t.id = a.task_id
		WHERE t.status <> 'approved' AND ` + currentSeq + `
		GROUP BY a.developer_id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("counting open tasks: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var devID string
		var n int
		if err := rows.Scan(&devID, &n); err != nil {
			return nil, fmt.Errorf("scanning open task count: %w", err)
		}
		counts[devID] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating open task counts: %w", err)
	}
	return counts, nil
}

// CountByDeveloper counts every assignment row naming the developer,
// current or historical.
func (r *SQLAssignmentRepo) CountByDeveloper(ctx context.Context, developerID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM task_assignments WHERE developer_id = ?`, developerID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting developer assignments: %w", err)
	}
	return n, nil
}

// ListByManager returns current assignments on projects the manager owns.
func (r *SQLAssignmentRepo) ListByManager(ctx context.Context, managerID string) ([]AssignmentView, error) {
	query := `SELECT a.task_id, a.seq, a.developer_id, a.assigned_at,
			t.name, t.status, t.complexity, t.module_id, p.id, p.name, u.username
		FROM task_assignments a
		JOIN tasks t ON t.id = a.task_id
		JOIN projects p ON p.id = t.project_id
		JOIN users u ON u.id = a.developer_id
		WHERE p.manager_id = ? AND ` + currentSeq + `
		ORDER BY p.name, t.status, a.assigned_at, a.task_id`
	return queryAll(ctx, r.db, scanAssignmentView, "manager assignments", query, managerID)
}

func (r *SQLAssignmentRepo) DeleteByTask(ctx context.Context, taskID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM task_assignments WHERE task_id = ?`, taskID); err != nil {
		return classifyWrite(err, "deleting task assignments")
	}
	return nil
}

func (r *SQLAssignmentRepo) DeleteByModule(ctx context.Context, moduleID string) error {
	query := `DELETE FROM task_assignments WHERE task_id IN (SELECT id FROM tasks WHERE module_id = ?)`
	if _, err := r.db.ExecContext(ctx, query, moduleID); err != nil {
		return classifyWrite(err, "deleting module assignments")
	}
	return nil
}

func scanAssignment(row rowScanner) (domain.TaskAssignment, error) {
	var a domain.TaskAssignment
	var assignedAt string
	if err := row.Scan(&a.TaskID, &a.Seq, &a.DeveloperID, &assignedAt); err != nil {
		return domain.TaskAssignment{}, err
	}
	t, err := time.Parse(time.RFC3339, assignedAt)
	if err != nil {
		return domain.TaskAssignment{}, fmt.Errorf("parsing assigned_at: %w", err)
	}
	a.AssignedAt = t
	return a, nil
}

func scanAssignmentView(row rowScanner) (AssignmentView, error) {
	var v AssignmentView
	var assignedAt, status, complexity string
	err := row.Scan(
		&v.Assignment.TaskID, &v.Assignment.Seq, &v.Assignment.DeveloperID, &assignedAt,
		&v.TaskName, &status, &complexity, &v.ModuleID, &v.ProjectID, &v.ProjectName, &v.DeveloperUsername,
	)
	if err != nil {
		return AssignmentView{}, err
	}
	t, err := time.Parse(time.RFC3339, assignedAt)
	if err != nil {
		return AssignmentView{}, fmt.Errorf("parsing assigned_at: %w", err)
	}
	v.Assignment.AssignedAt = t
	v.TaskStatus = domain.TaskStatus(status)
	v.TaskComplexity = domain.Complexity(complexity)
	return v, nil
}
