package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/alexanderramin/pmt/internal/db"
	"github.com/alexanderramin/pmt/internal/domain"
)

// SQLUserRepo implements UserRepo on any DBTX.
type SQLUserRepo struct {
	db db.DBTX
}

func NewSQLUserRepo(q db.DBTX) *SQLUserRepo {
	return &SQLUserRepo{db: q}
}

const userColumns = `id, username, full_name, email, role, competency, manager_id, enabled`

func (r *SQLUserRepo) Create(ctx context.Context, u *domain.User) error {
	now := formatTimestamp(time.Now())
	query := `INSERT INTO users (` + userColumns + `, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		u.ID,
		u.Username,
		u.FullName,
		u.Email,
		string(u.Role),
		nullableString(string(u.Competency)),
		nullableString(u.ManagerID),
		boolToInt(u.Enabled),
		now,
		now,
	)
	if err != nil {
		return classifyWrite(err, "inserting user")
	}
	return nil
}

func (r *SQLUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err, "user", id)
	}
	return u, nil
}

func (r *SQLUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE LOWER(username) = LOWER(?)`, username))
	if err != nil {
		return nil, notFound(err, "user", username)
	}
	return u, nil
}

func (r *SQLUserRepo) List(ctx context.Context) ([]*domain.User, error) {
	return queryAll(ctx, r.db, scanUser, "users", `SELECT `+userColumns+` FROM users ORDER BY role, username`)
}

// ListDevelopers returns developer users ordered by id. An empty managerID
// means every manager.
func (r *SQLUserRepo) ListDevelopers(ctx context.Context, managerID string, enabledOnly bool) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role = 'developer'`
	var args []any
	if managerID != "" {
		query += ` AND manager_id = ?`
		args = append(args, managerID)
	}
	if enabledOnly {
		query += ` AND enabled = 1`
	}
	query += ` ORDER BY id`
	return queryAll(ctx, r.db, scanUser, "developers", query, args...)
}

func (r *SQLUserRepo) Update(ctx context.Context, u *domain.User) error {
	query := `UPDATE users SET username = ?, full_name = ?, email = ?, role = ?, competency = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		u.Username,
		u.FullName,
		u.Email,
		string(u.Role),
		nullableString(string(u.Competency)),
		formatTimestamp(time.Now()),
		u.ID,
	)
	if err != nil {
		return classifyWrite(err, "updating user")
	}
	return expectOne(res, "user", u.ID)
}

func (r *SQLUserRepo) SetEnabled(ctx context.Context, id string, enabled bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET enabled = ?, updated_at = ? WHERE id = ?`,
		boolToInt(enabled), formatTimestamp(time.Now()), id)
	if err != nil {
		return classifyWrite(err, "updating user enabled flag")
	}
	return expectOne(res, "user", id)
}

// SetManager links a user to a manager; an empty managerID clears the link.
func (r *SQLUserRepo) SetManager(ctx context.Context, id, managerID string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET manager_id = ?, updated_at = ? WHERE id = ?`,
		nullableString(managerID), formatTimestamp(time.Now()), id)
	if err != nil {
		return classifyWrite(err, "updating user manager")
	}
	return expectOne(res, "user", id)
}

func (r *SQLUserRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return classifyWrite(err, "deleting user")
	}
	return expectOne(res, "user", id)
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	var role string
	var competency, managerID sql.NullString
	var enabled int
	if err := row.Scan(&u.ID, &u.Username, &u.FullName, &u.Email, &role, &competency, &managerID, &enabled); err != nil {
		return nil, err
	}
	u.Role = domain.Role(role)
	u.Competency = domain.CompetencyLevel(competency.String)
	u.ManagerID = managerID.String
	u.Enabled = enabled != 0
	return &u, nil
}
