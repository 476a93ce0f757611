package db

import (
	"database/sql"
	"fmt"
)

// Migrate applies the schema for the given driver. Every statement is
// idempotent, so Migrate runs on each open.
func Migrate(db *sql.DB, driver string) error {
	stmts, err := migrationsFor(driver)
	if err != nil {
		return err
	}
	for i, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

func migrationsFor(driver string) ([]string, error) {
	switch driver {
	case "", DriverSQLite:
		return sqliteMigrations, nil
	case DriverMySQL:
		return mysqlMigrations, nil
	}
	return nil, fmt.Errorf("no migrations for driver %q", driver)
}

// Dates are stored as "2006-01-02" text and timestamps as RFC3339 text on
// both drivers so repositories share one encoding.
var sqliteMigrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id          TEXT PRIMARY KEY,
		username    TEXT NOT NULL UNIQUE,
		full_name   TEXT NOT NULL DEFAULT '',
		email       TEXT NOT NULL DEFAULT '',
		role        TEXT NOT NULL CHECK(role IN ('client','developer','manager','administrator')),
		competency  TEXT CHECK(competency IS NULL OR competency IN ('low','medium','high')),
		manager_id  TEXT REFERENCES users(id) ON DELETE SET NULL,
		enabled     INTEGER NOT NULL DEFAULT 1,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS projects (
		id                 TEXT PRIMARY KEY,
		name               TEXT NOT NULL,
		description        TEXT NOT NULL DEFAULT '',
		manager_id         TEXT REFERENCES users(id) ON DELETE SET NULL,
		start_date         TEXT NOT NULL,
		expected_end_date  TEXT,
		actual_end_date    TEXT,
		created_at         TEXT NOT NULL,
		updated_at         TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS modules (
		id                 TEXT PRIMARY KEY,
		project_id         TEXT NOT NULL REFERENCES projects(id),
		name               TEXT NOT NULL,
		description        TEXT NOT NULL DEFAULT '',
		start_date         TEXT NOT NULL,
		expected_end_date  TEXT,
		actual_end_date    TEXT,
		created_at         TEXT NOT NULL,
		updated_at         TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id                 TEXT PRIMARY KEY,
		module_id          TEXT NOT NULL REFERENCES modules(id),
		project_id         TEXT NOT NULL REFERENCES projects(id),
		name               TEXT NOT NULL,
		description        TEXT NOT NULL DEFAULT '',
		complexity         TEXT NOT NULL CHECK(complexity IN ('low','medium','high')),
		status             TEXT NOT NULL DEFAULT 'new'
		                   CHECK(status IN ('new','in_progress','approved')),
		start_date         TEXT NOT NULL,
		expected_end_date  TEXT,
		actual_end_date    TEXT,
		created_at         TEXT NOT NULL,
		updated_at         TEXT NOT NULL,
		CHECK((status = 'approved') = (actual_end_date IS NOT NULL))
	)`,

	`CREATE TABLE IF NOT EXISTS task_assignments (
		task_id       TEXT NOT NULL REFERENCES tasks(id),
		seq           INTEGER NOT NULL,
		developer_id  TEXT NOT NULL REFERENCES users(id),
		assigned_at   TEXT NOT NULL,
		PRIMARY KEY (task_id, seq)
	)`,

	`CREATE TABLE IF NOT EXISTS competency_matrix (
		level       TEXT PRIMARY KEY CHECK(level IN ('low','medium','high')),
		low         REAL NOT NULL,
		medium      REAL NOT NULL,
		high        REAL NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_users_manager ON users(manager_id)`,
	`CREATE INDEX IF NOT EXISTS idx_projects_manager ON projects(manager_id)`,
	`CREATE INDEX IF NOT EXISTS idx_modules_project ON modules(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_module ON tasks(module_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status)`,
	`CREATE INDEX IF NOT EXISTS idx_assignments_developer ON task_assignments(developer_id)`,
}

// MySQL has no CREATE INDEX IF NOT EXISTS, so indexes are declared inline.
var mysqlMigrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id          VARCHAR(36) PRIMARY KEY,
		username    VARCHAR(191) NOT NULL UNIQUE,
		full_name   VARCHAR(255) NOT NULL DEFAULT '',
		email       VARCHAR(255) NOT NULL DEFAULT '',
		role        VARCHAR(16) NOT NULL CHECK(role IN ('client','developer','manager','administrator')),
		competency  VARCHAR(8) NULL CHECK(competency IS NULL OR competency IN ('low','medium','high')),
		manager_id  VARCHAR(36) NULL,
		enabled     TINYINT NOT NULL DEFAULT 1,
		created_at  VARCHAR(40) NOT NULL,
		updated_at  VARCHAR(40) NOT NULL,
		KEY idx_users_manager (manager_id),
		CONSTRAINT fk_users_manager FOREIGN KEY (manager_id) REFERENCES users(id) ON DELETE SET NULL
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS projects (
		id                 VARCHAR(36) PRIMARY KEY,
		name               VARCHAR(255) NOT NULL,
		description        TEXT NOT NULL,
		manager_id         VARCHAR(36) NULL,
		start_date         VARCHAR(10) NOT NULL,
		expected_end_date  VARCHAR(10) NULL,
		actual_end_date    VARCHAR(40) NULL,
		created_at         VARCHAR(40) NOT NULL,
		updated_at         VARCHAR(40) NOT NULL,
		KEY idx_projects_manager (manager_id),
		CONSTRAINT fk_projects_manager FOREIGN KEY (manager_id) REFERENCES users(id) ON DELETE SET NULL
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS modules (
		id                 VARCHAR(36) PRIMARY KEY,
		project_id         VARCHAR(36) NOT NULL,
		name               VARCHAR(255) NOT NULL,
		description        TEXT NOT NULL,
		start_date         VARCHAR(10) NOT NULL,
		expected_end_date  VARCHAR(10) NULL,
		actual_end_date    VARCHAR(40) NULL,
		created_at         VARCHAR(40) NOT NULL,
		updated_at         VARCHAR(40) NOT NULL,
		KEY idx_modules_project (project_id),
		CONSTRAINT fk_modules_project FOREIGN KEY (project_id) REFERENCES projects(id)
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id                 VARCHAR(36) PRIMARY KEY,
		module_id          VARCHAR(36) NOT NULL,
		project_id         VARCHAR(36) NOT NULL,
		name               VARCHAR(255) NOT NULL,
		description        TEXT NOT NULL,
		complexity         VARCHAR(8) NOT NULL CHECK(complexity IN ('low','medium','high')),
		status             VARCHAR(16) NOT NULL DEFAULT 'new'
		                   CHECK(status IN ('new','in_progress','approved')),
		start_date         VARCHAR(10) NOT NULL,
		expected_end_date  VARCHAR(10) NULL,
		actual_end_date    VARCHAR(40) NULL,
		created_at         VARCHAR(40) NOT NULL,
		updated_at         VARCHAR(40) NOT NULL,
		KEY idx_tasks_module (module_id),
		KEY idx_tasks_project (project_id),
		KEY idx_tasks_status (status),
		CONSTRAINT fk_tasks_module FOREIGN KEY (module_id) REFERENCES modules(id),
		CONSTRAINT fk_tasks_project FOREIGN KEY (project_id) REFERENCES projects(id)
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS task_assignments (
		task_id       VARCHAR(36) NOT NULL,
		seq           INT NOT NULL,
		developer_id  VARCHAR(36) NOT NULL,
		assigned_at   VARCHAR(40) NOT NULL,
		PRIMARY KEY (task_id, seq),
		KEY idx_assignments_developer (developer_id),
		CONSTRAINT fk_assignments_task FOREIGN KEY (task_id) REFERENCES tasks(id),
		CONSTRAINT fk_assignments_developer FOREIGN KEY (developer_id) REFERENCES users(id)
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS competency_matrix (
		level       VARCHAR(8) PRIMARY KEY CHECK(level IN ('low','medium','high')),
		low         DOUBLE NOT NULL,
		medium      DOUBLE NOT NULL,
		high        DOUBLE NOT NULL,
		updated_at  VARCHAR(40) NOT NULL
	) ENGINE=InnoDB`,
}
