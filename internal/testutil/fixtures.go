package testutil

import (
	"time"

	"github.com/alexanderramin/pmt/internal/domain"
	"github.com/google/uuid"
)

func today() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}

// Project options
type ProjectOption func(*domain.Project)

func WithManagerID(id string) ProjectOption {
	return func(p *domain.Project) {
		p.ManagerID = id
	}
}

func WithExpectedEnd(d time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.ExpectedEndDate = &d
	}
}

func WithProjectStart(d time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.StartDate = d
	}
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC()
	p := &domain.Project{
		ID:          uuid.New().String(),
		Name:        name,
		Description: name + " project",
		StartDate:   today().AddDate(0, 0, -7),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Module options
type ModuleOption func(*domain.Module)

func WithModuleExpectedEnd(d time.Time) ModuleOption {
	return func(m *domain.Module) {
		m.ExpectedEndDate = &d
	}
}

func NewTestModule(projectID, name string, opts ...ModuleOption) *domain.Module {
	now := time.Now().UTC()
	m := &domain.Module{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Name:      name,
		StartDate: today().AddDate(0, 0, -7),
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Task options
type TaskOption func(*domain.Task)

func WithComplexity(c domain.Complexity) TaskOption {
	return func(t *domain.Task) {
		t.Complexity = c
	}
}

// WithTaskStatus also stamps an actual end date for approved tasks so the
// row satisfies the schema.
func WithTaskStatus(s domain.TaskStatus) TaskOption {
	return func(t *domain.Task) {
		t.Status = s
		if s == domain.TaskApproved {
			end := time.Now().UTC().Truncate(time.Second)
			t.ActualEndDate = &end
		} else {
			t.ActualEndDate = nil
		}
	}
}

func WithTaskExpectedEnd(d time.Time) TaskOption {
	return func(t *domain.Task) {
		t.ExpectedEndDate = &d
	}
}

func NewTestTask(m *domain.Module, name string, opts ...TaskOption) *domain.Task {
	now := time.Now().UTC()
	t := &domain.Task{
		ID:         uuid.New().String(),
		ModuleID:   m.ID,
		ProjectID:  m.ProjectID,
		Name:       name,
		Complexity: domain.ComplexityMedium,
		Status:     domain.TaskNew,
		StartDate:  today(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// User options
type UserOption func(*domain.User)

func WithRole(r domain.Role) UserOption {
	return func(u *domain.User) {
		u.Role = r
		if r != domain.RoleDeveloper {
			u.Competency = ""
		}
	}
}

func WithCompetency(c domain.CompetencyLevel) UserOption {
	return func(u *domain.User) {
		u.Competency = c
	}
}

func WithManager(id string) UserOption {
	return func(u *domain.User) {
		u.ManagerID = id
	}
}

func WithDisabled() UserOption {
	return func(u *domain.User) {
		u.Enabled = false
	}
}

// WithUserID fixes the id, for tests that depend on id ordering.
func WithUserID(id string) UserOption {
	return func(u *domain.User) {
		u.ID = id
	}
}

// NewTestUser returns an enabled developer with medium competency unless
// options say otherwise.
func NewTestUser(username string, opts ...UserOption) *domain.User {
	u := &domain.User{
		ID:         uuid.New().String(),
		Username:   username,
		FullName:   username,
		Email:      username + "@example.com",
		Role:       domain.RoleDeveloper,
		Competency: domain.CompetencyMedium,
		Enabled:    true,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func NewTestDeveloper(username string, level domain.CompetencyLevel, opts ...UserOption) *domain.User {
	return NewTestUser(username, append([]UserOption{WithCompetency(level)}, opts...)...)
}

func NewTestManager(username string, opts ...UserOption) *domain.User {
	return NewTestUser(username, append([]UserOption{WithRole(domain.RoleManager)}, opts...)...)
}
