package service

import (
	"context"

	"github.com/alexanderramin/pmt/internal/app"
	"github.com/alexanderramin/pmt/internal/domain"
	"github.com/alexanderramin/pmt/internal/importer"
	"github.com/alexanderramin/pmt/internal/repository"
)

// HierarchyService owns projects, modules and tasks and keeps the actual
// end dates of modules and projects in step with their tasks.
type HierarchyService interface {
	ResolveID(ctx context.Context, kind domain.EntityKind, ref string) (string, error)

	CreateProject(ctx context.Context, p *domain.Project) error
	GetProject(ctx context.Context, id string) (*domain.Project, error)
	ListProjects(ctx context.Context, managerID string) ([]*domain.Project, error)
	UpdateProject(ctx context.Context, p *domain.Project) error
	DeleteProject(ctx context.Context, id string) error

	CreateModule(ctx context.Context, m *domain.Module) error
	GetModule(ctx context.Context, id string) (*domain.Module, error)
	ListModules(ctx context.Context, projectID string) ([]*domain.Module, error)
	UpdateModule(ctx context.Context, m *domain.Module) error
	DeleteModule(ctx context.Context, id string) error

	CreateTask(ctx context.Context, t *domain.Task) error
	GetTask(ctx context.Context, id string) (*domain.Task, error)
	ListTasks(ctx context.Context, moduleID string) ([]*domain.Task, error)
	UpdateTask(ctx context.Context, t *domain.Task) error
	DeleteTask(ctx context.Context, id string) error

	GetProjectHierarchy(ctx context.Context, projectID string) (*app.ProjectHierarchy, error)
}

// AssignmentService matches developers to tasks and drives the task workflow.
type AssignmentService interface {
	ListAvailableDevelopers(ctx context.Context, taskID string, maxOpenTasks int) ([]app.AvailableDeveloper, error)
	Candidates(ctx context.Context, taskID string, maxOpenTasks int) (*app.CandidateReport, error)
	AssignTask(ctx context.Context, taskID, developerID string) (*domain.TaskAssignment, error)
	ApproveTask(ctx context.Context, taskID string) (*domain.Task, error)

	CurrentAssignment(ctx context.Context, taskID string) (*domain.TaskAssignment, error)
	AssignmentHistory(ctx context.Context, taskID string) ([]app.AssignmentEntry, error)
	DeveloperTasks(ctx context.Context, developerID string) ([]app.DeveloperTask, error)
	ManagerAssignments(ctx context.Context, managerID string) ([]repository.AssignmentView, error)
}

// RollupService computes completion on demand.
type RollupService interface {
	PercentComplete(ctx context.Context, kind domain.EntityKind, id string) (float64, error)
	ItemReport(ctx context.Context, kind domain.EntityKind, id string) (*app.ItemReport, error)
	PortfolioReport(ctx context.Context, managerID string) ([]app.PortfolioEntry, error)
}

type UserService interface {
	Create(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, ref string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	SetEnabled(ctx context.Context, ref string, enabled bool) (*domain.User, error)
	SetManager(ctx context.Context, ref, managerRef string) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, ref string) (*domain.User, error)
}

type CompetencyService interface {
	Matrix(ctx context.Context) (domain.CompetencyMatrix, error)
	SetWeights(ctx context.Context, level domain.CompetencyLevel, w domain.Weights) error
	Replace(ctx context.Context, m domain.CompetencyMatrix) error
}

type ImportService interface {
	ImportFile(ctx context.Context, path string) (*app.ImportResult, error)
	Import(ctx context.Context, schema *importer.HierarchySchema) (*app.ImportResult, error)
}
