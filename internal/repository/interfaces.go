package repository

import (
	"context"
	"iter"
	"time"

	"github.com/alexanderramin/pmt/internal/db"
	"github.com/alexanderramin/pmt/internal/domain"
)

// TaskCounts tallies tasks by status under one module or project.
type TaskCounts struct {
	Total      int
	New        int
	InProgress int
	Approved   int
}

// AssignmentView is a current assignment joined with its task, project and
// developer, as shown to a manager.
type AssignmentView struct {
	Assignment        domain.TaskAssignment
	TaskName          string
	TaskStatus        domain.TaskStatus
	TaskComplexity    domain.Complexity
	ModuleID          string
	ProjectID         string
	ProjectName       string
	DeveloperUsername string
}

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	ListByManager(ctx context.Context, managerID string) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	SetActualEnd(ctx context.Context, id string, end *time.Time) error
	Delete(ctx context.Context, id string) error
}

type ModuleRepo interface {
	Create(ctx context.Context, m *domain.Module) error
	GetByID(ctx context.Context, id string) (*domain.Module, error)
	ListChildren(ctx context.Context, projectID string) iter.Seq2[*domain.Module, error]
	Update(ctx context.Context, m *domain.Module) error
	SetActualEnd(ctx context.Context, id string, end *time.Time) error
	Delete(ctx context.Context, id string) error
}

type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListChildren(ctx context.Context, moduleID string) iter.Seq2[*domain.Task, error]
	ListByDeveloper(ctx context.Context, developerID string) ([]*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	TransitionStatus(ctx context.Context, id string, from, to domain.TaskStatus, actualEnd *time.Time, at time.Time) error
	CountByModule(ctx context.Context, moduleID string) (TaskCounts, error)
	CountByProject(ctx context.Context, projectID string) (TaskCounts, error)
	CountPerModule(ctx context.Context, projectID string) (map[string]TaskCounts, error)
	Delete(ctx context.Context, id string) error
	DeleteByModule(ctx context.Context, moduleID string) error
}

type AssignmentRepo interface {
	Append(ctx context.Context, a *domain.TaskAssignment) error
	Current(ctx context.Context, taskID string) (*domain.TaskAssignment, error)
	CurrentForProject(ctx context.Context, projectID string) (map[string]domain.TaskAssignment, error)
	History(ctx context.Context, taskID string) ([]domain.TaskAssignment, error)
	OpenTaskCounts(ctx context.Context) (map[string]int, error)
	CountByDeveloper(ctx context.Context, developerID string) (int, error)
	ListByManager(ctx context.Context, managerID string) ([]AssignmentView, error)
	DeleteByTask(ctx context.Context, taskID string) error
	DeleteByModule(ctx context.Context, moduleID string) error
}

type UserRepo interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	ListDevelopers(ctx context.Context, managerID string, enabledOnly bool) ([]*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	SetEnabled(ctx context.Context, id string, enabled bool) error
	SetManager(ctx context.Context, id, managerID string) error
	Delete(ctx context.Context, id string) error
}

type CompetencyRepo interface {
	Get(ctx context.Context) (domain.CompetencyMatrix, error)
	Upsert(ctx context.Context, level domain.CompetencyLevel, w domain.Weights) error
}

// Store bundles every repository over one DBTX. Services build a Store
// inside UnitOfWork.WithinTx so all writes share the transaction.
type Store struct {
	Projects    ProjectRepo
	Modules     ModuleRepo
	Tasks       TaskRepo
	Assignments AssignmentRepo
	Users       UserRepo
	Competency  CompetencyRepo
}

func NewStore(q db.DBTX) *Store {
	return &Store{
		Projects:    NewSQLProjectRepo(q),
		Modules:     NewSQLModuleRepo(q),
		Tasks:       NewSQLTaskRepo(q),
		Assignments: NewSQLAssignmentRepo(q),
		Users:       NewSQLUserRepo(q),
		Competency:  NewSQLCompetencyRepo(q),
	}
}
