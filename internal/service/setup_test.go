package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/pmt/internal/db"
	"github.com/alexanderramin/pmt/internal/domain"
	"github.com/alexanderramin/pmt/internal/repository"
	"github.com/alexanderramin/pmt/internal/testutil"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	db         *sql.DB
	uow        db.UnitOfWork
	store      *repository.Store
	hierarchy  HierarchyService
	assign     AssignmentService
	rollup     RollupService
	users      UserService
	competency CompetencyService
	imports    ImportService
	events     *recordingObserver
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	return setupEnvWithDB(t, testutil.NewTestDB(t))
}

func setupEnvWithDB(t *testing.T, database *sql.DB) *testEnv {
	t.Helper()
	uow := testutil.NewTestUoW(database)
	rec := &recordingObserver{}
	return &testEnv{
		db:         database,
		uow:        uow,
		store:      repository.NewStore(database),
		hierarchy:  NewHierarchyService(uow, rec),
		assign:     NewAssignmentService(uow, rec),
		rollup:     NewRollupService(uow, rec),
		users:      NewUserService(uow, rec),
		competency: NewCompetencyService(uow, rec),
		imports:    NewImportService(uow, rec),
		events:     rec,
	}
}

// seedModule inserts a project with one module through the services.
func (e *testEnv) seedModule(t *testing.T) (*domain.Project, *domain.Module) {
	t.Helper()
	ctx := context.Background()
	proj := testutil.NewTestProject("Billing")
	require.NoError(t, e.hierarchy.CreateProject(ctx, proj))
	mod := testutil.NewTestModule(proj.ID, "Invoices")
	require.NoError(t, e.hierarchy.CreateModule(ctx, mod))
	return proj, mod
}

func (e *testEnv) addTask(t *testing.T, mod *domain.Module, name string, opts ...testutil.TaskOption) *domain.Task {
	t.Helper()
	task := testutil.NewTestTask(mod, name, opts...)
	require.NoError(t, e.hierarchy.CreateTask(context.Background(), task))
	return task
}

func (e *testEnv) addDeveloper(t *testing.T, username string, level domain.CompetencyLevel, opts ...testutil.UserOption) *domain.User {
	t.Helper()
	dev := testutil.NewTestDeveloper(username, level, opts...)
	require.NoError(t, e.store.Users.Create(context.Background(), dev))
	return dev
}

func (e *testEnv) reloadTask(t *testing.T, id string) *domain.Task {
	t.Helper()
	task, err := e.store.Tasks.GetByID(context.Background(), id)
	require.NoError(t, err)
	return task
}

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingObserver) last(name string) (UseCaseEvent, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Name == name {
			return r.events[i], true
		}
	}
	return UseCaseEvent{}, false
}

// dayOffset returns distinct start dates so project listings sort stably.
func dayOffset(i int) time.Time {
	return time.Date(2026, 1, 1+i, 0, 0, 0, 0, time.UTC)
}
