package service

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/pmt/internal/app"
	"github.com/alexanderramin/pmt/internal/db"
	"github.com/alexanderramin/pmt/internal/domain"
	"github.com/alexanderramin/pmt/internal/repository"
	"github.com/google/uuid"
)

type hierarchyService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewHierarchyService(uow db.UnitOfWork, observers ...UseCaseObserver) HierarchyService {
	return &hierarchyService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *hierarchyService) ResolveID(ctx context.Context, kind domain.EntityKind, ref string) (string, error) {
	var id string
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		id, err = repository.ResolveIDPrefix(ctx, tx, kind, ref)
		return err
	})
	return id, translate("ResolveID", err)
}

func (s *hierarchyService) CreateProject(ctx context.Context, p *domain.Project) (err error) {
	startedAt := time.Now()
	defer func() { observe(ctx, s.observer, "project.create", startedAt, map[string]any{"project_id": p.ID}, err) }()

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.StartDate.IsZero() {
		p.StartDate = today()
	}
	if verr := p.Validate(); verr != nil {
		return translate("CreateProject", verr)
	}
	now := nowUTC()
	p.CreatedAt, p.UpdatedAt = now, now
	p.ActualEndDate = nil

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		st := repository.NewStore(tx)
		if err := requireManager(ctx, st, "CreateProject", p.ManagerID); err != nil {
			return err
		}
		return st.Projects.Create(ctx, p)
	})
	return translate("CreateProject", err)
}

func (s *hierarchyService) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	var p *domain.Project
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		p, err = repository.NewStore(tx).Projects.GetByID(ctx, id)
		return err
	})
	return p, translate("GetProject", err)
}

// ListProjects returns every project, or only those of managerID when set.
func (s *hierarchyService) ListProjects(ctx context.Context, managerID string) ([]*domain.Project, error) {
	var out []*domain.Project
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		st := repository.NewStore(tx)
		var err error
		if managerID == "" {
			out, err = st.Projects.List(ctx)
		} else {
			out, err = st.Projects.ListByManager(ctx, managerID)
		}
		return err
	})
	return out, translate("ListProjects", err)
}

// UpdateProject writes name, description, manager and schedule. Completion
// fields are never taken from the caller.
func (s *hierarchyService) UpdateProject(ctx context.Context, p *domain.Project) (err error) {
	startedAt := time.Now()
	defer func() { observe(ctx, s.observer, "project.update", startedAt, map[string]any{"project_id": p.ID}, err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		st := repository.NewStore(tx)
		cur, err := st.Projects.GetByID(ctx, p.ID)
		if err != nil {
			return err
		}
		if err := p.Validate(); err != nil {
			return err
		}
		if p.ManagerID != cur.ManagerID {
			if err := requireManager(ctx, st, "UpdateProject", p.ManagerID); err != nil {
				return err
			}
		}
		p.ActualEndDate = cur.ActualEndDate
		p.CreatedAt = cur.CreatedAt
		p.UpdatedAt = nowUTC()
		return st.Projects.Update(ctx, p)
	})
	return translate("UpdateProject", err)
}

// DeleteProject removes the project with all its modules, tasks and
// assignment history in one transaction. It refuses while any task is in
// progress.
func (s *hierarchyService) DeleteProject(ctx context.Context, id string) (err error) {
	startedAt := time.Now()
	defer func() { observe(ctx, s.observer, "project.delete", startedAt, map[string]any{"project_id": id}, err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		st := repository.NewStore(tx)
		if _, err := st.Projects.GetByID(ctx, id); err != nil {
			return err
		}
		counts, err := st.Tasks.CountByProject(ctx, id)
		if err != nil {
			return err
		}
		if counts.InProgress > 0 {
			return app.Conflict("DeleteProject", "project %s has %d task(s) in progress", domain.ShortID(id), counts.InProgress)
		}
		modules, err := repository.Collect(st.Modules.ListChildren(ctx, id))
		if err != nil {
			return err
		}
		for _, m := range modules {
			if err := deleteModuleTree(ctx, st, m.ID); err != nil {
				return err
			}
		}
		return st.Projects.Delete(ctx, id)
	})
	return translate("DeleteProject", err)
}

func (s *hierarchyService) CreateModule(ctx context.Context, m *domain.Module) (err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "module.create", startedAt, map[string]any{"project_id": m.ProjectID}, err)
	}()

	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	now := nowUTC()
	m.CreatedAt, m.UpdatedAt = now, now
	m.ActualEndDate = nil

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		st := repository.NewStore(tx)
		p, err := st.Projects.GetByID(ctx, m.ProjectID)
		if err != nil {
			return err
		}
		if m.StartDate.IsZero() {
			m.StartDate = p.StartDate
		}
		if err := m.Validate(); err != nil {
			return err
		}
		if err := st.Modules.Create(ctx, m); err != nil {
			return err
		}
		return syncCompletion(ctx, st, m.ProjectID, now)
	})
	return translate("CreateModule", err)
}

func (s *hierarchyService) GetModule(ctx context.Context, id string) (*domain.Module, error) {
	var m *domain.Module
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		m, err = repository.NewStore(tx).Modules.GetByID(ctx, id)
		return err
	})
	return m, translate("GetModule", err)
}

func (s *hierarchyService) ListModules(ctx context.Context, projectID string) ([]*domain.Module, error) {
	var out []*domain.Module
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		st := repository.NewStore(tx)
		if _, err := st.Projects.GetByID(ctx, projectID); err != nil {
			return err
		}
		var err error
		out, err = repository.Collect(st.Modules.ListChildren(ctx, projectID))
		return err
	})
	return out, translate("ListModules", err)
}

func (s *hierarchyService) UpdateModule(ctx context.Context, m *domain.Module) (err error) {
	startedAt := time.Now()
	defer func() { observe(ctx, s.observer, "module.update", startedAt, map[string]any{"module_id": m.ID}, err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		st := repository.NewStore(tx)
		cur, err := st.Modules.GetByID(ctx, m.ID)
		if err != nil {
			return err
		}
		if err := m.Validate(); err != nil {
			return err
		}
		m.ProjectID = cur.ProjectID
		m.ActualEndDate = cur.ActualEndDate
		m.CreatedAt = cur.CreatedAt
		m.UpdatedAt = nowUTC()
		return st.Modules.Update(ctx, m)
	})
	return translate("UpdateModule", err)
}

// DeleteModule removes the module, its tasks and their assignment history.
// It refuses while any of its tasks is in progress.
func (s *hierarchyService) DeleteModule(ctx context.Context, id string) (err error) {
	startedAt := time.Now()
	defer func() { observe(ctx, s.observer, "module.delete", startedAt, map[string]any{"module_id": id}, err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		st := repository.NewStore(tx)
		m, err := st.Modules.GetByID(ctx, id)
		if err != nil {
			return err
		}
		counts, err := st.Tasks.CountByModule(ctx, id)
		if err != nil {
			return err
		}
		if counts.InProgress > 0 {
			return app.Conflict("DeleteModule", "module %s has %d task(s) in progress", domain.ShortID(id), counts.InProgress)
		}
		if err := deleteModuleTree(ctx, st, id); err != nil {
			return err
		}
		return syncCompletion(ctx, st, m.ProjectID, nowUTC())
	})
	return translate("DeleteModule", err)
}

func deleteModuleTree(ctx context.Context, st *repository.Store, moduleID string) error {
	if err := st.Assignments.DeleteByModule(ctx, moduleID); err != nil {
		return err
	}
	if err := st.Tasks.DeleteByModule(ctx, moduleID); err != nil {
		return err
	}
	return st.Modules.Delete(ctx, moduleID)
}

// CreateTask inserts a New task. The project id is taken from the module.
func (s *hierarchyService) CreateTask(ctx context.Context, t *domain.Task) (err error) {
	startedAt := time.Now()
	defer func() { observe(ctx, s.observer, "task.create", startedAt, map[string]any{"module_id": t.ModuleID}, err) }()

	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.Complexity == "" {
		t.Complexity = domain.ComplexityMedium
	}
	if t.Status == "" {
		t.Status = domain.TaskNew
	}
	if t.Status != domain.TaskNew {
		return app.Validation("CreateTask", "tasks are created in status %s, got %s", domain.TaskNew, t.Status)
	}
	now := nowUTC()
	t.CreatedAt, t.UpdatedAt = now, now
	t.ActualEndDate = nil

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		st := repository.NewStore(tx)
		m, err := st.Modules.GetByID(ctx, t.ModuleID)
		if err != nil {
			return err
		}
		t.ProjectID = m.ProjectID
		if t.StartDate.IsZero() {
			t.StartDate = m.StartDate
		}
		if err := t.Validate(); err != nil {
			return err
		}
		if err := st.Tasks.Create(ctx, t); err != nil {
			return err
		}
		return syncCompletion(ctx, st, m.ProjectID, now)
	})
	return translate("CreateTask", err)
}

func (s *hierarchyService) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	var t *domain.Task
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		t, err = repository.NewStore(tx).Tasks.GetByID(ctx, id)
		return err
	})
	return t, translate("GetTask", err)
}

func (s *hierarchyService) ListTasks(ctx context.Context, moduleID string) ([]*domain.Task, error) {
	var out []*domain.Task
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		st := repository.NewStore(tx)
		if _, err := st.Modules.GetByID(ctx, moduleID); err != nil {
			return err
		}
		var err error
		out, err = repository.Collect(st.Tasks.ListChildren(ctx, moduleID))
		return err
	})
	return out, translate("ListTasks", err)
}

// UpdateTask writes name, description, complexity and schedule. Status is
// only changed by assignment and approval.
func (s *hierarchyService) UpdateTask(ctx context.Context, t *domain.Task) (err error) {
	startedAt := time.Now()
	defer func() { observe(ctx, s.observer, "task.update", startedAt, map[string]any{"task_id": t.ID}, err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		st := repository.NewStore(tx)
		cur, err := st.Tasks.GetByID(ctx, t.ID)
		if err != nil {
			return err
		}
		t.ModuleID, t.ProjectID = cur.ModuleID, cur.ProjectID
		t.Status, t.ActualEndDate = cur.Status, cur.ActualEndDate
		t.CreatedAt = cur.CreatedAt
		t.UpdatedAt = nowUTC()
		if err := t.Validate(); err != nil {
			return err
		}
		return st.Tasks.Update(ctx, t)
	})
	return translate("UpdateTask", err)
}

// DeleteTask removes a task that is not in progress, with its history.
func (s *hierarchyService) DeleteTask(ctx context.Context, id string) (err error) {
	startedAt := time.Now()
	defer func() { observe(ctx, s.observer, "task.delete", startedAt, map[string]any{"task_id": id}, err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		st := repository.NewStore(tx)
		t, err := st.Tasks.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if t.IsOpen() {
			return app.Conflict("DeleteTask", "task %s is in progress", domain.ShortID(id))
		}
		if err := st.Assignments.DeleteByTask(ctx, id); err != nil {
			return err
		}
		if err := st.Tasks.Delete(ctx, id); err != nil {
			return err
		}
		return syncCompletion(ctx, st, t.ProjectID, nowUTC())
	})
	return translate("DeleteTask", err)
}

// GetProjectHierarchy loads a project with its modules and tasks, each task
// carrying its current assignment, and the rolled-up completion.
func (s *hierarchyService) GetProjectHierarchy(ctx context.Context, projectID string) (*app.ProjectHierarchy, error) {
	var out *app.ProjectHierarchy
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		st := repository.NewStore(tx)
		p, err := st.Projects.GetByID(ctx, projectID)
		if err != nil {
			return err
		}
		modules, err := repository.Collect(st.Modules.ListChildren(ctx, projectID))
		if err != nil {
			return err
		}
		current, err := st.Assignments.CurrentForProject(ctx, projectID)
		if err != nil {
			return err
		}

		out = &app.ProjectHierarchy{Project: p, Modules: make([]app.ModuleNode, 0, len(modules))}
		var approved, total int
		for _, m := range modules {
			tasks, err := repository.Collect(st.Tasks.ListChildren(ctx, m.ID))
			if err != nil {
				return err
			}
			node := app.ModuleNode{Module: m, Tasks: make([]app.TaskNode, 0, len(tasks))}
			var done int
			for _, t := range tasks {
				tn := app.TaskNode{Task: t}
				if a, ok := current[t.ID]; ok {
					tn.Assignment = &a
				}
				if t.Status == domain.TaskApproved {
					done++
				}
				node.Tasks = append(node.Tasks, tn)
			}
			node.PercentComplete = domain.CompletionRatio(done, len(tasks))
			approved += done
			total += len(tasks)
			out.Modules = append(out.Modules, node)
		}
		out.PercentComplete = domain.CompletionRatio(approved, total)
		return nil
	})
	if err != nil {
		return nil, translate("GetProjectHierarchy", err)
	}
	return out, nil
}

// requireManager checks that id, when set, names a manager or administrator.
func requireManager(ctx context.Context, st *repository.Store, op, id string) error {
	if id == "" {
		return nil
	}
	u, err := st.Users.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return app.NotFound(op, "manager %s not found", id)
	}
	if err != nil {
		return err
	}
	if !u.IsManager() {
		return app.Validation(op, "user %s is a %s, not a manager", u.Username, u.Role)
	}
	return nil
}
