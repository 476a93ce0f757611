package service

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/pmt/internal/app"
	"github.com/alexanderramin/pmt/internal/db"
	"github.com/alexanderramin/pmt/internal/domain"
	"github.com/alexanderramin/pmt/internal/matching"
	"github.com/alexanderramin/pmt/internal/repository"
)

type assignmentService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewAssignmentService(uow db.UnitOfWork, observers ...UseCaseObserver) AssignmentService {
	return &assignmentService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

// ListAvailableDevelopers returns the developers that may take the task,
// best match first. An empty result is not an error.
func (s *assignmentService) ListAvailableDevelopers(ctx context.Context, taskID string, maxOpenTasks int) ([]app.AvailableDeveloper, error) {
	report, err := s.Candidates(ctx, taskID, maxOpenTasks)
	if err != nil {
		return nil, err
	}
	return report.Available, nil
}

// Candidates ranks every developer for the task and also reports the ones
// left out and why. The developer holding an InProgress task is never
// offered it again.
func (s *assignmentService) Candidates(ctx context.Context, taskID string, maxOpenTasks int) (report *app.CandidateReport, err error) {
	startedAt := time.Now()
	fields := map[string]any{"task_id": taskID, "max_open_tasks": maxOpenTasks}
	defer func() {
		if report != nil {
			fields["available"] = len(report.Available)
			fields["excluded"] = len(report.Excluded)
		}
		observe(ctx, s.observer, "assignment.candidates", startedAt, fields, err)
	}()

	if maxOpenTasks < 0 {
		return nil, app.Validation("Candidates", "max open tasks must be >= 0, got %d", maxOpenTasks)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		st := repository.NewStore(tx)
		task, err := st.Tasks.GetByID(ctx, taskID)
		if err != nil {
			return err
		}
		if !task.Assignable() {
			return &domain.TransitionError{TaskID: task.ID, From: task.Status, To: domain.TaskInProgress}
		}
		matrix, err := st.Competency.Get(ctx)
		if err != nil {
			return err
		}
		devs, err := st.Users.ListDevelopers(ctx, "", false)
		if err != nil {
			return err
		}
		open, err := st.Assignments.OpenTaskCounts(ctx)
		if err != nil {
			return err
		}
		holder := ""
		cur, err := st.Assignments.Current(ctx, task.ID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
		case err != nil:
			return err
		default:
			holder = cur.DeveloperID
		}

		inputs := make([]matching.ScoringInput, 0, len(devs))
		for _, d := range devs {
			inputs = append(inputs, matching.ScoringInput{
				DeveloperID:  d.ID,
				Username:     d.Username,
				Role:         d.Role,
				Enabled:      d.Enabled,
				Competency:   d.Competency,
				OpenTasks:    open[d.ID],
				Current:      d.ID == holder,
				Complexity:   task.Complexity,
				MaxOpenTasks: maxOpenTasks,
			})
		}
		eligible, excluded := matching.Rank(inputs, matrix)

		report = &app.CandidateReport{
			Task:         task,
			MaxOpenTasks: maxOpenTasks,
			Available:    make([]app.AvailableDeveloper, 0, len(eligible)),
		}
		for _, c := range eligible {
			report.Available = append(report.Available, app.AvailableDeveloper{
				DeveloperID:   c.Input.DeveloperID,
				Username:      c.Input.Username,
				Competency:    c.Input.Competency,
				Score:         c.Score,
				OpenTaskCount: c.Input.OpenTasks,
			})
		}
		for _, c := range excluded {
			report.Excluded = append(report.Excluded, app.ExcludedDeveloper{
				DeveloperID:   c.Input.DeveloperID,
				Username:      c.Input.Username,
				OpenTaskCount: c.Input.OpenTasks,
				Code:          string(c.Excluded.Code),
				Reason:        c.Excluded.Message,
			})
		}
		return nil
	})
	if err != nil {
		return nil, translate("Candidates", err)
	}
	return report, nil
}

// AssignTask gives the task to a developer. A New task moves to InProgress;
// an InProgress task keeps its status and gains a new history entry. Both
// writes commit together or not at all.
func (s *assignmentService) AssignTask(ctx context.Context, taskID, developerID string) (assignment *domain.TaskAssignment, err error) {
	startedAt := time.Now()
	fields := map[string]any{"task_id": taskID, "developer_id": developerID}
	defer func() {
		if assignment != nil {
			fields["seq"] = assignment.Seq
		}
		observe(ctx, s.observer, "assignment.assign", startedAt, fields, err)
	}()

	const op = "AssignTask"
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		st := repository.NewStore(tx)
		task, err := st.Tasks.GetByID(ctx, taskID)
		if err != nil {
			return err
		}
		if !task.Assignable() {
			return &domain.TransitionError{TaskID: task.ID, From: task.Status, To: domain.TaskInProgress}
		}

		dev, err := st.Users.GetByID(ctx, developerID)
		if errors.Is(err, repository.ErrNotFound) {
			return app.NotFound(op, "developer %s not found", developerID)
		}
		if err != nil {
			return err
		}
		if !dev.IsDeveloper() {
			return app.NotFound(op, "user %s is not a developer", dev.Username)
		}
		if !dev.Enabled {
			return app.Validation(op, "developer %s is disabled", dev.Username)
		}

		seq := 1
		cur, err := st.Assignments.Current(ctx, taskID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
		case err != nil:
			return err
		default:
			if cur.DeveloperID == dev.ID {
				return app.Validation(op, "task %s is already assigned to %s", domain.ShortID(taskID), dev.Username)
			}
			seq = cur.Seq + 1
		}

		now := nowUTC()
		if task.Status == domain.TaskNew {
			from := task.Status
			if err := task.Start(now); err != nil {
				return err
			}
			if err := st.Tasks.TransitionStatus(ctx, task.ID, from, task.Status, nil, now); err != nil {
				return err
			}
		}

		a := &domain.TaskAssignment{TaskID: task.ID, Seq: seq, DeveloperID: dev.ID, AssignedAt: now}
		if err := st.Assignments.Append(ctx, a); err != nil {
			return err
		}
		assignment = a
		return nil
	})
	if err != nil {
		return nil, translate(op, err)
	}
	return assignment, nil
}

// ApproveTask closes an InProgress task and, in the same transaction, closes
// its module and project when they become complete.
func (s *assignmentService) ApproveTask(ctx context.Context, taskID string) (task *domain.Task, err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "assignment.approve", startedAt, map[string]any{"task_id": taskID}, err)
	}()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		st := repository.NewStore(tx)
		t, err := st.Tasks.GetByID(ctx, taskID)
		if err != nil {
			return err
		}
		from := t.Status
		now := nowUTC()
		if err := t.Approve(now); err != nil {
			return err
		}
		if err := st.Tasks.TransitionStatus(ctx, t.ID, from, t.Status, t.ActualEndDate, now); err != nil {
			return err
		}
		if err := syncCompletion(ctx, st, t.ProjectID, now); err != nil {
			return err
		}
		task = t
		return nil
	})
	if err != nil {
		return nil, translate("ApproveTask", err)
	}
	return task, nil
}

// CurrentAssignment returns nil without error for a task nobody holds.
func (s *assignmentService) CurrentAssignment(ctx context.Context, taskID string) (*domain.TaskAssignment, error) {
	var out *domain.TaskAssignment
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		st := repository.NewStore(tx)
		if _, err := st.Tasks.GetByID(ctx, taskID); err != nil {
			return err
		}
		a, err := st.Assignments.Current(ctx, taskID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		out = a
		return err
	})
	if err != nil {
		return nil, translate("CurrentAssignment", err)
	}
	return out, nil
}

// AssignmentHistory lists every assignment of the task, oldest first.
func (s *assignmentService) AssignmentHistory(ctx context.Context, taskID string) ([]app.AssignmentEntry, error) {
	var out []app.AssignmentEntry
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		st := repository.NewStore(tx)
		if _, err := st.Tasks.GetByID(ctx, taskID); err != nil {
			return err
		}
		hist, err := st.Assignments.History(ctx, taskID)
		if err != nil {
			return err
		}
		names := make(map[string]string)
		for i, a := range hist {
			name, ok := names[a.DeveloperID]
			if !ok {
				u, err := st.Users.GetByID(ctx, a.DeveloperID)
				if err != nil {
					return err
				}
				name = u.Username
				names[a.DeveloperID] = name
			}
			out = append(out, app.AssignmentEntry{
				TaskAssignment: a,
				Username:       name,
				Current:        i == len(hist)-1,
			})
		}
		return nil
	})
	if err != nil {
		return nil, translate("AssignmentHistory", err)
	}
	return out, nil
}

// DeveloperTasks lists the tasks whose current assignee is the developer.
func (s *assignmentService) DeveloperTasks(ctx context.Context, developerID string) ([]app.DeveloperTask, error) {
	var out []app.DeveloperTask
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		st := repository.NewStore(tx)
		if _, err := st.Users.GetByID(ctx, developerID); err != nil {
			return err
		}
		tasks, err := st.Tasks.ListByDeveloper(ctx, developerID)
		if err != nil {
			return err
		}
		for _, t := range tasks {
			a, err := st.Assignments.Current(ctx, t.ID)
			if err != nil {
				return err
			}
			out = append(out, app.DeveloperTask{Task: t, AssignedAt: a.AssignedAt})
		}
		return nil
	})
	if err != nil {
		return nil, translate("DeveloperTasks", err)
	}
	return out, nil
}

// ManagerAssignments lists current assignments across the manager's projects.
func (s *assignmentService) ManagerAssignments(ctx context.Context, managerID string) ([]repository.AssignmentView, error) {
	var out []repository.AssignmentView
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		st := repository.NewStore(tx)
		if _, err := st.Users.GetByID(ctx, managerID); err != nil {
			return err
		}
		var err error
		out, err = st.Assignments.ListByManager(ctx, managerID)
		return err
	})
	if err != nil {
		return nil, translate("ManagerAssignments", err)
	}
	return out, nil
}
