package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/pmt/internal/app"
	"github.com/alexanderramin/pmt/internal/domain"
	"github.com/alexanderramin/pmt/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignTask_NewTaskStartsWork(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	_, mod := env.seedModule(t)
	task := env.addTask(t, mod, "Schema")
	dev := env.addDeveloper(t, "dana", domain.CompetencyMedium)

	a, err := env.assign.AssignTask(ctx, task.ID, dev.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, a.Seq)
	assert.Equal(t, dev.ID, a.DeveloperID)
	assert.False(t, a.IsReassignment())

	fetched := env.reloadTask(t, task.ID)
	assert.Equal(t, domain.TaskInProgress, fetched.Status)
	assert.Nil(t, fetched.ActualEndDate)

	hist, err := env.store.Assignments.History(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, hist, 1)

	cur, err := env.assign.CurrentAssignment(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, cur)
	assert.Equal(t, dev.ID, cur.DeveloperID)
}

func TestAssignTask_ReassignKeepsStatusAndHistory(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	_, mod := env.seedModule(t)
	task := env.addTask(t, mod, "Schema")
	devA := env.addDeveloper(t, "alice", domain.CompetencyMedium)
	devB := env.addDeveloper(t, "bruno", domain.CompetencyHigh)

	_, err := env.assign.AssignTask(ctx, task.ID, devA.ID)
	require.NoError(t, err)
	started := env.reloadTask(t, task.ID)

	a, err := env.assign.AssignTask(ctx, task.ID, devB.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, a.Seq)
	assert.True(t, a.IsReassignment())

	fetched := env.reloadTask(t, task.ID)
	assert.Equal(t, domain.TaskInProgress, fetched.Status)
	assert.Equal(t, started.UpdatedAt, fetched.UpdatedAt, "reassignment must not transition the task again")

	hist, err := env.assign.AssignmentHistory(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, "alice", hist[0].Username)
	assert.False(t, hist[0].Current)
	assert.Equal(t, "bruno", hist[1].Username)
	assert.True(t, hist[1].Current)
}

func TestAssignTask_SameDeveloperTwice(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	_, mod := env.seedModule(t)
	task := env.addTask(t, mod, "Schema")
	dev := env.addDeveloper(t, "dana", domain.CompetencyMedium)

	_, err := env.assign.AssignTask(ctx, task.ID, dev.ID)
	require.NoError(t, err)

	_, err = env.assign.AssignTask(ctx, task.ID, dev.ID)
	assert.ErrorIs(t, err, app.ErrValidation)

	hist, err := env.store.Assignments.History(ctx, task.ID)
	require.NoError(t, err)
	assert.Len(t, hist, 1)
}

func TestAssignTask_Rejections(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	_, mod := env.seedModule(t)

	approved := testutil.NewTestTask(mod, "Done", testutil.WithTaskStatus(domain.TaskApproved))
	require.NoError(t, env.store.Tasks.Create(ctx, approved))
	open := env.addTask(t, mod, "Open")

	dev := env.addDeveloper(t, "dana", domain.CompetencyMedium)
	disabled := env.addDeveloper(t, "dora", domain.CompetencyHigh, testutil.WithDisabled())
	mgr := testutil.NewTestManager("mona")
	require.NoError(t, env.store.Users.Create(ctx, mgr))

	tests := []struct {
		name   string
		taskID string
		devID  string
		want   error
	}{
		{"approved task", approved.ID, dev.ID, app.ErrInvalidTransition},
		{"missing task", "no-such-task", dev.ID, app.ErrNotFound},
		{"missing developer", open.ID, "no-such-user", app.ErrNotFound},
		{"not a developer", open.ID, mgr.ID, app.ErrNotFound},
		{"disabled developer", open.ID, disabled.ID, app.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.assign.AssignTask(ctx, tt.taskID, tt.devID)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	assert.Equal(t, domain.TaskNew, env.reloadTask(t, open.ID).Status)
	assert.Equal(t, domain.TaskApproved, env.reloadTask(t, approved.ID).Status)
}

func TestAssignTask_RollbackOnAppendFailure(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	_, mod := env.seedModule(t)
	task := env.addTask(t, mod, "Schema")
	dev := env.addDeveloper(t, "dana", domain.CompetencyMedium)

	// Exec 1 is the status transition, exec 2 the assignment insert.
	failing := &testutil.FailOnNthExecUoW{DB: env.db, FailOn: 2, Err: errors.New("injected append failure")}
	svc := NewAssignmentService(failing)

	_, err := svc.AssignTask(ctx, task.ID, dev.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected append failure")
	assert.ErrorIs(t, err, app.ErrPersistenceFailure)

	fetched := env.reloadTask(t, task.ID)
	assert.Equal(t, domain.TaskNew, fetched.Status, "status change must be rolled back")

	hist, err := env.store.Assignments.History(ctx, task.ID)
	require.NoError(t, err)
	assert.Empty(t, hist)
}

func TestApproveTask_ClosesTaskModuleAndProject(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	proj, mod := env.seedModule(t)
	task := env.addTask(t, mod, "Schema")
	dev := env.addDeveloper(t, "dana", domain.CompetencyMedium)

	_, err := env.assign.AssignTask(ctx, task.ID, dev.ID)
	require.NoError(t, err)

	approved, err := env.assign.ApproveTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskApproved, approved.Status)
	require.NotNil(t, approved.ActualEndDate)

	fetched := env.reloadTask(t, task.ID)
	assert.Equal(t, domain.TaskApproved, fetched.Status)
	require.NotNil(t, fetched.ActualEndDate)
	assert.True(t, approved.ActualEndDate.Equal(*fetched.ActualEndDate))

	m, err := env.store.Modules.GetByID(ctx, mod.ID)
	require.NoError(t, err)
	assert.True(t, m.IsClosed())

	p, err := env.store.Projects.GetByID(ctx, proj.ID)
	require.NoError(t, err)
	assert.True(t, p.IsClosed())
}

func TestApproveTask_PartialModuleStaysOpen(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	proj, mod := env.seedModule(t)
	t1 := env.addTask(t, mod, "One")
	env.addTask(t, mod, "Two")
	dev := env.addDeveloper(t, "dana", domain.CompetencyMedium)

	_, err := env.assign.AssignTask(ctx, t1.ID, dev.ID)
	require.NoError(t, err)
	_, err = env.assign.ApproveTask(ctx, t1.ID)
	require.NoError(t, err)

	m, err := env.store.Modules.GetByID(ctx, mod.ID)
	require.NoError(t, err)
	assert.False(t, m.IsClosed())
	p, err := env.store.Projects.GetByID(ctx, proj.ID)
	require.NoError(t, err)
	assert.False(t, p.IsClosed())
}

func TestApproveTask_InvalidTransitions(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	_, mod := env.seedModule(t)
	newTask := env.addTask(t, mod, "New")
	done := testutil.NewTestTask(mod, "Done", testutil.WithTaskStatus(domain.TaskApproved))
	require.NoError(t, env.store.Tasks.Create(ctx, done))

	_, err := env.assign.ApproveTask(ctx, newTask.ID)
	assert.ErrorIs(t, err, app.ErrInvalidTransition)
	assert.Equal(t, domain.TaskNew, env.reloadTask(t, newTask.ID).Status)

	_, err = env.assign.ApproveTask(ctx, done.ID)
	assert.ErrorIs(t, err, app.ErrInvalidTransition)

	_, err = env.assign.ApproveTask(ctx, "missing")
	assert.ErrorIs(t, err, app.ErrNotFound)
}

func TestListAvailableDevelopers_Ranking(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	_, mod := env.seedModule(t)
	task := env.addTask(t, mod, "Hard", testutil.WithComplexity(domain.ComplexityHigh))

	low := env.addDeveloper(t, "lou", domain.CompetencyLow, testutil.WithUserID("00000000-low"))
	med := env.addDeveloper(t, "meg", domain.CompetencyMedium, testutil.WithUserID("00000000-med"))
	high := env.addDeveloper(t, "hal", domain.CompetencyHigh, testutil.WithUserID("00000000-high"))

	got, err := env.assign.ListAvailableDevelopers(ctx, task.ID, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, high.ID, got[0].DeveloperID)
	assert.Equal(t, med.ID, got[1].DeveloperID)
	assert.Equal(t, low.ID, got[2].DeveloperID)
	assert.InDelta(t, 1.0, got[0].Score, 1e-9)
	assert.InDelta(t, 0.6, got[1].Score, 1e-9)
	assert.InDelta(t, 0.1, got[2].Score, 1e-9)
}

func TestListAvailableDevelopers_WorkloadTieBreak(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	_, mod := env.seedModule(t)
	busyTask := env.addTask(t, mod, "Busy")
	target := env.addTask(t, mod, "Target")

	a := env.addDeveloper(t, "ana", domain.CompetencyMedium, testutil.WithUserID("aaaa"))
	b := env.addDeveloper(t, "ben", domain.CompetencyMedium, testutil.WithUserID("bbbb"))
	c := env.addDeveloper(t, "cal", domain.CompetencyMedium, testutil.WithUserID("cccc"))

	_, err := env.assign.AssignTask(ctx, busyTask.ID, a.ID)
	require.NoError(t, err)

	got, err := env.assign.ListAvailableDevelopers(ctx, target.ID, 5)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, b.ID, got[0].DeveloperID, "equal score, no open tasks, lowest id")
	assert.Equal(t, c.ID, got[1].DeveloperID)
	assert.Equal(t, a.ID, got[2].DeveloperID)
	assert.Equal(t, 1, got[2].OpenTaskCount)
}

func TestListAvailableDevelopers_NeverAtCapacity(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	_, mod := env.seedModule(t)
	dev := env.addDeveloper(t, "dana", domain.CompetencyMedium)
	other := env.addDeveloper(t, "omar", domain.CompetencyMedium)

	for _, name := range []string{"A", "B"} {
		task := env.addTask(t, mod, name)
		_, err := env.assign.AssignTask(ctx, task.ID, dev.ID)
		require.NoError(t, err)
	}
	target := env.addTask(t, mod, "Target")

	for maxOpen := 0; maxOpen <= 3; maxOpen++ {
		got, err := env.assign.ListAvailableDevelopers(ctx, target.ID, maxOpen)
		require.NoError(t, err)
		for _, d := range got {
			assert.Less(t, d.OpenTaskCount, maxOpen)
		}
		switch maxOpen {
		case 0:
			assert.Empty(t, got)
		case 1, 2:
			require.Len(t, got, 1)
			assert.Equal(t, other.ID, got[0].DeveloperID)
		case 3:
			assert.Len(t, got, 2)
		}
	}
}

func TestListAvailableDevelopers_ApprovedWorkDoesNotCount(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	_, mod := env.seedModule(t)
	dev := env.addDeveloper(t, "dana", domain.CompetencyMedium)
	done := env.addTask(t, mod, "Done")
	_, err := env.assign.AssignTask(ctx, done.ID, dev.ID)
	require.NoError(t, err)
	_, err = env.assign.ApproveTask(ctx, done.ID)
	require.NoError(t, err)

	target := env.addTask(t, mod, "Target")
	got, err := env.assign.ListAvailableDevelopers(ctx, target.ID, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 0, got[0].OpenTaskCount)
}

func TestListAvailableDevelopers_Errors(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	_, mod := env.seedModule(t)
	task := env.addTask(t, mod, "Task")
	done := testutil.NewTestTask(mod, "Done", testutil.WithTaskStatus(domain.TaskApproved))
	require.NoError(t, env.store.Tasks.Create(ctx, done))

	_, err := env.assign.ListAvailableDevelopers(ctx, task.ID, -1)
	assert.ErrorIs(t, err, app.ErrValidation)

	_, err = env.assign.ListAvailableDevelopers(ctx, done.ID, 3)
	assert.ErrorIs(t, err, app.ErrInvalidTransition)

	_, err = env.assign.ListAvailableDevelopers(ctx, "missing", 3)
	assert.ErrorIs(t, err, app.ErrNotFound)

	got, err := env.assign.ListAvailableDevelopers(ctx, task.ID, 3)
	require.NoError(t, err)
	assert.Empty(t, got, "no developers is an empty result, not an error")
}

func TestCandidates_ReportsExclusions(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	_, mod := env.seedModule(t)
	task := env.addTask(t, mod, "Task")
	busy := env.addDeveloper(t, "busy", domain.CompetencyHigh)
	off := env.addDeveloper(t, "off", domain.CompetencyHigh, testutil.WithDisabled())
	free := env.addDeveloper(t, "free", domain.CompetencyLow)

	other := env.addTask(t, mod, "Other")
	_, err := env.assign.AssignTask(ctx, other.ID, busy.ID)
	require.NoError(t, err)

	report, err := env.assign.Candidates(ctx, task.ID, 1)
	require.NoError(t, err)
	require.Len(t, report.Available, 1)
	assert.Equal(t, free.ID, report.Available[0].DeveloperID)

	codes := map[string]string{}
	for _, ex := range report.Excluded {
		codes[ex.DeveloperID] = ex.Code
	}
	assert.Equal(t, "AT_CAPACITY", codes[busy.ID])
	assert.Equal(t, "DISABLED", codes[off.ID])

	ev, ok := env.events.last("assignment.candidates")
	require.True(t, ok)
	assert.True(t, ev.Success)
	assert.Equal(t, 1, ev.Fields["available"])
}

func TestCandidates_SkipsCurrentAssignee(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	_, mod := env.seedModule(t)
	task := env.addTask(t, mod, "Task")
	holder := env.addDeveloper(t, "holder", domain.CompetencyHigh)
	spare := env.addDeveloper(t, "spare", domain.CompetencyLow)

	_, err := env.assign.AssignTask(ctx, task.ID, holder.ID)
	require.NoError(t, err)

	report, err := env.assign.Candidates(ctx, task.ID, 3)
	require.NoError(t, err)
	require.Len(t, report.Available, 1)
	assert.Equal(t, spare.ID, report.Available[0].DeveloperID)
	require.Len(t, report.Excluded, 1)
	assert.Equal(t, holder.ID, report.Excluded[0].DeveloperID)
	assert.Equal(t, "CURRENT_ASSIGNEE", report.Excluded[0].Code)

	for _, d := range report.Available {
		_, err := env.assign.AssignTask(ctx, task.ID, d.DeveloperID)
		assert.NoError(t, err, "every offered developer can take the task")
	}
}

func TestDeveloperTasksAndManagerAssignments(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	mgr := testutil.NewTestManager("mona")
	require.NoError(t, env.store.Users.Create(ctx, mgr))
	proj := testutil.NewTestProject("Managed", testutil.WithManagerID(mgr.ID))
	require.NoError(t, env.hierarchy.CreateProject(ctx, proj))
	mod := testutil.NewTestModule(proj.ID, "M")
	require.NoError(t, env.hierarchy.CreateModule(ctx, mod))

	devA := env.addDeveloper(t, "alice", domain.CompetencyMedium)
	devB := env.addDeveloper(t, "bruno", domain.CompetencyMedium)
	t1 := env.addTask(t, mod, "One")
	t2 := env.addTask(t, mod, "Two")

	_, err := env.assign.AssignTask(ctx, t1.ID, devA.ID)
	require.NoError(t, err)
	_, err = env.assign.AssignTask(ctx, t2.ID, devA.ID)
	require.NoError(t, err)
	_, err = env.assign.AssignTask(ctx, t2.ID, devB.ID)
	require.NoError(t, err)

	aTasks, err := env.assign.DeveloperTasks(ctx, devA.ID)
	require.NoError(t, err)
	require.Len(t, aTasks, 1, "reassigned task no longer belongs to alice")
	assert.Equal(t, t1.ID, aTasks[0].Task.ID)
	assert.False(t, aTasks[0].AssignedAt.IsZero())

	views, err := env.assign.ManagerAssignments(ctx, mgr.ID)
	require.NoError(t, err)
	require.Len(t, views, 2)
	byTask := map[string]string{}
	for _, v := range views {
		byTask[v.Assignment.TaskID] = v.DeveloperUsername
		assert.Equal(t, "Managed", v.ProjectName)
	}
	assert.Equal(t, "alice", byTask[t1.ID])
	assert.Equal(t, "bruno", byTask[t2.ID])

	_, err = env.assign.DeveloperTasks(ctx, "missing")
	assert.ErrorIs(t, err, app.ErrNotFound)
}

func TestCurrentAssignment_Unassigned(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	_, mod := env.seedModule(t)
	task := env.addTask(t, mod, "Task")

	cur, err := env.assign.CurrentAssignment(ctx, task.ID)
	require.NoError(t, err)
	assert.Nil(t, cur)

	_, err = env.assign.CurrentAssignment(ctx, "missing")
	assert.ErrorIs(t, err, app.ErrNotFound)
}
