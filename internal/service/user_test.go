package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/pmt/internal/app"
	"github.com/alexanderramin/pmt/internal/domain"
	"github.com/alexanderramin/pmt/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_CreateAndGet(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	u := &domain.User{Username: "dana", Role: domain.RoleDeveloper, Competency: domain.CompetencyHigh, Enabled: true}
	require.NoError(t, env.users.Create(ctx, u))
	assert.NotEmpty(t, u.ID)

	byID, err := env.users.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "dana", byID.Username)

	byName, err := env.users.Get(ctx, "DANA")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)

	_, err = env.users.Get(ctx, "nobody")
	assert.ErrorIs(t, err, app.ErrNotFound)
}

func TestUserService_CreateRejects(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	require.NoError(t, env.users.Create(ctx, testutil.NewTestUser("dana")))

	tests := []struct {
		name string
		u    *domain.User
		want error
	}{
		{"duplicate username", testutil.NewTestUser("Dana"), app.ErrConflict},
		{"missing competency", &domain.User{Username: "x", Role: domain.RoleDeveloper}, app.ErrValidation},
		{"unknown role", &domain.User{Username: "y", Role: "intern"}, app.ErrValidation},
		{"unknown manager", testutil.NewTestUser("z", testutil.WithManager("ghost")), app.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, env.users.Create(ctx, tt.u), tt.want)
		})
	}
}

func TestUserService_NonDeveloperDropsCompetency(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	u := &domain.User{Username: "mona", Role: domain.RoleManager, Competency: domain.CompetencyHigh}
	require.NoError(t, env.users.Create(ctx, u))

	got, err := env.users.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Competency)
}

func TestUserService_SetEnabled(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	_, mod := env.seedModule(t)
	task := env.addTask(t, mod, "Task")
	dev := env.addDeveloper(t, "dana", domain.CompetencyMedium)

	u, err := env.users.SetEnabled(ctx, "dana", false)
	require.NoError(t, err)
	assert.False(t, u.Enabled)

	got, err := env.assign.ListAvailableDevelopers(ctx, task.ID, 3)
	require.NoError(t, err)
	assert.Empty(t, got, "disabled developers are never candidates")

	_, err = env.users.SetEnabled(ctx, dev.ID, true)
	require.NoError(t, err)
	got, err = env.assign.ListAvailableDevelopers(ctx, task.ID, 3)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestUserService_SetManager(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	dev := env.addDeveloper(t, "dana", domain.CompetencyMedium)
	peer := env.addDeveloper(t, "pete", domain.CompetencyMedium)
	mgr := testutil.NewTestManager("mona")
	require.NoError(t, env.store.Users.Create(ctx, mgr))

	u, err := env.users.SetManager(ctx, "dana", "mona")
	require.NoError(t, err)
	assert.Equal(t, mgr.ID, u.ManagerID)

	devs, err := env.store.Users.ListDevelopers(ctx, mgr.ID, true)
	require.NoError(t, err)
	require.Len(t, devs, 1)
	assert.Equal(t, dev.ID, devs[0].ID)

	_, err = env.users.SetManager(ctx, "dana", peer.Username)
	assert.ErrorIs(t, err, app.ErrValidation, "only managers can manage")

	_, err = env.users.SetManager(ctx, "mona", "mona")
	assert.ErrorIs(t, err, app.ErrValidation)

	u, err = env.users.SetManager(ctx, dev.ID, "")
	require.NoError(t, err)
	assert.Empty(t, u.ManagerID)

	list, err := env.users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestUserService_UpdateCompetencyReordersCandidates(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	_, mod := env.seedModule(t)
	task := env.addTask(t, mod, "Hard", testutil.WithComplexity(domain.ComplexityHigh))

	lou := env.addDeveloper(t, "lou", domain.CompetencyLow, testutil.WithUserID("00000000-lou"))
	meg := env.addDeveloper(t, "meg", domain.CompetencyMedium, testutil.WithUserID("00000000-meg"))

	got, err := env.assign.ListAvailableDevelopers(ctx, task.ID, 3)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, meg.ID, got[0].DeveloperID)

	u, err := env.users.Get(ctx, "lou")
	require.NoError(t, err)
	u.Competency = domain.CompetencyHigh
	u.FullName = "Lou Reed"
	require.NoError(t, env.users.Update(ctx, u))

	got, err = env.assign.ListAvailableDevelopers(ctx, task.ID, 3)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, lou.ID, got[0].DeveloperID)
	assert.InDelta(t, 1.0, got[0].Score, 1e-9)
	assert.Equal(t, meg.ID, got[1].DeveloperID)

	stored, err := env.users.Get(ctx, lou.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lou Reed", stored.FullName)
	assert.True(t, stored.Enabled)

	ev, ok := env.events.last("user.update")
	require.True(t, ok)
	assert.True(t, ev.Success)
}

func TestUserService_UpdateKeepsLinksAndDropsCompetency(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	mgr := testutil.NewTestManager("mona")
	require.NoError(t, env.store.Users.Create(ctx, mgr))
	dev := env.addDeveloper(t, "dana", domain.CompetencyHigh, testutil.WithManager(mgr.ID), testutil.WithDisabled())

	u := *dev
	u.Role = domain.RoleClient
	u.ManagerID = ""
	u.Enabled = true
	require.NoError(t, env.users.Update(ctx, &u))

	stored, err := env.users.Get(ctx, dev.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleClient, stored.Role)
	assert.Empty(t, stored.Competency)
	assert.Equal(t, mgr.ID, stored.ManagerID, "manager link changes through SetManager")
	assert.False(t, stored.Enabled, "enabled flag changes through SetEnabled")
}

func TestUserService_UpdateRejects(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	_, mod := env.seedModule(t)
	task := env.addTask(t, mod, "Task")
	busy := env.addDeveloper(t, "busy", domain.CompetencyMedium)
	env.addDeveloper(t, "taken", domain.CompetencyMedium)
	_, err := env.assign.AssignTask(ctx, task.ID, busy.ID)
	require.NoError(t, err)

	mgr := testutil.NewTestManager("mona")
	require.NoError(t, env.store.Users.Create(ctx, mgr))
	proj := testutil.NewTestProject("Owned", testutil.WithManagerID(mgr.ID))
	require.NoError(t, env.hierarchy.CreateProject(ctx, proj))

	renamed := *busy
	renamed.Username = "Taken"
	demoted := *busy
	demoted.Role = domain.RoleClient
	noLevel := *busy
	noLevel.Competency = ""
	exManager := *mgr
	exManager.Role = domain.RoleDeveloper
	exManager.Competency = domain.CompetencyLow
	ghost := testutil.NewTestDeveloper("ghost", domain.CompetencyLow)

	tests := []struct {
		name string
		u    *domain.User
		want error
	}{
		{"username taken", &renamed, app.ErrConflict},
		{"developer with open work loses role", &demoted, app.ErrConflict},
		{"developer without level", &noLevel, app.ErrValidation},
		{"manager of a project loses role", &exManager, app.ErrConflict},
		{"unknown user", ghost, app.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, env.users.Update(ctx, tt.u), tt.want)
		})
	}

	stored, err := env.users.Get(ctx, busy.ID)
	require.NoError(t, err)
	assert.Equal(t, "busy", stored.Username)
	assert.Equal(t, domain.RoleDeveloper, stored.Role)
}

func TestUserService_Delete(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	mgr := testutil.NewTestManager("mona")
	require.NoError(t, env.store.Users.Create(ctx, mgr))
	idle := env.addDeveloper(t, "idle", domain.CompetencyLow)

	u, err := env.users.Delete(ctx, "idle")
	require.NoError(t, err)
	assert.Equal(t, idle.ID, u.ID)

	_, err = env.users.Get(ctx, idle.ID)
	assert.ErrorIs(t, err, app.ErrNotFound)

	_, err = env.users.Delete(ctx, "idle")
	assert.ErrorIs(t, err, app.ErrNotFound)

	_, err = env.users.Delete(ctx, "mona")
	require.NoError(t, err)
}

func TestUserService_DeleteRefuses(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	mgr := testutil.NewTestManager("mona")
	require.NoError(t, env.store.Users.Create(ctx, mgr))
	lead := testutil.NewTestManager("lead")
	require.NoError(t, env.store.Users.Create(ctx, lead))
	env.addDeveloper(t, "report", domain.CompetencyLow, testutil.WithManager(lead.ID))

	proj := testutil.NewTestProject("Owned", testutil.WithManagerID(mgr.ID))
	require.NoError(t, env.hierarchy.CreateProject(ctx, proj))
	mod := testutil.NewTestModule(proj.ID, "Mod")
	require.NoError(t, env.hierarchy.CreateModule(ctx, mod))

	busy := env.addDeveloper(t, "busy", domain.CompetencyMedium)
	open := env.addTask(t, mod, "Open")
	_, err := env.assign.AssignTask(ctx, open.ID, busy.ID)
	require.NoError(t, err)

	done := env.addDeveloper(t, "done", domain.CompetencyMedium)
	closed := env.addTask(t, mod, "Closed")
	_, err = env.assign.AssignTask(ctx, closed.ID, done.ID)
	require.NoError(t, err)
	_, err = env.assign.ApproveTask(ctx, closed.ID)
	require.NoError(t, err)

	for _, ref := range []string{"busy", "mona", "lead", "done"} {
		t.Run(ref, func(t *testing.T) {
			_, err := env.users.Delete(ctx, ref)
			assert.ErrorIs(t, err, app.ErrConflict)

			_, err = env.users.Get(ctx, ref)
			assert.NoError(t, err, "refused delete leaves the user in place")
		})
	}

	ev, ok := env.events.last("user.delete")
	require.True(t, ok)
	assert.False(t, ev.Success)
}
