package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/pmt/internal/domain"
	"github.com/alexanderramin/pmt/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepo_CreateAndLookup(t *testing.T) {
	repo := NewSQLUserRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	dev := testutil.NewTestDeveloper("Dana", domain.CompetencyHigh)
	require.NoError(t, repo.Create(ctx, dev))

	byID, err := repo.GetByID(ctx, dev.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleDeveloper, byID.Role)
	assert.Equal(t, domain.CompetencyHigh, byID.Competency)
	assert.True(t, byID.Enabled)
	assert.Empty(t, byID.ManagerID)

	byName, err := repo.GetByUsername(ctx, "dana")
	require.NoError(t, err)
	assert.Equal(t, dev.ID, byName.ID)

	_, err = repo.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepo_DuplicateUsername(t *testing.T) {
	repo := NewSQLUserRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestUser("sam")))
	assert.ErrorIs(t, repo.Create(ctx, testutil.NewTestUser("sam")), ErrConflict)
}

func TestUserRepo_ManagerRoleHasNoCompetency(t *testing.T) {
	repo := NewSQLUserRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	mgr := testutil.NewTestManager("boss")
	require.NoError(t, repo.Create(ctx, mgr))

	fetched, err := repo.GetByID(ctx, mgr.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleManager, fetched.Role)
	assert.Empty(t, fetched.Competency)
}

func TestUserRepo_ListDevelopersFilters(t *testing.T) {
	repo := NewSQLUserRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	mgr := testutil.NewTestManager("mgr")
	require.NoError(t, repo.Create(ctx, mgr))

	mine := testutil.NewTestDeveloper("mine", domain.CompetencyLow, testutil.WithManager(mgr.ID))
	disabled := testutil.NewTestDeveloper("off", domain.CompetencyLow, testutil.WithManager(mgr.ID), testutil.WithDisabled())
	loose := testutil.NewTestDeveloper("loose", domain.CompetencyHigh)
	client := testutil.NewTestUser("client", testutil.WithRole(domain.RoleClient))
	for _, u := range []*domain.User{mine, disabled, loose, client} {
		require.NoError(t, repo.Create(ctx, u))
	}

	all, err := repo.ListDevelopers(ctx, "", false)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	enabled, err := repo.ListDevelopers(ctx, "", true)
	require.NoError(t, err)
	assert.Len(t, enabled, 2)

	team, err := repo.ListDevelopers(ctx, mgr.ID, true)
	require.NoError(t, err)
	require.Len(t, team, 1)
	assert.Equal(t, "mine", team[0].Username)

	everyone, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, everyone, 5)
}

func TestUserRepo_SetEnabledAndManager(t *testing.T) {
	repo := NewSQLUserRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	mgr := testutil.NewTestManager("mgr")
	dev := testutil.NewTestDeveloper("dev", domain.CompetencyMedium)
	require.NoError(t, repo.Create(ctx, mgr))
	require.NoError(t, repo.Create(ctx, dev))

	require.NoError(t, repo.SetEnabled(ctx, dev.ID, false))
	require.NoError(t, repo.SetManager(ctx, dev.ID, mgr.ID))

	fetched, err := repo.GetByID(ctx, dev.ID)
	require.NoError(t, err)
	assert.False(t, fetched.Enabled)
	assert.Equal(t, mgr.ID, fetched.ManagerID)

	assert.ErrorIs(t, repo.SetManager(ctx, dev.ID, "missing"), ErrConflict)
	assert.ErrorIs(t, repo.SetEnabled(ctx, "missing", true), ErrNotFound)

	require.NoError(t, repo.SetManager(ctx, dev.ID, ""))
	fetched, err = repo.GetByID(ctx, dev.ID)
	require.NoError(t, err)
	assert.Empty(t, fetched.ManagerID)
}

func TestUserRepo_Update(t *testing.T) {
	repo := NewSQLUserRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	dev := testutil.NewTestDeveloper("dev", domain.CompetencyLow)
	require.NoError(t, repo.Create(ctx, dev))

	dev.FullName = "Dev Eloper"
	dev.Email = "dev@example.com"
	dev.Competency = domain.CompetencyHigh
	require.NoError(t, repo.Update(ctx, dev))

	fetched, err := repo.GetByID(ctx, dev.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dev Eloper", fetched.FullName)
	assert.Equal(t, "dev@example.com", fetched.Email)
	assert.Equal(t, domain.CompetencyHigh, fetched.Competency)
	assert.True(t, fetched.Enabled)

	ghost := testutil.NewTestDeveloper("ghost", domain.CompetencyLow)
	assert.ErrorIs(t, repo.Update(ctx, ghost), ErrNotFound)
}

func TestUserRepo_DeleteClearsReports(t *testing.T) {
	repo := NewSQLUserRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	mgr := testutil.NewTestManager("mgr")
	require.NoError(t, repo.Create(ctx, mgr))
	dev := testutil.NewTestDeveloper("dev", domain.CompetencyLow, testutil.WithManager(mgr.ID))
	require.NoError(t, repo.Create(ctx, dev))

	require.NoError(t, repo.Delete(ctx, mgr.ID))

	_, err := repo.GetByID(ctx, mgr.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	fetched, err := repo.GetByID(ctx, dev.ID)
	require.NoError(t, err)
	assert.Empty(t, fetched.ManagerID)

	assert.ErrorIs(t, repo.Delete(ctx, mgr.ID), ErrNotFound)
}
