package service

import (
	"context"
	"math"
	"testing"

	"github.com/alexanderramin/pmt/internal/app"
	"github.com/alexanderramin/pmt/internal/domain"
	"github.com/alexanderramin/pmt/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompetencyService_DefaultsAndSet(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	m, err := env.competency.Matrix(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCompetencyMatrix(), m)

	w := domain.Weights{Low: 0.2, Medium: 0.4, High: 0.9}
	require.NoError(t, env.competency.SetWeights(ctx, domain.CompetencyLow, w))

	m, err = env.competency.Matrix(ctx)
	require.NoError(t, err)
	assert.Equal(t, w, m[domain.CompetencyLow])
	assert.Equal(t, domain.DefaultCompetencyMatrix()[domain.CompetencyHigh], m[domain.CompetencyHigh])
}

func TestCompetencyService_RejectsBadWeights(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	err := env.competency.SetWeights(ctx, domain.CompetencyMedium, domain.Weights{Low: -1})
	assert.ErrorIs(t, err, app.ErrValidation)
	err = env.competency.SetWeights(ctx, domain.CompetencyMedium, domain.Weights{High: math.Inf(1)})
	assert.ErrorIs(t, err, app.ErrValidation)
	err = env.competency.SetWeights(ctx, "guru", domain.Weights{})
	assert.ErrorIs(t, err, app.ErrValidation)

	m, err := env.competency.Matrix(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCompetencyMatrix(), m)
}

func TestCompetencyService_MatrixDrivesRanking(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	_, mod := env.seedModule(t)
	task := env.addTask(t, mod, "Easy", testutil.WithComplexity(domain.ComplexityLow))
	low := env.addDeveloper(t, "lou", domain.CompetencyLow)
	high := env.addDeveloper(t, "hal", domain.CompetencyHigh)

	got, err := env.assign.ListAvailableDevelopers(ctx, task.ID, 3)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, low.ID, got[0].DeveloperID)

	require.NoError(t, env.competency.Replace(ctx, domain.CompetencyMatrix{
		domain.CompetencyHigh: {Low: 1.0, Medium: 1.0, High: 1.0},
		domain.CompetencyLow:  {Low: 0.3, Medium: 0.2, High: 0.1},
	}))

	got, err = env.assign.ListAvailableDevelopers(ctx, task.ID, 3)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, high.ID, got[0].DeveloperID)
	assert.InDelta(t, 0.3, got[1].Score, 1e-9)
}
