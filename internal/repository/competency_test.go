package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/pmt/internal/domain"
	"github.com/alexanderramin/pmt/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompetencyRepo_DefaultsWhenEmpty(t *testing.T) {
	repo := NewSQLCompetencyRepo(testutil.NewTestDB(t))

	m, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCompetencyMatrix(), m)
}

func TestCompetencyRepo_UpsertOverridesOneLevel(t *testing.T) {
	repo := NewSQLCompetencyRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	w := domain.Weights{Low: 0.3, Medium: 0.3, High: 0.3}
	require.NoError(t, repo.Upsert(ctx, domain.CompetencyLow, w))

	m, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, w, m[domain.CompetencyLow])
	assert.Equal(t, domain.DefaultCompetencyMatrix()[domain.CompetencyHigh], m[domain.CompetencyHigh])

	// Second write takes the update path.
	w2 := domain.Weights{Low: 0.9, Medium: 0.1, High: 0}
	require.NoError(t, repo.Upsert(ctx, domain.CompetencyLow, w2))
	m, err = repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, w2, m[domain.CompetencyLow])
}
