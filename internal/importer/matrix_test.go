package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/pmt/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMatrix_PartialOverride(t *testing.T) {
	m, err := ParseMatrix(`
[low]
high = 0.0

[high]
low = 0.25
medium = 0.75
high = 1.5
`)
	require.NoError(t, err)

	def := domain.DefaultCompetencyMatrix()
	assert.Equal(t, domain.Weights{Low: def[domain.CompetencyLow].Low, Medium: def[domain.CompetencyLow].Medium, High: 0}, m[domain.CompetencyLow])
	assert.Equal(t, def[domain.CompetencyMedium], m[domain.CompetencyMedium])
	assert.Equal(t, domain.Weights{Low: 0.25, Medium: 0.75, High: 1.5}, m[domain.CompetencyHigh])
}

func TestParseMatrix_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"unknown level", "[expert]\nlow = 1.0\n", "unknown competency level"},
		{"unknown tier", "[low]\nextreme = 1.0\n", "unknown matrix keys: low.extreme"},
		{"negative weight", "[medium]\nhigh = -0.5\n", "finite non-negative"},
		{"syntax", "[low\n", "parsing matrix file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMatrix(tt.doc)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadMatrixFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matrix.toml")
	require.NoError(t, os.WriteFile(path, []byte("[medium]\nlow = 0.4\nmedium = 0.9\nhigh = 0.7\n"), 0o644))

	m, err := LoadMatrixFile(path)
	require.NoError(t, err)
	assert.InDelta(t, 0.4, m.Weight(domain.CompetencyMedium, domain.ComplexityLow), 1e-9)
	assert.Len(t, m, 3)
}
