package importer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/alexanderramin/pmt/internal/domain"
)

type weightsImport struct {
	Low    *float64 `toml:"low"`
	Medium *float64 `toml:"medium"`
	High   *float64 `toml:"high"`
}

// ParseMatrix decodes a TOML competency matrix. Each table is a competency
// level holding one weight per complexity tier. Levels and tiers left out
// keep their default weights.
func ParseMatrix(data string) (domain.CompetencyMatrix, error) {
	var raw map[string]weightsImport
	md, err := toml.Decode(data, &raw)
	if err != nil {
		return nil, fmt.Errorf("parsing matrix file: %w", err)
	}
	return buildMatrix(raw, md)
}

// LoadMatrixFile reads and parses a TOML competency matrix file.
func LoadMatrixFile(path string) (domain.CompetencyMatrix, error) {
	var raw map[string]weightsImport
	md, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return nil, fmt.Errorf("parsing matrix file: %w", err)
	}
	return buildMatrix(raw, md)
}

func buildMatrix(raw map[string]weightsImport, md toml.MetaData) (domain.CompetencyMatrix, error) {
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("%w: unknown matrix keys: %s", domain.ErrInvalidValue, strings.Join(keys, ", "))
	}

	defaults := domain.DefaultCompetencyMatrix()
	m := make(domain.CompetencyMatrix, len(raw))
	for name, wi := range raw {
		level, err := domain.ParseCompetencyLevel(name)
		if err != nil {
			return nil, err
		}
		w := defaults[level]
		if wi.Low != nil {
			w.Low = *wi.Low
		}
		if wi.Medium != nil {
			w.Medium = *wi.Medium
		}
		if wi.High != nil {
			w.High = *wi.High
		}
		m[level] = w
	}
	m = m.WithDefaults()
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}
