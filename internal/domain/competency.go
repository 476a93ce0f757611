package domain

import (
	"fmt"
	"math"
)

// Weights holds one score per complexity tier.
type Weights struct {
	Low    float64
	Medium float64
	High   float64
}

func (w Weights) For(c Complexity) float64 {
	switch c {
	case ComplexityLow:
		return w.Low
	case ComplexityMedium:
		return w.Medium
	case ComplexityHigh:
		return w.High
	}
	return 0
}

func (w Weights) Validate() error {
	for _, c := range Complexities {
		v := w.For(c)
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%w: weight for %s complexity must be a finite non-negative number, got %v",
				ErrInvalidValue, c, v)
		}
	}
	return nil
}

// CompetencyMatrix maps a developer's competency level to a weight per
// complexity tier.
type CompetencyMatrix map[CompetencyLevel]Weights

// DefaultCompetencyMatrix favours matching level to tier and penalises
// giving hard work to low-rated developers.
func DefaultCompetencyMatrix() CompetencyMatrix {
	return CompetencyMatrix{
		CompetencyLow:    {Low: 1.0, Medium: 0.5, High: 0.1},
		CompetencyMedium: {Low: 0.8, Medium: 1.0, High: 0.6},
		CompetencyHigh:   {Low: 0.6, Medium: 0.9, High: 1.0},
	}
}

// Weight returns the score for assigning a task of the given complexity to a
// developer of the given level. Unknown levels score zero.
func (m CompetencyMatrix) Weight(level CompetencyLevel, c Complexity) float64 {
	w, ok := m[level]
	if !ok {
		return 0
	}
	return w.For(c)
}

// WithDefaults fills any missing level from DefaultCompetencyMatrix.
func (m CompetencyMatrix) WithDefaults() CompetencyMatrix {
	out := DefaultCompetencyMatrix()
	for level, w := range m {
		out[level] = w
	}
	return out
}

func (m CompetencyMatrix) Validate() error {
	for level, w := range m {
		if _, err := ParseCompetencyLevel(string(level)); err != nil {
			return err
		}
		if err := w.Validate(); err != nil {
			return fmt.Errorf("level %s: %w", level, err)
		}
	}
	return nil
}
