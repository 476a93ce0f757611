package matching

import (
	"fmt"

	"github.com/alexanderramin/pmt/internal/domain"
)

// ExclusionCode says why a developer was not offered for a task.
type ExclusionCode string

const (
	ExcludedDisabled     ExclusionCode = "DISABLED"
	ExcludedNotDeveloper ExclusionCode = "NOT_DEVELOPER"
	ExcludedAtCapacity   ExclusionCode = "AT_CAPACITY"
	ExcludedCurrent      ExclusionCode = "CURRENT_ASSIGNEE"
)

// Exclusion explains a developer left out of the candidate list.
type Exclusion struct {
	Code    ExclusionCode
	Message string
}

// ScoringInput is one developer considered for one task. Current marks the
// developer who holds the task now.
type ScoringInput struct {
	DeveloperID  string
	Username     string
	Role         domain.Role
	Enabled      bool
	Competency   domain.CompetencyLevel
	OpenTasks    int
	Current      bool
	Complexity   domain.Complexity
	MaxOpenTasks int
}

type ScoredCandidate struct {
	Input    ScoringInput
	Score    float64
	Excluded *Exclusion
}

// Eligible reports whether the candidate may be offered.
func (c ScoredCandidate) Eligible() bool {
	return c.Excluded == nil
}

// ScoreDeveloper applies the eligibility rules in order and, for an eligible
// developer, looks up the matrix weight for their level and the task tier.
func ScoreDeveloper(input ScoringInput, matrix domain.CompetencyMatrix) ScoredCandidate {
	result := ScoredCandidate{Input: input}

	rules := []func(ScoringInput) *Exclusion{
		ruleDeveloperRole,
		ruleEnabled,
		ruleNotCurrent,
		ruleCapacity,
	}
	for _, rule := range rules {
		if ex := rule(input); ex != nil {
			result.Excluded = ex
			return result
		}
	}

	result.Score = matrix.Weight(input.Competency, input.Complexity)
	return result
}

func ruleDeveloperRole(in ScoringInput) *Exclusion {
	if in.Role != domain.RoleDeveloper {
		return &Exclusion{Code: ExcludedNotDeveloper, Message: fmt.Sprintf("%s is a %s, not a developer", in.Username, in.Role)}
	}
	return nil
}

func ruleEnabled(in ScoringInput) *Exclusion {
	if !in.Enabled {
		return &Exclusion{Code: ExcludedDisabled, Message: fmt.Sprintf("%s is disabled", in.Username)}
	}
	return nil
}

func ruleNotCurrent(in ScoringInput) *Exclusion {
	if in.Current {
		return &Exclusion{Code: ExcludedCurrent, Message: fmt.Sprintf("%s already holds the task", in.Username)}
	}
	return nil
}

func ruleCapacity(in ScoringInput) *Exclusion {
	if in.OpenTasks >= in.MaxOpenTasks {
		return &Exclusion{
			Code:    ExcludedAtCapacity,
			Message: fmt.Sprintf("%s has %d open tasks (limit %d)", in.Username, in.OpenTasks, in.MaxOpenTasks),
		}
	}
	return nil
}

// Rank scores every input and returns the eligible candidates in canonical
// order followed by the excluded ones, also sorted.
func Rank(inputs []ScoringInput, matrix domain.CompetencyMatrix) (eligible, excluded []ScoredCandidate) {
	for _, in := range inputs {
		c := ScoreDeveloper(in, matrix)
		if c.Eligible() {
			eligible = append(eligible, c)
		} else {
			excluded = append(excluded, c)
		}
	}
	CanonicalSort(eligible)
	CanonicalSort(excluded)
	return eligible, excluded
}
