package domain

import (
	"fmt"
	"strings"
)

type TaskStatus string

const (
	TaskNew        TaskStatus = "new"
	TaskInProgress TaskStatus = "in_progress"
	TaskApproved   TaskStatus = "approved"
)

// ParseTaskStatus accepts the canonical spelling plus the hyphenated and
// CamelCase forms used in import files ("in-progress", "InProgress").
func ParseTaskStatus(s string) (TaskStatus, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	switch norm {
	case "new", "":
		return TaskNew, nil
	case "in_progress", "inprogress":
		return TaskInProgress, nil
	case "approved":
		return TaskApproved, nil
	}
	return "", fmt.Errorf("%w: unknown task status %q", ErrInvalidValue, s)
}

// Complexity is the difficulty tier of a task. It indexes the competency matrix.
type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// Complexities lists the tiers in ascending order.
var Complexities = []Complexity{ComplexityLow, ComplexityMedium, ComplexityHigh}

func ParseComplexity(s string) (Complexity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "l":
		return ComplexityLow, nil
	case "medium", "med", "m":
		return ComplexityMedium, nil
	case "high", "h":
		return ComplexityHigh, nil
	}
	return "", fmt.Errorf("%w: unknown complexity tier %q", ErrInvalidValue, s)
}

// CompetencyLevel is a developer's skill rating.
type CompetencyLevel string

const (
	CompetencyLow    CompetencyLevel = "low"
	CompetencyMedium CompetencyLevel = "medium"
	CompetencyHigh   CompetencyLevel = "high"
)

// CompetencyLevels lists the levels in ascending order.
var CompetencyLevels = []CompetencyLevel{CompetencyLow, CompetencyMedium, CompetencyHigh}

func ParseCompetencyLevel(s string) (CompetencyLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "l":
		return CompetencyLow, nil
	case "medium", "med", "m":
		return CompetencyMedium, nil
	case "high", "h":
		return CompetencyHigh, nil
	}
	return "", fmt.Errorf("%w: unknown competency level %q", ErrInvalidValue, s)
}

type Role string

const (
	RoleClient        Role = "client"
	RoleDeveloper     Role = "developer"
	RoleManager       Role = "manager"
	RoleAdministrator Role = "administrator"
)

func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "client":
		return RoleClient, nil
	case "developer", "dev":
		return RoleDeveloper, nil
	case "manager", "mgr":
		return RoleManager, nil
	case "administrator", "admin":
		return RoleAdministrator, nil
	}
	return "", fmt.Errorf("%w: unknown role %q", ErrInvalidValue, s)
}

// EntityKind names a level of the project hierarchy.
type EntityKind string

const (
	KindProject EntityKind = "project"
	KindModule  EntityKind = "module"
	KindTask    EntityKind = "task"
)

func ParseEntityKind(s string) (EntityKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "project", "p":
		return KindProject, nil
	case "module", "m":
		return KindModule, nil
	case "task", "t":
		return KindTask, nil
	}
	return "", fmt.Errorf("%w: unknown entity kind %q", ErrInvalidValue, s)
}
