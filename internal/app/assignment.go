package app

import (
	"time"

	"github.com/alexanderramin/pmt/internal/domain"
)

// AvailableDeveloper is one ranked candidate for a task.
type AvailableDeveloper struct {
	DeveloperID   string
	Username      string
	Competency    domain.CompetencyLevel
	Score         float64
	OpenTaskCount int
}

// ExcludedDeveloper is a developer left out of the ranking, with the reason.
type ExcludedDeveloper struct {
	DeveloperID   string
	Username      string
	OpenTaskCount int
	Code          string
	Reason        string
}

// CandidateReport is the full answer to "who could take this task".
type CandidateReport struct {
	Task         *domain.Task
	MaxOpenTasks int
	Available    []AvailableDeveloper
	Excluded     []ExcludedDeveloper
}

// AssignmentEntry is one history row with the developer's username.
type AssignmentEntry struct {
	domain.TaskAssignment
	Username string
	Current  bool
}

// DeveloperTask is a task currently assigned to a developer.
type DeveloperTask struct {
	Task       *domain.Task
	AssignedAt time.Time
}
