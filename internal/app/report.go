package app

import (
	"time"

	"github.com/alexanderramin/pmt/internal/domain"
)

// ItemReport summarises one project, module or task.
type ItemReport struct {
	Kind            domain.EntityKind
	ID              string
	Name            string
	StartDate       time.Time
	ExpectedEndDate *time.Time
	ActualEndDate   *time.Time
	PercentComplete float64
	TotalTasks      int
	NewTasks        int
	InProgressTasks int
	ApprovedTasks   int
}

// PortfolioEntry is one row of a manager's portfolio.
type PortfolioEntry struct {
	ProjectID       string
	ProjectName     string
	ManagerID       string
	ExpectedEndDate *time.Time
	ActualEndDate   *time.Time
	PercentComplete float64
	TotalTasks      int
	ApprovedTasks   int
}

// ImportResult holds the outcome of a hierarchy import.
type ImportResult struct {
	Project     *domain.Project
	ModuleCount int
	TaskCount   int
}
