package app

import "github.com/alexanderramin/pmt/internal/domain"

// ProjectHierarchy is a project with its modules and their tasks nested in
// id order.
type ProjectHierarchy struct {
	Project         *domain.Project
	Modules         []ModuleNode
	PercentComplete float64
}

type ModuleNode struct {
	Module          *domain.Module
	Tasks           []TaskNode
	PercentComplete float64
}

// TaskNode carries the current assignment, if any.
type TaskNode struct {
	Task       *domain.Task
	Assignment *domain.TaskAssignment
}

// TaskCount returns the number of tasks across all modules.
func (h *ProjectHierarchy) TaskCount() int {
	n := 0
	for _, m := range h.Modules {
		n += len(m.Tasks)
	}
	return n
}
