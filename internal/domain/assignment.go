package domain

import "time"

// TaskAssignment is one entry in a task's append-only assignment history.
// The entry with the highest Seq is the current assignment.
type TaskAssignment struct {
	TaskID      string
	Seq         int
	DeveloperID string
	AssignedAt  time.Time
}

// IsReassignment reports whether the entry replaced an earlier developer.
func (a *TaskAssignment) IsReassignment() bool {
	return a.Seq > 1
}
