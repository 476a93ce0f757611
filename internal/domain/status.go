package domain

import "time"

// transitions is the complete task workflow. New is initial, Approved is terminal.
var transitions = map[TaskStatus][]TaskStatus{
	TaskNew:        {TaskInProgress},
	TaskInProgress: {TaskApproved},
}

// CanTransition reports whether the workflow allows moving from one status to another.
func CanTransition(from, to TaskStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leaves s.
func (s TaskStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// Valid reports whether s is one of the known workflow states.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskNew, TaskInProgress, TaskApproved:
		return true
	}
	return false
}

// transition applies a workflow step. State is left untouched on error.
func (t *Task) transition(to TaskStatus, now time.Time) error {
	if !CanTransition(t.Status, to) {
		return &TransitionError{TaskID: t.ID, From: t.Status, To: to}
	}
	t.Status = to
	t.UpdatedAt = now
	if to == TaskApproved {
		end := now
		t.ActualEndDate = &end
	}
	return nil
}

// Start moves a New task to InProgress. Only a successful assignment calls this.
func (t *Task) Start(now time.Time) error {
	return t.transition(TaskInProgress, now)
}

// Approve closes an InProgress task and stamps its actual end date.
func (t *Task) Approve(now time.Time) error {
	return t.transition(TaskApproved, now)
}
