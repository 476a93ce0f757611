package domain

import (
	"fmt"
	"time"
)

type Task struct {
	ID          string
	ModuleID    string
	ProjectID   string
	Name        string
	Description string
	Complexity  Complexity
	Status      TaskStatus

	StartDate       time.Time
	ExpectedEndDate *time.Time
	ActualEndDate   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (t *Task) Validate() error {
	if err := validateSchedule("task", t.Name, t.StartDate, t.ExpectedEndDate); err != nil {
		return err
	}
	if _, err := ParseComplexity(string(t.Complexity)); err != nil {
		return err
	}
	if !t.Status.Valid() {
		return fmt.Errorf("%w: unknown task status %q", ErrInvalidValue, t.Status)
	}
	return nil
}

// IsOpen reports whether work on the task is in flight.
func (t *Task) IsOpen() bool {
	return t.Status == TaskInProgress
}

// Assignable reports whether the task can take a new assignment.
func (t *Task) Assignable() bool {
	return t.Status == TaskNew || t.Status == TaskInProgress
}
