package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTransition indicates a task status change the workflow does not allow.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidValue indicates malformed input such as an unknown complexity tier.
	ErrInvalidValue = errors.New("invalid value")
)

// TransitionError records the rejected from/to pair. It matches
// ErrInvalidTransition under errors.Is.
type TransitionError struct {
	TaskID string
	From   TaskStatus
	To     TaskStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("task %s: cannot move from %s to %s", e.TaskID, e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}
