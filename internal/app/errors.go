package app

import (
	"errors"
	"fmt"
)

// ErrorCode classifies every failure a caller of the engine can see.
type ErrorCode string

const (
	ErrCodeNotFound           ErrorCode = "NOT_FOUND"
	ErrCodeInvalidTransition  ErrorCode = "INVALID_TRANSITION"
	ErrCodeConflict           ErrorCode = "CONFLICT"
	ErrCodeValidation         ErrorCode = "VALIDATION_ERROR"
	ErrCodePersistenceFailure ErrorCode = "PERSISTENCE_FAILURE"
)

// Sentinels for errors.Is. An *Error matches the sentinel of its code.
var (
	ErrNotFound           = &Error{Code: ErrCodeNotFound}
	ErrInvalidTransition  = &Error{Code: ErrCodeInvalidTransition}
	ErrConflict           = &Error{Code: ErrCodeConflict}
	ErrValidation         = &Error{Code: ErrCodeValidation}
	ErrPersistenceFailure = &Error{Code: ErrCodePersistenceFailure}
)

// Error is the typed error returned by every service operation.
type Error struct {
	Code    ErrorCode
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		return string(e.Code)
	}
	return string(e.Code) + ": " + msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error with the same code, so errors.Is(err, ErrConflict)
// works regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// CodeOf returns the code of the first *Error in err's chain, or
// PERSISTENCE_FAILURE for anything untyped.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrCodePersistenceFailure
}

func newError(code ErrorCode, op string, err error, format string, args ...any) *Error {
	return &Error{Code: code, Op: op, Message: fmt.Sprintf(format, args...), Err: err}
}

func NotFound(op, format string, args ...any) *Error {
	return newError(ErrCodeNotFound, op, nil, format, args...)
}

func InvalidTransition(op string, err error) *Error {
	return &Error{Code: ErrCodeInvalidTransition, Op: op, Message: err.Error(), Err: err}
}

func Conflict(op, format string, args ...any) *Error {
	return newError(ErrCodeConflict, op, nil, format, args...)
}

func Validation(op, format string, args ...any) *Error {
	return newError(ErrCodeValidation, op, nil, format, args...)
}

func PersistenceFailure(op string, err error) *Error {
	return &Error{Code: ErrCodePersistenceFailure, Op: op, Message: err.Error(), Err: err}
}
