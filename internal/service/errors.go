package service

import (
	"context"
	"errors"

	"github.com/alexanderramin/pmt/internal/app"
	"github.com/alexanderramin/pmt/internal/db"
	"github.com/alexanderramin/pmt/internal/domain"
	"github.com/alexanderramin/pmt/internal/repository"
)

// translate maps store and domain errors onto the app taxonomy. Errors that
// are already typed pass through with op filled in.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}

	var typed *app.Error
	if errors.As(err, &typed) {
		if typed.Op == "" {
			typed.Op = op
		}
		return typed
	}

	switch {
	case errors.Is(err, repository.ErrNotFound):
		return &app.Error{Code: app.ErrCodeNotFound, Op: op, Message: err.Error(), Err: err}
	case errors.Is(err, domain.ErrInvalidTransition):
		return app.InvalidTransition(op, err)
	case errors.Is(err, domain.ErrInvalidValue):
		return &app.Error{Code: app.ErrCodeValidation, Op: op, Message: err.Error(), Err: err}
	case errors.Is(err, repository.ErrConflict), db.IsBusy(err), db.IsConstraint(err):
		return &app.Error{Code: app.ErrCodeConflict, Op: op, Message: err.Error(), Err: err}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return app.PersistenceFailure(op, err)
	}
	return app.PersistenceFailure(op, err)
}
