package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/pmt/internal/domain"
	"github.com/alexanderramin/pmt/internal/repository"
)

// syncCompletion brings the actual end dates of a project and its modules in
// line with their tasks. A module is complete when it has tasks and all are
// approved; a project when it has modules and all are complete. Dates are
// set when an item becomes complete and cleared when it stops being so.
func syncCompletion(ctx context.Context, st *repository.Store, projectID string, now time.Time) error {
	project, err := st.Projects.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	modules, err := repository.Collect(st.Modules.ListChildren(ctx, projectID))
	if err != nil {
		return err
	}
	counts, err := st.Tasks.CountPerModule(ctx, projectID)
	if err != nil {
		return err
	}

	allDone := len(modules) > 0
	for _, m := range modules {
		c := counts[m.ID]
		done := domain.ModuleComplete(c.Approved, c.Total)
		if !done {
			allDone = false
		}
		if err := syncEnd(done, m.ActualEndDate, now, func(end *time.Time) error {
			return st.Modules.SetActualEnd(ctx, m.ID, end)
		}); err != nil {
			return fmt.Errorf("closing module %s: %w", m.ID, err)
		}
	}

	if err := syncEnd(allDone, project.ActualEndDate, now, func(end *time.Time) error {
		return st.Projects.SetActualEnd(ctx, project.ID, end)
	}); err != nil {
		return fmt.Errorf("closing project %s: %w", project.ID, err)
	}
	return nil
}

func syncEnd(done bool, current *time.Time, now time.Time, set func(*time.Time) error) error {
	switch {
	case done && current == nil:
		return set(&now)
	case !done && current != nil:
		return set(nil)
	}
	return nil
}

// nowUTC is the timestamp written by every mutation, truncated to the
// precision the store keeps.
func nowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

func today() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}
