package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/pmt/internal/app"
	"github.com/alexanderramin/pmt/internal/db"
	"github.com/alexanderramin/pmt/internal/importer"
	"github.com/alexanderramin/pmt/internal/repository"
)

type importService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewImportService(uow db.UnitOfWork, observers ...UseCaseObserver) ImportService {
	return &importService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *importService) ImportFile(ctx context.Context, path string) (*app.ImportResult, error) {
	schema, err := importer.LoadHierarchyFile(path)
	if err != nil {
		return nil, app.Validation("ImportFile", "%v", err)
	}
	return s.Import(ctx, schema)
}

// Import validates the whole document, then inserts the project, modules
// and tasks in one transaction.
func (s *importService) Import(ctx context.Context, schema *importer.HierarchySchema) (result *app.ImportResult, err error) {
	startedAt := time.Now()
	defer func() {
		fields := map[string]any{"project": schema.Project.Name}
		if result != nil {
			fields["modules"] = result.ModuleCount
			fields["tasks"] = result.TaskCount
		}
		observe(ctx, s.observer, "import.hierarchy", startedAt, fields, err)
	}()

	const op = "Import"
	if errs := importer.ValidateHierarchy(schema); len(errs) > 0 {
		return nil, &app.Error{
			Code:    app.ErrCodeValidation,
			Op:      op,
			Message: fmt.Sprintf("import has %d error(s): %v", len(errs), errors.Join(errs...)),
			Err:     errors.Join(errs...),
		}
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		st := repository.NewStore(tx)
		managerID := ""
		if schema.Project.Manager != "" {
			mgr, err := st.Users.GetByUsername(ctx, schema.Project.Manager)
			if errors.Is(err, repository.ErrNotFound) {
				return app.NotFound(op, "manager %s not found", schema.Project.Manager)
			}
			if err != nil {
				return err
			}
			if err := requireManager(ctx, st, op, mgr.ID); err != nil {
				return err
			}
			managerID = mgr.ID
		}

		h, err := importer.Convert(schema, managerID, nowUTC())
		if err != nil {
			return err
		}
		if err := st.Projects.Create(ctx, h.Project); err != nil {
			return err
		}
		for _, m := range h.Modules {
			if err := st.Modules.Create(ctx, m); err != nil {
				return err
			}
		}
		for _, t := range h.Tasks {
			if err := st.Tasks.Create(ctx, t); err != nil {
				return err
			}
		}
		result = &app.ImportResult{Project: h.Project, ModuleCount: len(h.Modules), TaskCount: len(h.Tasks)}
		return nil
	})
	if err != nil {
		return nil, translate(op, err)
	}
	return result, nil
}
