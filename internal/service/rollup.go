package service

import (
	"context"
	"time"

	"github.com/alexanderramin/pmt/internal/app"
	"github.com/alexanderramin/pmt/internal/db"
	"github.com/alexanderramin/pmt/internal/domain"
	"github.com/alexanderramin/pmt/internal/repository"
	"golang.org/x/sync/errgroup"
)

// portfolioConcurrency bounds the per-project rollups run in parallel.
const portfolioConcurrency = 4

type rollupService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewRollupService(uow db.UnitOfWork, observers ...UseCaseObserver) RollupService {
	return &rollupService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

// PercentComplete returns the completion of a project, module or task in
// [0, 1]. Items without tasks are 0.
func (s *rollupService) PercentComplete(ctx context.Context, kind domain.EntityKind, id string) (float64, error) {
	r, err := s.ItemReport(ctx, kind, id)
	if err != nil {
		return 0, err
	}
	return r.PercentComplete, nil
}

func (s *rollupService) ItemReport(ctx context.Context, kind domain.EntityKind, id string) (*app.ItemReport, error) {
	var out *app.ItemReport
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		out, err = itemReport(ctx, repository.NewStore(tx), kind, id)
		return err
	})
	if err != nil {
		return nil, translate("ItemReport", err)
	}
	return out, nil
}

func itemReport(ctx context.Context, st *repository.Store, kind domain.EntityKind, id string) (*app.ItemReport, error) {
	r := &app.ItemReport{Kind: kind, ID: id}
	var counts repository.TaskCounts

	switch kind {
	case domain.KindTask:
		t, err := st.Tasks.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		r.Name, r.StartDate, r.ExpectedEndDate, r.ActualEndDate = t.Name, t.StartDate, t.ExpectedEndDate, t.ActualEndDate
		counts.Total = 1
		switch t.Status {
		case domain.TaskNew:
			counts.New = 1
		case domain.TaskInProgress:
			counts.InProgress = 1
		case domain.TaskApproved:
			counts.Approved = 1
		}
		r.PercentComplete = domain.TaskCompletion(t.Status)
	case domain.KindModule:
		m, err := st.Modules.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		r.Name, r.StartDate, r.ExpectedEndDate, r.ActualEndDate = m.Name, m.StartDate, m.ExpectedEndDate, m.ActualEndDate
		if counts, err = st.Tasks.CountByModule(ctx, id); err != nil {
			return nil, err
		}
		r.PercentComplete = domain.CompletionRatio(counts.Approved, counts.Total)
	case domain.KindProject:
		p, err := st.Projects.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		r.Name, r.StartDate, r.ExpectedEndDate, r.ActualEndDate = p.Name, p.StartDate, p.ExpectedEndDate, p.ActualEndDate
		if counts, err = st.Tasks.CountByProject(ctx, id); err != nil {
			return nil, err
		}
		r.PercentComplete = domain.CompletionRatio(counts.Approved, counts.Total)
	default:
		return nil, app.Validation("ItemReport", "unknown entity kind %q", kind)
	}

	r.TotalTasks = counts.Total
	r.NewTasks = counts.New
	r.InProgressTasks = counts.InProgress
	r.ApprovedTasks = counts.Approved
	return r, nil
}

// PortfolioReport rolls up every project, or only the manager's when
// managerID is set. Projects are computed concurrently, each in its own
// read transaction; the result keeps listing order.
func (s *rollupService) PortfolioReport(ctx context.Context, managerID string) (entries []app.PortfolioEntry, err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "rollup.portfolio", startedAt,
			map[string]any{"manager_id": managerID, "projects": len(entries)}, err)
	}()

	var projects []*domain.Project
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		st := repository.NewStore(tx)
		var err error
		if managerID == "" {
			projects, err = st.Projects.List(ctx)
		} else {
			projects, err = st.Projects.ListByManager(ctx, managerID)
		}
		return err
	})
	if err != nil {
		return nil, translate("PortfolioReport", err)
	}

	out := make([]app.PortfolioEntry, len(projects))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(portfolioConcurrency)
	for i, p := range projects {
		g.Go(func() error {
			return s.uow.WithinTx(gctx, func(ctx context.Context, tx db.DBTX) error {
				counts, err := repository.NewStore(tx).Tasks.CountByProject(ctx, p.ID)
				if err != nil {
					return err
				}
				out[i] = app.PortfolioEntry{
					ProjectID:       p.ID,
					ProjectName:     p.Name,
					ManagerID:       p.ManagerID,
					ExpectedEndDate: p.ExpectedEndDate,
					ActualEndDate:   p.ActualEndDate,
					PercentComplete: domain.CompletionRatio(counts.Approved, counts.Total),
					TotalTasks:      counts.Total,
					ApprovedTasks:   counts.Approved,
				}
				return nil
			})
		})
	}
	if err := g.Wait(); err != nil {
		return nil, translate("PortfolioReport", err)
	}
	return out, nil
}
