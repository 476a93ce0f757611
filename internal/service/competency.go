package service

import (
	"context"
	"time"

	"github.com/alexanderramin/pmt/internal/db"
	"github.com/alexanderramin/pmt/internal/domain"
	"github.com/alexanderramin/pmt/internal/repository"
)

type competencyService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewCompetencyService(uow db.UnitOfWork, observers ...UseCaseObserver) CompetencyService {
	return &competencyService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

// Matrix returns the stored matrix with defaults filled in for missing levels.
func (s *competencyService) Matrix(ctx context.Context) (domain.CompetencyMatrix, error) {
	var m domain.CompetencyMatrix
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		m, err = repository.NewStore(tx).Competency.Get(ctx)
		return err
	})
	return m, translate("Matrix", err)
}

func (s *competencyService) SetWeights(ctx context.Context, level domain.CompetencyLevel, w domain.Weights) (err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "competency.set", startedAt, map[string]any{"level": string(level)}, err)
	}()
	return s.Replace(ctx, domain.CompetencyMatrix{level: w})
}

// Replace upserts every level in m in one transaction. Levels not in m keep
// their stored weights.
func (s *competencyService) Replace(ctx context.Context, m domain.CompetencyMatrix) (err error) {
	if verr := m.Validate(); verr != nil {
		return translate("SetMatrix", verr)
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		st := repository.NewStore(tx)
		for _, level := range domain.CompetencyLevels {
			w, ok := m[level]
			if !ok {
				continue
			}
			if err := st.Competency.Upsert(ctx, level, w); err != nil {
				return err
			}
		}
		return nil
	})
	return translate("SetMatrix", err)
}
