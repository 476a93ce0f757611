package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/pmt/internal/db"
)

// FailOnNthExecUoW is a test UoW that injects an error on the Nth ExecContext
// call within a transaction, so rollback tests can fail a multi-write
// operation at a precise step.
//
// ExecContext calls are counted starting at 1. Reads are not counted.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int32
	Err    error
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	wrapped := &failOnNthExec{DBTX: tx, failOn: u.FailOn, err: u.Err}
	if fnErr := fn(ctx, wrapped); fnErr != nil {
		_ = tx.Rollback()
		return fnErr
	}
	return tx.Commit()
}

type failOnNthExec struct {
	db.DBTX
	count  atomic.Int32
	failOn int32
	err    error
}

func (f *failOnNthExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	n := f.count.Add(1)
	if n == f.failOn {
		return nil, f.err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}

// SyncFirstWriteUoW holds the first write of each transaction until Parties
// transactions have reached their first write, or Timeout passes. Every
// participant has finished its reads before anyone writes, which makes
// lost-update races reproducible.
type SyncFirstWriteUoW struct {
	DB      *sql.DB
	Parties int
	Timeout time.Duration

	mu      sync.Mutex
	arrived int
	ready   chan struct{}
}

func (u *SyncFirstWriteUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return db.NewSQLUnitOfWork(u.DB).WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &barrierExec{DBTX: tx, uow: u})
	})
}

func (u *SyncFirstWriteUoW) arrive() {
	u.mu.Lock()
	if u.ready == nil {
		u.ready = make(chan struct{})
	}
	u.arrived++
	if u.arrived == u.Parties {
		close(u.ready)
	}
	ready := u.ready
	u.mu.Unlock()

	timeout := u.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	select {
	case <-ready:
	case <-time.After(timeout):
	}
}

type barrierExec struct {
	db.DBTX
	uow  *SyncFirstWriteUoW
	once sync.Once
}

func (b *barrierExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	b.once.Do(b.uow.arrive)
	return b.DBTX.ExecContext(ctx, query, args...)
}
