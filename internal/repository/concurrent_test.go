package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/pmt/internal/db"
	"github.com/alexanderramin/pmt/internal/domain"
	"github.com/alexanderramin/pmt/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConcurrentAccess_ReadDuringWrite checks that counts read while tasks
// are being inserted are always internally consistent.
func TestConcurrentAccess_ReadDuringWrite(t *testing.T) {
	database := testutil.NewFileTestDB(t)
	ctx := context.Background()
	store := NewStore(database)
	_, mod := seedModule(t, database)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			if err := store.Tasks.Create(ctx, testutil.NewTestTask(mod, fmt.Sprintf("Task-%d", i))); err != nil {
				t.Errorf("writer: create task %d: %v", i, err)
				return
			}
		}
	}()

	for r := 0; r < 5; r++ {
		wg.Add(1)
		go func(reader int) {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				c, err := store.Tasks.CountByModule(ctx, mod.ID)
				if err != nil {
					t.Errorf("reader %d: count: %v", reader, err)
					return
				}
				if c.Total != c.New+c.InProgress+c.Approved {
					t.Errorf("reader %d: inconsistent counts %+v", reader, c)
				}
			}
		}(r)
	}

	wg.Wait()

	c, err := store.Tasks.CountByModule(ctx, mod.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, c.Total)
}

// TestConcurrentAccess_TransitionRace runs two transactions that both read a
// New task and then try to start it. Exactly one wins; the other sees
// ErrConflict and its assignment row is rolled back.
func TestConcurrentAccess_TransitionRace(t *testing.T) {
	database := testutil.NewFileTestDB(t)
	ctx := context.Background()
	store := NewStore(database)
	_, mod := seedModule(t, database)

	devs := []*domain.User{
		testutil.NewTestDeveloper("a", domain.CompetencyMedium),
		testutil.NewTestDeveloper("b", domain.CompetencyMedium),
	}
	for _, d := range devs {
		require.NoError(t, store.Users.Create(ctx, d))
	}
	task := testutil.NewTestTask(mod, "Race")
	require.NoError(t, store.Tasks.Create(ctx, task))

	uow := &testutil.SyncFirstWriteUoW{DB: database, Parties: 2, Timeout: 3 * time.Second}
	errs := make([]error, len(devs))

	var wg sync.WaitGroup
	for i, dev := range devs {
		wg.Add(1)
		go func(i int, dev *domain.User) {
			defer wg.Done()
			errs[i] = uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
				txStore := NewStore(tx)
				cur, err := txStore.Tasks.GetByID(ctx, task.ID)
				if err != nil {
					return err
				}
				if cur.Status != domain.TaskNew {
					return fmt.Errorf("task already %s", cur.Status)
				}
				now := time.Now().UTC()
				if err := txStore.Tasks.TransitionStatus(ctx, task.ID, domain.TaskNew, domain.TaskInProgress, nil, now); err != nil {
					return err
				}
				return txStore.Assignments.Append(ctx, &domain.TaskAssignment{TaskID: task.ID, Seq: 1, DeveloperID: dev.ID, AssignedAt: now})
			})
		}(i, dev)
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrConflict):
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, conflicts)

	hist, err := store.Assignments.History(ctx, task.ID)
	require.NoError(t, err)
	assert.Len(t, hist, 1)

	fetched, err := store.Tasks.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskInProgress, fetched.Status)
}
