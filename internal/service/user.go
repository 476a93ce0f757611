package service

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/pmt/internal/app"
	"github.com/alexanderramin/pmt/internal/db"
	"github.com/alexanderramin/pmt/internal/domain"
	"github.com/alexanderramin/pmt/internal/repository"
	"github.com/google/uuid"
)

type userService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewUserService(uow db.UnitOfWork, observers ...UseCaseObserver) UserService {
	return &userService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *userService) Create(ctx context.Context, u *domain.User) (err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "user.create", startedAt, map[string]any{"username": u.Username, "role": string(u.Role)}, err)
	}()

	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if !u.IsDeveloper() {
		u.Competency = ""
	}
	if verr := u.Validate(); verr != nil {
		return translate("CreateUser", verr)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		st := repository.NewStore(tx)
		if _, err := st.Users.GetByUsername(ctx, u.Username); err == nil {
			return app.Conflict("CreateUser", "username %s is taken", u.Username)
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		if err := requireManager(ctx, st, "CreateUser", u.ManagerID); err != nil {
			return err
		}
		return st.Users.Create(ctx, u)
	})
	return translate("CreateUser", err)
}

// Get looks a user up by id, then by username.
func (s *userService) Get(ctx context.Context, ref string) (*domain.User, error) {
	var u *domain.User
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		u, err = lookupUser(ctx, repository.NewStore(tx), ref)
		return err
	})
	return u, translate("GetUser", err)
}

func (s *userService) List(ctx context.Context) ([]*domain.User, error) {
	var out []*domain.User
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		out, err = repository.NewStore(tx).Users.List(ctx)
		return err
	})
	return out, translate("ListUsers", err)
}

// SetEnabled toggles whether the user can take new work. Existing
// assignments are left alone.
func (s *userService) SetEnabled(ctx context.Context, ref string, enabled bool) (u *domain.User, err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "user.set_enabled", startedAt, map[string]any{"user": ref, "enabled": enabled}, err)
	}()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		st := repository.NewStore(tx)
		var err error
		if u, err = lookupUser(ctx, st, ref); err != nil {
			return err
		}
		if err := st.Users.SetEnabled(ctx, u.ID, enabled); err != nil {
			return err
		}
		u.Enabled = enabled
		return nil
	})
	if err != nil {
		return nil, translate("SetEnabled", err)
	}
	return u, nil
}

// SetManager links a user to a manager. An empty managerRef clears the link.
func (s *userService) SetManager(ctx context.Context, ref, managerRef string) (u *domain.User, err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "user.set_manager", startedAt, map[string]any{"user": ref, "manager": managerRef}, err)
	}()

	const op = "SetManager"
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		st := repository.NewStore(tx)
		var err error
		if u, err = lookupUser(ctx, st, ref); err != nil {
			return err
		}
		managerID := ""
		if managerRef != "" {
			mgr, err := lookupUser(ctx, st, managerRef)
			if err != nil {
				return err
			}
			if mgr.ID == u.ID {
				return app.Validation(op, "user %s cannot manage themselves", u.Username)
			}
			if err := requireManager(ctx, st, op, mgr.ID); err != nil {
				return err
			}
			managerID = mgr.ID
		}
		if err := st.Users.SetManager(ctx, u.ID, managerID); err != nil {
			return err
		}
		u.ManagerID = managerID
		return nil
	})
	if err != nil {
		return nil, translate(op, err)
	}
	return u, nil
}

// Update writes the descriptive fields, role and competency. The enabled
// flag and manager link keep their stored values; they change through
// SetEnabled and SetManager.
func (s *userService) Update(ctx context.Context, u *domain.User) (err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "user.update", startedAt, map[string]any{"user_id": u.ID, "role": string(u.Role)}, err)
	}()

	const op = "UpdateUser"
	if !u.IsDeveloper() {
		u.Competency = ""
	}
	if verr := u.Validate(); verr != nil {
		return translate(op, verr)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		st := repository.NewStore(tx)
		cur, err := st.Users.GetByID(ctx, u.ID)
		if err != nil {
			return err
		}
		if other, err := st.Users.GetByUsername(ctx, u.Username); err == nil && other.ID != u.ID {
			return app.Conflict(op, "username %s is taken", u.Username)
		} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		if cur.IsDeveloper() && !u.IsDeveloper() {
			if err := requireNoOpenTasks(ctx, st, op, cur, "change the role of"); err != nil {
				return err
			}
		}
		if cur.IsManager() && !u.IsManager() {
			if err := requireNothingManaged(ctx, st, op, cur, "change the role of"); err != nil {
				return err
			}
		}
		u.ManagerID = cur.ManagerID
		u.Enabled = cur.Enabled
		return st.Users.Update(ctx, u)
	})
	return translate(op, err)
}

// Delete removes a user. It refuses while the user holds open tasks,
// manages projects or people, or appears in any assignment history;
// disabling is the way to retire such a developer.
func (s *userService) Delete(ctx context.Context, ref string) (u *domain.User, err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "user.delete", startedAt, map[string]any{"user": ref}, err)
	}()

	const op = "DeleteUser"
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		st := repository.NewStore(tx)
		var err error
		if u, err = lookupUser(ctx, st, ref); err != nil {
			return err
		}
		if err := requireNoOpenTasks(ctx, st, op, u, "delete"); err != nil {
			return err
		}
		if err := requireNothingManaged(ctx, st, op, u, "delete"); err != nil {
			return err
		}
		n, err := st.Assignments.CountByDeveloper(ctx, u.ID)
		if err != nil {
			return err
		}
		if n > 0 {
			return app.Conflict(op, "cannot delete %s: %d assignment(s) on record, disable the user instead", u.Username, n)
		}
		return st.Users.Delete(ctx, u.ID)
	})
	if err != nil {
		return nil, translate(op, err)
	}
	return u, nil
}

func requireNoOpenTasks(ctx context.Context, st *repository.Store, op string, u *domain.User, action string) error {
	open, err := st.Assignments.OpenTaskCounts(ctx)
	if err != nil {
		return err
	}
	if n := open[u.ID]; n > 0 {
		return app.Conflict(op, "cannot %s %s: %d task(s) in progress", action, u.Username, n)
	}
	return nil
}

func requireNothingManaged(ctx context.Context, st *repository.Store, op string, u *domain.User, action string) error {
	projects, err := st.Projects.ListByManager(ctx, u.ID)
	if err != nil {
		return err
	}
	if len(projects) > 0 {
		return app.Conflict(op, "cannot %s %s: manages %d project(s)", action, u.Username, len(projects))
	}
	reports, err := st.Users.ListDevelopers(ctx, u.ID, false)
	if err != nil {
		return err
	}
	if len(reports) > 0 {
		return app.Conflict(op, "cannot %s %s: %d developer(s) report to them", action, u.Username, len(reports))
	}
	return nil
}

func lookupUser(ctx context.Context, st *repository.Store, ref string) (*domain.User, error) {
	u, err := st.Users.GetByID(ctx, ref)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	return st.Users.GetByUsername(ctx, ref)
}
