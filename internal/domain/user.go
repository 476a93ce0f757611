package domain

import (
	"fmt"
	"strings"
)

// User is a directory entry with a role tag. Competency is only
// meaningful for developers; ManagerID links a user to their manager.
type User struct {
	ID         string
	Username   string
	FullName   string
	Email      string
	Role       Role
	Competency CompetencyLevel
	ManagerID  string
	Enabled    bool
}

func (u *User) IsDeveloper() bool {
	return u.Role == RoleDeveloper
}

// IsManager reports whether the user may own projects and have reports.
func (u *User) IsManager() bool {
	return u.Role == RoleManager || u.Role == RoleAdministrator
}

// CanTakeWork reports whether the user may receive task assignments.
func (u *User) CanTakeWork() bool {
	return u.IsDeveloper() && u.Enabled
}

func (u *User) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return fmt.Errorf("%w: username is required", ErrInvalidValue)
	}
	if _, err := ParseRole(string(u.Role)); err != nil {
		return err
	}
	if u.IsDeveloper() {
		if _, err := ParseCompetencyLevel(string(u.Competency)); err != nil {
			return fmt.Errorf("developer %s: %w", u.Username, err)
		}
	}
	return nil
}

// DisplayName prefers the full name and falls back to the username.
func (u *User) DisplayName() string {
	return CoalesceStr(u.FullName, u.Username)
}
