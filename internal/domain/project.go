package domain

import (
	"fmt"
	"strings"
	"time"
)

type Project struct {
	ID              string
	Name            string
	Description     string
	ManagerID       string
	StartDate       time.Time
	ExpectedEndDate *time.Time
	ActualEndDate   *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Validate checks the fields a manager can edit.
func (p *Project) Validate() error {
	return validateSchedule("project", p.Name, p.StartDate, p.ExpectedEndDate)
}

// IsClosed reports whether every module of the project has been completed.
func (p *Project) IsClosed() bool {
	return p.ActualEndDate != nil
}

// DisplayID returns the first 8 characters of the ID.
func (p *Project) DisplayID() string {
	return ShortID(p.ID)
}

// ShortID truncates a UUID for display.
func ShortID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func validateSchedule(kind, name string, start time.Time, expectedEnd *time.Time) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: %s name is required", ErrInvalidValue, kind)
	}
	if expectedEnd != nil && !start.IsZero() && expectedEnd.Before(start) {
		return fmt.Errorf("%w: %s expected end date %s is before start date %s",
			ErrInvalidValue, kind, expectedEnd.Format("2006-01-02"), start.Format("2006-01-02"))
	}
	return nil
}
