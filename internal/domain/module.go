package domain

import "time"

// Module groups tasks inside exactly one project.
type Module struct {
	ID              string
	ProjectID       string
	Name            string
	Description     string
	StartDate       time.Time
	ExpectedEndDate *time.Time
	ActualEndDate   *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (m *Module) Validate() error {
	return validateSchedule("module", m.Name, m.StartDate, m.ExpectedEndDate)
}

func (m *Module) IsClosed() bool {
	return m.ActualEndDate != nil
}
