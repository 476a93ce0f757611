package importer

import (
	"fmt"
	"time"

	"github.com/alexanderramin/pmt/internal/domain"
	"github.com/google/uuid"
)

// Hierarchy is a converted import ready for persistence. Modules and tasks
// keep document order.
type Hierarchy struct {
	Project *domain.Project
	Modules []*domain.Module
	Tasks   []*domain.Task
}

// Convert transforms a validated HierarchySchema into domain objects.
// Call ValidateHierarchy first; Convert assumes the schema is valid.
// managerID is the resolved id of project.manager, or "".
// Missing start dates inherit from the parent, and the project falls back to today.
func Convert(schema *HierarchySchema, managerID string, now time.Time) (*Hierarchy, error) {
	now = now.UTC()
	today := now.Truncate(24 * time.Hour)

	projectStart, err := parseDateOr(schema.Project.StartDate, today)
	if err != nil {
		return nil, fmt.Errorf("parsing project.start_date: %w", err)
	}

	project := &domain.Project{
		ID:              uuid.New().String(),
		Name:            schema.Project.Name,
		Description:     schema.Project.Description,
		ManagerID:       managerID,
		StartDate:       projectStart,
		ExpectedEndDate: parseOptionalDate(schema.Project.ExpectedEndDate),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	out := &Hierarchy{Project: project}
	for i, mi := range schema.Modules {
		moduleStart, err := parseDateOr(mi.StartDate, projectStart)
		if err != nil {
			return nil, fmt.Errorf("parsing modules[%d].start_date: %w", i, err)
		}
		m := &domain.Module{
			ID:              uuid.New().String(),
			ProjectID:       project.ID,
			Name:            mi.Name,
			Description:     mi.Description,
			StartDate:       moduleStart,
			ExpectedEndDate: parseOptionalDate(mi.ExpectedEndDate),
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		out.Modules = append(out.Modules, m)

		for j, ti := range mi.Tasks {
			taskStart, err := parseDateOr(ti.StartDate, moduleStart)
			if err != nil {
				return nil, fmt.Errorf("parsing modules[%d].tasks[%d].start_date: %w", i, j, err)
			}
			complexity := domain.ComplexityMedium
			if ti.Complexity != "" {
				if complexity, err = domain.ParseComplexity(ti.Complexity); err != nil {
					return nil, fmt.Errorf("modules[%d].tasks[%d]: %w", i, j, err)
				}
			}
			out.Tasks = append(out.Tasks, &domain.Task{
				ID:              uuid.New().String(),
				ModuleID:        m.ID,
				ProjectID:       project.ID,
				Name:            ti.Name,
				Description:     ti.Description,
				Complexity:      complexity,
				Status:          domain.TaskNew,
				StartDate:       taskStart,
				ExpectedEndDate: parseOptionalDate(ti.ExpectedEndDate),
				CreatedAt:       now,
				UpdatedAt:       now,
			})
		}
	}

	return out, nil
}

func parseDateOr(s string, fallback time.Time) (time.Time, error) {
	if s == "" {
		return fallback, nil
	}
	return time.Parse(dateLayout, s)
}

func parseOptionalDate(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil
	}
	return &t
}
