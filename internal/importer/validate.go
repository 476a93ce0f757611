package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/pmt/internal/domain"
)

// ValidateHierarchy checks the whole document before anything is written.
// Returns a slice of all validation errors found.
func ValidateHierarchy(schema *HierarchySchema) []error {
	var errs []error

	errs = append(errs, validateProject(&schema.Project)...)

	names := make(map[string]bool)
	for i := range schema.Modules {
		errs = append(errs, validateModule(i, &schema.Modules[i], names)...)
	}

	return errs
}

func validateProject(p *ProjectImport) []error {
	var errs []error

	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, fmt.Errorf("project.name is required"))
	}
	errs = append(errs, validateSchedule("project", p.StartDate, p.ExpectedEndDate)...)

	return errs
}

func validateModule(i int, m *ModuleImport, names map[string]bool) []error {
	var errs []error
	prefix := fmt.Sprintf("modules[%d]", i)

	name := strings.TrimSpace(m.Name)
	if name == "" {
		errs = append(errs, fmt.Errorf("%s.name is required", prefix))
	} else if key := strings.ToLower(name); names[key] {
		errs = append(errs, fmt.Errorf("%s.name: duplicate module %q", prefix, m.Name))
	} else {
		names[key] = true
	}
	errs = append(errs, validateSchedule(prefix, m.StartDate, m.ExpectedEndDate)...)

	for j, t := range m.Tasks {
		tp := fmt.Sprintf("%s.tasks[%d]", prefix, j)
		if strings.TrimSpace(t.Name) == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", tp))
		}
		if t.Complexity != "" {
			if _, err := domain.ParseComplexity(t.Complexity); err != nil {
				errs = append(errs, fmt.Errorf("%s.complexity: invalid value %q", tp, t.Complexity))
			}
		}
		errs = append(errs, validateSchedule(tp, t.StartDate, t.ExpectedEndDate)...)
	}

	return errs
}

func validateSchedule(prefix, start string, expectedEnd *string) []error {
	var errs []error

	startOK := false
	var startDate time.Time
	if start != "" {
		d, err := time.Parse(dateLayout, start)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s.start_date: invalid date format %q (expected YYYY-MM-DD)", prefix, start))
		} else {
			startDate, startOK = d, true
		}
	}

	if expectedEnd != nil && *expectedEnd != "" {
		end, err := time.Parse(dateLayout, *expectedEnd)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("%s.expected_end_date: invalid date format %q (expected YYYY-MM-DD)", prefix, *expectedEnd))
		case startOK && end.Before(startDate):
			errs = append(errs, fmt.Errorf("%s.expected_end_date %q must not be before start_date %q", prefix, *expectedEnd, start))
		}
	}

	return errs
}
