package importer

import (
	"testing"
	"time"

	"github.com/alexanderramin/pmt/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var importNow = time.Date(2026, 1, 10, 9, 30, 0, 0, time.UTC)

func TestConvert_MinimalProject(t *testing.T) {
	h, err := Convert(validMinimalSchema(), "", importNow)
	require.NoError(t, err)

	assert.NotEmpty(t, h.Project.ID)
	assert.Equal(t, "Billing revamp", h.Project.Name)
	assert.Empty(t, h.Project.ManagerID)
	assert.Equal(t, "2026-01-05", h.Project.StartDate.Format(dateLayout))
	assert.Nil(t, h.Project.ExpectedEndDate)
	assert.Nil(t, h.Project.ActualEndDate)

	require.Len(t, h.Modules, 1)
	assert.Equal(t, h.Project.ID, h.Modules[0].ProjectID)
	assert.Equal(t, h.Project.StartDate, h.Modules[0].StartDate, "module inherits project start")

	require.Len(t, h.Tasks, 1)
	task := h.Tasks[0]
	assert.Equal(t, h.Modules[0].ID, task.ModuleID)
	assert.Equal(t, h.Project.ID, task.ProjectID)
	assert.Equal(t, domain.ComplexityMedium, task.Complexity)
	assert.Equal(t, domain.TaskNew, task.Status)
	assert.NoError(t, task.Validate())
}

func TestConvert_FullHierarchy(t *testing.T) {
	schema := &HierarchySchema{
		Project: ProjectImport{
			Name:            "Billing revamp",
			StartDate:       "2026-01-05",
			ExpectedEndDate: ptrStr("2026-04-30"),
		},
		Modules: []ModuleImport{
			{
				Name:      "Invoices",
				StartDate: "2026-01-12",
				Tasks: []TaskImport{
					{Name: "Schema", Complexity: "low"},
					{Name: "PDF", Complexity: "H", StartDate: "2026-01-20", ExpectedEndDate: ptrStr("2026-02-01")},
				},
			},
			{Name: "Payments", Tasks: []TaskImport{{Name: "Gateway"}}},
		},
	}

	h, err := Convert(schema, "mgr-1", importNow)
	require.NoError(t, err)

	assert.Equal(t, "mgr-1", h.Project.ManagerID)
	require.NotNil(t, h.Project.ExpectedEndDate)
	assert.Equal(t, "2026-04-30", h.Project.ExpectedEndDate.Format(dateLayout))

	require.Len(t, h.Modules, 2)
	require.Len(t, h.Tasks, 3)

	assert.Equal(t, "2026-01-12", h.Tasks[0].StartDate.Format(dateLayout), "task inherits module start")
	assert.Equal(t, domain.ComplexityLow, h.Tasks[0].Complexity)
	assert.Equal(t, domain.ComplexityHigh, h.Tasks[1].Complexity)
	assert.Equal(t, "2026-01-20", h.Tasks[1].StartDate.Format(dateLayout))
	require.NotNil(t, h.Tasks[1].ExpectedEndDate)

	assert.Equal(t, h.Modules[1].ID, h.Tasks[2].ModuleID)
	assert.Equal(t, "2026-01-05", h.Tasks[2].StartDate.Format(dateLayout))
}

func TestConvert_DefaultsStartToToday(t *testing.T) {
	schema := &HierarchySchema{Project: ProjectImport{Name: "P"}}
	h, err := Convert(schema, "", importNow)
	require.NoError(t, err)
	assert.Equal(t, "2026-01-10", h.Project.StartDate.Format(dateLayout))
	assert.Empty(t, h.Modules)
}

func TestConvert_UniqueIDs(t *testing.T) {
	schema := validMinimalSchema()
	schema.Modules[0].Tasks = append(schema.Modules[0].Tasks, TaskImport{Name: "Two"}, TaskImport{Name: "Three"})

	h, err := Convert(schema, "", importNow)
	require.NoError(t, err)

	seen := map[string]bool{h.Project.ID: true, h.Modules[0].ID: true}
	for _, task := range h.Tasks {
		assert.False(t, seen[task.ID], "duplicate id %s", task.ID)
		seen[task.ID] = true
	}
}

func TestParseHierarchy(t *testing.T) {
	doc := `
project:
  name: Billing revamp
  manager: alice
  start_date: 2026-01-05
  expected_end_date: 2026-04-30
modules:
  - name: Invoices
    tasks:
      - name: Schema
        complexity: medium
        expected_end_date: 2026-01-12
`
	schema, err := ParseHierarchy([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "alice", schema.Project.Manager)
	assert.Equal(t, "2026-01-05", schema.Project.StartDate)
	require.NotNil(t, schema.Project.ExpectedEndDate)
	assert.Equal(t, "2026-04-30", *schema.Project.ExpectedEndDate)
	require.Len(t, schema.Modules, 1)
	require.Len(t, schema.Modules[0].Tasks, 1)
	assert.Equal(t, "medium", schema.Modules[0].Tasks[0].Complexity)
	assert.Empty(t, ValidateHierarchy(schema))
}

func TestParseHierarchy_UnknownField(t *testing.T) {
	_, err := ParseHierarchy([]byte("project:\n  name: P\n  owner: bob\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "owner")
}

func TestParseHierarchy_Empty(t *testing.T) {
	_, err := ParseHierarchy(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}
