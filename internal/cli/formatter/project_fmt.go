package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/pmt/internal/app"
	"github.com/alexanderramin/pmt/internal/domain"
)

// FormatProjectList renders projects with their manager and schedule.
func FormatProjectList(projects []*domain.Project, usernames map[string]string) string {
	now := time.Now()
	headers := []string{"ID", "NAME", "MANAGER", "START", "DUE", "CLOSED"}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{
			TruncID(p.ID),
			Bold(p.Name),
			managerLabel(usernames, p.ManagerID),
			p.StartDate.Format(dateLayout),
			DueLabel(p.ExpectedEndDate, p.ActualEndDate, now),
			closedLabel(p.ActualEndDate),
		})
	}
	return RenderBox("Projects", RenderTable(headers, rows))
}

// FormatModuleList renders the modules of one project.
func FormatModuleList(modules []*domain.Module) string {
	now := time.Now()
	headers := []string{"ID", "NAME", "START", "DUE", "CLOSED"}
	rows := make([][]string, 0, len(modules))
	for _, m := range modules {
		rows = append(rows, []string{
			TruncID(m.ID),
			Bold(m.Name),
			m.StartDate.Format(dateLayout),
			DueLabel(m.ExpectedEndDate, m.ActualEndDate, now),
			closedLabel(m.ActualEndDate),
		})
	}
	return RenderBox("Modules", RenderTable(headers, rows))
}

// FormatProjectCard renders one project with its completion and module summary.
func FormatProjectCard(h *app.ProjectHierarchy, manager string) string {
	p := h.Project
	var b strings.Builder
	b.WriteString(Bold(p.Name) + "  " + TruncID(p.ID) + "\n")
	if p.Description != "" {
		b.WriteString(StyleFg.Render(p.Description) + "\n")
	}
	b.WriteString("\n")
	field(&b, "MANAGER ", CoalesceLabel(manager))
	field(&b, "START   ", p.StartDate.Format(dateLayout))
	field(&b, "DUE     ", DueLabel(p.ExpectedEndDate, p.ActualEndDate, time.Now()))
	field(&b, "CLOSED  ", closedLabel(p.ActualEndDate))
	field(&b, "PROGRESS", RenderProgress(h.PercentComplete, 20))
	field(&b, "MODULES ", fmt.Sprintf("%d (%d tasks)", len(h.Modules), h.TaskCount()))
	field(&b, "UPDATED ", Ago(p.UpdatedAt))
	return RenderBox("Project", b.String())
}

// CoalesceLabel returns s or a dimmed "--".
func CoalesceLabel(s string) string {
	if s == "" {
		return Dim("--")
	}
	return s
}

func field(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "%s  %s\n", StyleDim.Render(label), value)
}

func managerLabel(usernames map[string]string, id string) string {
	if id == "" {
		return Dim("--")
	}
	return username(usernames, id)
}

func closedLabel(actual *time.Time) string {
	if actual == nil {
		return Dim("open")
	}
	return StyleGreen.Render("✔ " + actual.Format(dateLayout))
}
