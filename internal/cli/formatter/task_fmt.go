package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/pmt/internal/app"
	"github.com/alexanderramin/pmt/internal/domain"
	"github.com/alexanderramin/pmt/internal/repository"
)

func FormatTaskList(tasks []*domain.Task) string {
	now := time.Now()
	headers := []string{"ID", "NAME", "COMPLEXITY", "STATUS", "DUE"}
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{
			TruncID(t.ID),
			t.Name,
			ComplexityBadge(t.Complexity),
			StatusPill(t.Status),
			DueLabel(t.ExpectedEndDate, t.ActualEndDate, now),
		})
	}
	return RenderBox("Tasks", RenderTable(headers, rows))
}

// TaskCardData is everything the task card shows.
type TaskCardData struct {
	Task       *domain.Task
	Module     string
	Assignee   string
	Assignment *domain.TaskAssignment
}

func FormatTaskCard(d TaskCardData) string {
	t := d.Task
	var b strings.Builder
	b.WriteString(Bold(t.Name) + "  " + TruncID(t.ID) + "\n")
	if t.Description != "" {
		b.WriteString(StyleFg.Render(t.Description) + "\n")
	}
	b.WriteString("\n")
	field(&b, "MODULE    ", CoalesceLabel(d.Module))
	field(&b, "STATUS    ", StatusPill(t.Status))
	field(&b, "COMPLEXITY", ComplexityBadge(t.Complexity))
	field(&b, "START     ", t.StartDate.Format(dateLayout))
	field(&b, "DUE       ", DueLabel(t.ExpectedEndDate, t.ActualEndDate, time.Now()))
	if t.ActualEndDate != nil {
		field(&b, "APPROVED  ", t.ActualEndDate.Format(dateLayout))
	}
	if d.Assignment != nil {
		field(&b, "ASSIGNEE  ", fmt.Sprintf("%s %s", StyleBlue.Render("@"+d.Assignee), Dim("since "+Ago(d.Assignment.AssignedAt))))
	} else {
		field(&b, "ASSIGNEE  ", Dim("unassigned"))
	}
	return RenderBox("Task", b.String())
}

// FormatCandidates renders the ranked developers followed by the ones left out.
func FormatCandidates(r *app.CandidateReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s  %s\n", Bold(r.Task.Name), ComplexityBadge(r.Task.Complexity),
		Dim(fmt.Sprintf("max open tasks %d", r.MaxOpenTasks)))
	b.WriteString("\n")

	if len(r.Available) == 0 {
		b.WriteString(Dim("No developer is available.") + "\n")
	} else {
		headers := []string{"#", "DEVELOPER", "LEVEL", "SCORE", "OPEN"}
		rows := make([][]string, 0, len(r.Available))
		for i, c := range r.Available {
			rows = append(rows, []string{
				Dim(fmt.Sprintf("%d", i+1)),
				Bold(c.Username),
				LevelBadge(c.Competency),
				Score(c.Score),
				fmt.Sprintf("%d", c.OpenTaskCount),
			})
		}
		b.WriteString(RenderTable(headers, rows))
	}

	if len(r.Excluded) > 0 {
		b.WriteString("\n" + Header("Excluded") + "\n")
		for _, e := range r.Excluded {
			fmt.Fprintf(&b, "%s  %s %s\n", e.Username, StyleRed.Render(e.Code), Dim(e.Reason))
		}
	}
	return RenderBox("Candidates", b.String())
}

// FormatHistory renders a task's assignments oldest first.
func FormatHistory(entries []app.AssignmentEntry) string {
	headers := []string{"SEQ", "DEVELOPER", "ASSIGNED", ""}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		marker := ""
		if e.Current {
			marker = StyleGreen.Render("current")
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", e.Seq),
			e.Username,
			fmt.Sprintf("%s %s", e.AssignedAt.Format(dateLayout), Dim("("+Ago(e.AssignedAt)+")")),
			marker,
		})
	}
	return RenderBox("Assignment history", RenderTable(headers, rows))
}

// FormatDeveloperTasks renders the tasks currently assigned to one developer.
func FormatDeveloperTasks(dev *domain.User, tasks []app.DeveloperTask) string {
	title := fmt.Sprintf("Tasks for %s", dev.Username)
	if len(tasks) == 0 {
		return RenderBox(title, Dim("Nothing assigned."))
	}
	headers := []string{"ID", "TASK", "COMPLEXITY", "STATUS", "ASSIGNED"}
	rows := make([][]string, 0, len(tasks))
	open := 0
	for _, dt := range tasks {
		if dt.Task.IsOpen() {
			open++
		}
		rows = append(rows, []string{
			TruncID(dt.Task.ID),
			dt.Task.Name,
			ComplexityBadge(dt.Task.Complexity),
			StatusPill(dt.Task.Status),
			Ago(dt.AssignedAt),
		})
	}
	out := RenderTable(headers, rows) + "\n" + Dim(fmt.Sprintf("%d open of %d assigned", open, len(tasks)))
	return RenderBox(title, out)
}

// FormatAssignments renders the current assignments across a manager's projects.
func FormatAssignments(views []repository.AssignmentView) string {
	if len(views) == 0 {
		return RenderBox("Assignments", Dim("No assignments."))
	}
	headers := []string{"PROJECT", "TASK", "STATUS", "DEVELOPER", "ASSIGNED"}
	rows := make([][]string, 0, len(views))
	for _, v := range views {
		rows = append(rows, []string{
			v.ProjectName,
			fmt.Sprintf("%s %s", v.TaskName, TruncID(v.Assignment.TaskID)),
			StatusPill(v.TaskStatus),
			StyleBlue.Render("@" + v.DeveloperUsername),
			Ago(v.Assignment.AssignedAt),
		})
	}
	return RenderBox("Assignments", RenderTable(headers, rows))
}
