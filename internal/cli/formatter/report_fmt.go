package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/pmt/internal/app"
)

// FormatItemReport renders the completion summary of one project, module or task.
func FormatItemReport(r *app.ItemReport) string {
	var b strings.Builder
	b.WriteString(Bold(r.Name) + "  " + Dim(string(r.Kind)) + "  " + TruncID(r.ID) + "\n\n")
	field(&b, "PROGRESS", RenderProgress(r.PercentComplete, 20))
	field(&b, "START   ", r.StartDate.Format(dateLayout))
	field(&b, "DUE     ", DueLabel(r.ExpectedEndDate, r.ActualEndDate, time.Now()))
	field(&b, "CLOSED  ", closedLabel(r.ActualEndDate))
	field(&b, "TASKS   ", fmt.Sprintf("%s total  %s new  %s in progress  %s approved",
		Count(r.TotalTasks),
		StyleBlue.Render(Count(r.NewTasks)),
		StyleYellow.Render(Count(r.InProgressTasks)),
		StyleGreen.Render(Count(r.ApprovedTasks)),
	))
	return RenderBox("Report", b.String())
}

// FormatPortfolio renders one row per project with its completion bar.
func FormatPortfolio(entries []app.PortfolioEntry) string {
	if len(entries) == 0 {
		return RenderBox("Portfolio", Dim("No projects."))
	}
	now := time.Now()
	headers := []string{"PROJECT", "PROGRESS", "TASKS", "DUE", "CLOSED"}
	rows := make([][]string, 0, len(entries))
	var approved, total int
	for _, e := range entries {
		approved += e.ApprovedTasks
		total += e.TotalTasks
		rows = append(rows, []string{
			fmt.Sprintf("%s %s", Bold(e.ProjectName), TruncID(e.ProjectID)),
			RenderProgress(e.PercentComplete, 12),
			fmt.Sprintf("%s/%s", Count(e.ApprovedTasks), Count(e.TotalTasks)),
			DueLabel(e.ExpectedEndDate, e.ActualEndDate, now),
			closedLabel(e.ActualEndDate),
		})
	}
	footer := Dim(fmt.Sprintf("%d projects, %s of %s tasks approved", len(entries), Count(approved), Count(total)))
	return RenderBox("Portfolio", RenderTable(headers, rows)+"\n"+footer)
}
