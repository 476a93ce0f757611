package formatter

import (
	"fmt"

	"github.com/alexanderramin/pmt/internal/app"
	"github.com/alexanderramin/pmt/internal/domain"
	"github.com/charmbracelet/lipgloss/tree"
)

// RenderHierarchy draws a project with its modules and tasks. Assignees are
// looked up in usernames by developer id; unknown ids show the short id.
func RenderHierarchy(h *app.ProjectHierarchy, usernames map[string]string) string {
	root := tree.Root(fmt.Sprintf("%s %s  %s", Bold(h.Project.Name), TruncID(h.Project.ID), RenderProgress(h.PercentComplete, 10))).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(StyleDim)

	if len(h.Modules) == 0 {
		root.Child(Dim("no modules"))
		return root.String() + "\n"
	}

	for _, m := range h.Modules {
		label := fmt.Sprintf("%s %s  %s", moduleTitle(m.Module), TruncID(m.Module.ID), RenderProgress(m.PercentComplete, 10))
		sub := tree.Root(label).Enumerator(tree.RoundedEnumerator).EnumeratorStyle(StyleDim)
		if len(m.Tasks) == 0 {
			sub.Child(Dim("no tasks"))
		}
		for _, tn := range m.Tasks {
			sub.Child(taskLine(tn, usernames))
		}
		root.Child(sub)
	}
	return root.String() + "\n"
}

func moduleTitle(m *domain.Module) string {
	if m.IsClosed() {
		return StyleGreen.Render("✔ ") + Dim(m.Name)
	}
	return StyleBold.Render(m.Name)
}

func taskLine(tn app.TaskNode, usernames map[string]string) string {
	t := tn.Task
	var title string
	switch t.Status {
	case domain.TaskApproved:
		title = StyleGreen.Render("✔ ") + Dim(t.Name)
	case domain.TaskInProgress:
		title = StyleYellowBold.Render("▶ " + t.Name)
	default:
		title = StyleBlue.Render("○ ") + t.Name
	}
	line := fmt.Sprintf("%s %s %s", title, TruncID(t.ID), ComplexityBadge(t.Complexity))
	if tn.Assignment != nil {
		line += " " + StyleBlue.Render("@"+username(usernames, tn.Assignment.DeveloperID))
	}
	return line
}

func username(names map[string]string, id string) string {
	if n, ok := names[id]; ok && n != "" {
		return n
	}
	return domain.ShortID(id)
}
