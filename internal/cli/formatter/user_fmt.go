package formatter

import (
	"strings"

	"github.com/alexanderramin/pmt/internal/domain"
)

func FormatUserList(users []*domain.User) string {
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Username
	}
	headers := []string{"ID", "USERNAME", "NAME", "ROLE", "LEVEL", "MANAGER", "STATE"}
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{
			TruncID(u.ID),
			Bold(u.Username),
			CoalesceLabel(u.FullName),
			RoleBadge(u.Role),
			LevelBadge(u.Competency),
			managerLabel(names, u.ManagerID),
			EnabledPill(u.Enabled),
		})
	}
	return RenderBox("Users", RenderTable(headers, rows))
}

// FormatMatrix renders competency levels as rows and complexity tiers as columns.
func FormatMatrix(m domain.CompetencyMatrix) string {
	headers := []string{"LEVEL \\ TASK"}
	for _, c := range domain.Complexities {
		headers = append(headers, strings.ToUpper(string(c)))
	}
	rows := make([][]string, 0, len(domain.CompetencyLevels))
	for _, level := range domain.CompetencyLevels {
		row := []string{LevelBadge(level)}
		for _, c := range domain.Complexities {
			row = append(row, Score(m.Weight(level, c)))
		}
		rows = append(rows, row)
	}
	return RenderBox("Competency matrix", RenderTable(headers, rows))
}
