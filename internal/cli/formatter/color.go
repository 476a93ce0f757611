package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/pmt/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen      = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow     = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleYellowBold = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
	StyleRed        = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue       = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple     = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim        = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg         = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader     = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold       = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// Header renders an upper-cased section title with an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}

// StatusPill renders a task status with its workflow glyph.
func StatusPill(s domain.TaskStatus) string {
	switch s {
	case domain.TaskNew:
		return StyleBlue.Render("○ New")
	case domain.TaskInProgress:
		return StyleYellow.Render("▶ In Progress")
	case domain.TaskApproved:
		return StyleGreen.Render("✔ Approved")
	default:
		return StyleDim.Render(string(s))
	}
}

// ComplexityBadge colours a tier from cool (low) to hot (high).
func ComplexityBadge(c domain.Complexity) string {
	switch c {
	case domain.ComplexityLow:
		return StyleGreen.Render("low")
	case domain.ComplexityMedium:
		return StyleYellow.Render("medium")
	case domain.ComplexityHigh:
		return StyleRed.Render("high")
	default:
		return Dim("--")
	}
}

// LevelBadge renders a developer's competency level; non-developers get "--".
func LevelBadge(l domain.CompetencyLevel) string {
	if l == "" {
		return Dim("--")
	}
	return StylePurple.Render(string(l))
}

func RoleBadge(r domain.Role) string {
	switch r {
	case domain.RoleManager, domain.RoleAdministrator:
		return StyleHeader.Render(string(r))
	case domain.RoleDeveloper:
		return StyleBlue.Render(string(r))
	default:
		return Dim(string(r))
	}
}

// EnabledPill shows whether a user can take work.
func EnabledPill(enabled bool) string {
	if enabled {
		return StyleGreen.Render("● enabled")
	}
	return StyleRed.Render("✖ disabled")
}

// TruncID returns the display prefix of an ID, dimmed.
func TruncID(id string) string {
	return StyleDim.Render(domain.ShortID(id))
}
