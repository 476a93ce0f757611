package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

const dateLayout = "2006-01-02"

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2)

	content = strings.TrimRight(content, "\n")
	if title != "" {
		content = StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content
	}
	return boxStyle.Render(content)
}

// Date renders a calendar day, or a dimmed "--" when unset.
func Date(t *time.Time) string {
	if t == nil || t.IsZero() {
		return Dim("--")
	}
	return t.Format(dateLayout)
}

// Ago renders t relative to now ("3 days ago").
func Ago(t time.Time) string {
	return AgoFrom(t, time.Now())
}

func AgoFrom(t, now time.Time) string {
	if t.IsZero() {
		return Dim("--")
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// DueLabel renders an expected end date with its distance from now.
// Open items past their date turn red; items due within a week turn yellow.
func DueLabel(expected, actual *time.Time, now time.Time) string {
	if expected == nil {
		return Dim("--")
	}
	day := expected.Format(dateLayout)
	if actual != nil {
		return Dim(day)
	}
	rel := humanize.RelTime(*expected, now, "overdue", "left")
	switch {
	case expected.Before(now):
		return StyleRed.Render(fmt.Sprintf("%s (%s)", day, rel))
	case expected.Sub(now) <= 7*24*time.Hour:
		return StyleYellow.Render(fmt.Sprintf("%s (%s)", day, rel))
	}
	return StyleFg.Render(day)
}

// Score renders a matching score with two decimals.
func Score(s float64) string {
	return fmt.Sprintf("%.2f", s)
}

// Count renders an integer with thousands separators.
func Count(n int) string {
	return humanize.Comma(int64(n))
}
