package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a completion fraction as [████░░░░]  45%.
// Green from two thirds up, yellow from one third, red below.
func RenderProgress(frac float64, width int) string {
	frac = clamp01(frac)
	if width < 2 {
		width = 2
	}
	filled := int(frac * float64(width))
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)
	return fmt.Sprintf("[%s] %s", progressStyle(frac).Render(bar), Percent(frac))
}

// Percent formats a completion fraction as a whole percentage.
func Percent(frac float64) string {
	return fmt.Sprintf("%3.0f%%", clamp01(frac)*100)
}

func progressStyle(frac float64) lipgloss.Style {
	switch {
	case frac < 0.33:
		return StyleRed
	case frac < 0.66:
		return StyleYellow
	}
	return StyleGreen
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
