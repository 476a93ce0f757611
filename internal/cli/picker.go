package cli

import (
	"context"
	"errors"
	"fmt"

	core "github.com/alexanderramin/pmt/internal/app"
	"github.com/charmbracelet/huh"
)

// DeveloperPicker returns the id of the developer to assign, or
// errPickCancelled when the user backs out.
type DeveloperPicker func(ctx context.Context, r *core.CandidateReport) (string, error)

var errPickCancelled = errors.New("assignment cancelled")

// huhPicker offers the ranked candidates in a select, best first, then asks
// for confirmation.
func huhPicker(ctx context.Context, r *core.CandidateReport) (string, error) {
	opts := make([]huh.Option[string], 0, len(r.Available))
	for _, c := range r.Available {
		label := fmt.Sprintf("%-16s %-6s score %.2f  open %d", c.Username, c.Competency, c.Score, c.OpenTaskCount)
		opts = append(opts, huh.NewOption(label, c.DeveloperID))
	}

	devID := r.Available[0].DeveloperID
	confirm := true
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(fmt.Sprintf("Assign %q to", r.Task.Name)).
				Description(fmt.Sprintf("%s complexity, max %d open tasks", r.Task.Complexity, r.MaxOpenTasks)).
				Options(opts...).
				Value(&devID),
			huh.NewConfirm().
				Title("Assign?").
				Affirmative("Assign").
				Negative("Cancel").
				Value(&confirm),
		),
	)
	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", errPickCancelled
		}
		return "", err
	}
	if !confirm {
		return "", errPickCancelled
	}
	return devID, nil
}
