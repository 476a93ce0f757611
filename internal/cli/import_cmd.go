package cli

import (
	"fmt"

	"github.com/alexanderramin/pmt/internal/domain"
	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE.yaml",
		Short: "Create a project with its modules and tasks from a YAML file",
		Long: `Create a project with its modules and tasks from a YAML file.

The whole file is checked before anything is written, and every problem is
reported at once. Either everything is created or nothing is.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Import.ImportFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported project %s [%s]: %d modules, %d tasks\n",
				res.Project.Name, domain.ShortID(res.Project.ID), res.ModuleCount, res.TaskCount)
			return nil
		},
	}
}
