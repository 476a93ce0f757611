package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/pmt/internal/cli/formatter"
	"github.com/alexanderramin/pmt/internal/domain"
	"github.com/spf13/cobra"
)

func newModuleCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "module",
		Short: "Manage the modules of a project",
	}

	cmd.AddCommand(
		newModuleAddCmd(app),
		newModuleListCmd(app),
		newModuleUpdateCmd(app),
		newModuleRemoveCmd(app),
	)

	return cmd
}

func newModuleAddCmd(app *App) *cobra.Command {
	var project, name, desc string
	var start, due *time.Time

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a module to a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveID(ctx, app, domain.KindProject, project)
			if err != nil {
				return err
			}
			m := &domain.Module{
				ProjectID:       projectID,
				Name:            name,
				Description:     desc,
				StartDate:       domain.TimeFromPtrWithDefault(time.Time{}, start), // zero inherits the project start
				ExpectedEndDate: due,
			}
			if err := app.Hierarchy.CreateModule(ctx, m); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created module %s [%s]\n", m.Name, domain.ShortID(m.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Owning project ID")
	cmd.Flags().StringVar(&name, "name", "", "Module name")
	cmd.Flags().StringVar(&desc, "description", "", "Module description")
	addDateFlag(cmd.Flags(), &start, "start", "Start date, default the project's", app)
	addDateFlag(cmd.Flags(), &due, "due", "Expected end date", app)
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newModuleListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list PROJECT",
		Short: "List the modules of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveID(ctx, app, domain.KindProject, args[0])
			if err != nil {
				return err
			}
			modules, err := app.Hierarchy.ListModules(ctx, projectID)
			if err != nil {
				return err
			}
			if len(modules) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No modules found.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatModuleList(modules))
			return nil
		},
	}
}

func newModuleUpdateCmd(app *App) *cobra.Command {
	var name, desc string
	var start, due *time.Time

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveID(ctx, app, domain.KindModule, args[0])
			if err != nil {
				return err
			}
			m, err := app.Hierarchy.GetModule(ctx, id)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("name") {
				m.Name = name
			}
			if flags.Changed("description") {
				m.Description = desc
			}
			if flags.Changed("start") && start != nil {
				m.StartDate = *start
			}
			if flags.Changed("due") {
				m.ExpectedEndDate = due
			}

			if err := app.Hierarchy.UpdateModule(ctx, m); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated module %s [%s]\n", m.Name, domain.ShortID(m.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Module name")
	cmd.Flags().StringVar(&desc, "description", "", "Module description")
	addDateFlag(cmd.Flags(), &start, "start", "Start date", app)
	addDateFlag(cmd.Flags(), &due, "due", "Expected end date, \"none\" clears", app)

	return cmd
}

func newModuleRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"remove"},
		Short:   "Remove a module with its tasks",
		Long: `Remove a module with its tasks and their assignment history.

Refused while any task of the module is in progress.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveID(ctx, app, domain.KindModule, args[0])
			if err != nil {
				return err
			}
			if err := app.Hierarchy.DeleteModule(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed module %s\n", domain.ShortID(id))
			return nil
		},
	}
}
