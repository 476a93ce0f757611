package cli

import (
	"fmt"

	"github.com/alexanderramin/pmt/internal/cli/formatter"
	"github.com/alexanderramin/pmt/internal/domain"
	"github.com/spf13/cobra"
)

func newReportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Completion and workload reports",
	}

	cmd.AddCommand(
		newReportItemCmd(app),
		newReportPortfolioCmd(app),
		newReportAssignmentsCmd(app),
		newReportDeveloperCmd(app),
	)

	return cmd
}

func newReportItemCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "item KIND ID",
		Short: "Completion of one project, module or task",
		Long: `Completion of one project, module or task. KIND is project, module or
task (p, m, t). A task counts 1 when approved and 0 otherwise; modules and
projects average their tasks, and count 0 when they have none.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			kind, err := domain.ParseEntityKind(args[0])
			if err != nil {
				return err
			}
			id, err := resolveID(ctx, app, kind, args[1])
			if err != nil {
				return err
			}
			r, err := app.Rollup.ItemReport(ctx, kind, id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatItemReport(r))
			return nil
		},
	}
}

func newReportPortfolioCmd(app *App) *cobra.Command {
	var manager string

	cmd := &cobra.Command{
		Use:   "portfolio",
		Short: "Completion of every project, or of one manager's projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			managerID, err := resolveUserID(ctx, app, manager)
			if err != nil {
				return err
			}
			entries, err := app.Rollup.PortfolioReport(ctx, managerID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatPortfolio(entries))
			return nil
		},
	}

	cmd.Flags().StringVar(&manager, "manager", "", "Only projects managed by this user")

	return cmd
}

func newReportAssignmentsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "assignments MANAGER",
		Short: "Current assignments across a manager's projects",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			managerID, err := resolveUserID(ctx, app, args[0])
			if err != nil {
				return err
			}
			views, err := app.Assignments.ManagerAssignments(ctx, managerID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatAssignments(views))
			return nil
		},
	}
}

func newReportDeveloperCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "developer DEV",
		Short: "Tasks currently assigned to a developer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			dev, err := app.Users.Get(ctx, args[0])
			if err != nil {
				return err
			}
			tasks, err := app.Assignments.DeveloperTasks(ctx, dev.ID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatDeveloperTasks(dev, tasks))
			return nil
		},
	}
}
