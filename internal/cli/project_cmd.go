package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/pmt/internal/cli/formatter"
	"github.com/alexanderramin/pmt/internal/domain"
	"github.com/alexanderramin/pmt/internal/timeparsing"
	"github.com/spf13/cobra"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}

	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectListCmd(app),
		newProjectShowCmd(app),
		newProjectTreeCmd(app),
		newProjectUpdateCmd(app),
		newProjectRemoveCmd(app),
	)

	return cmd
}

func newProjectAddCmd(app *App) *cobra.Command {
	var name, desc, manager string
	var start, due *time.Time

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new project",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			managerID, err := resolveUserID(ctx, app, manager)
			if err != nil {
				return err
			}
			p := &domain.Project{
				Name:            name,
				Description:     desc,
				ManagerID:       managerID,
				StartDate:       domain.TimeFromPtrWithDefault(timeparsing.Day(app.now()), start),
				ExpectedEndDate: due,
			}
			if err := app.Hierarchy.CreateProject(ctx, p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created project %s [%s]\n", p.Name, p.DisplayID())
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&desc, "description", "", "Project description")
	cmd.Flags().StringVar(&manager, "manager", "", "Managing user (username or id)")
	addDateFlag(cmd.Flags(), &start, "start", "Start date, default today", app)
	addDateFlag(cmd.Flags(), &due, "due", "Expected end date", app)
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("manager")

	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	var manager string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			managerID, err := resolveUserID(ctx, app, manager)
			if err != nil {
				return err
			}
			projects, err := app.Hierarchy.ListProjects(ctx, managerID)
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No projects found.")
				return nil
			}
			names, err := usernames(ctx, app)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectList(projects, names))
			return nil
		},
	}

	cmd.Flags().StringVar(&manager, "manager", "", "Only projects managed by this user")

	return cmd
}

func newProjectShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show project details and completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveID(ctx, app, domain.KindProject, args[0])
			if err != nil {
				return err
			}
			h, err := app.Hierarchy.GetProjectHierarchy(ctx, id)
			if err != nil {
				return err
			}
			manager := ""
			if h.Project.ManagerID != "" {
				if u, err := app.Users.Get(ctx, h.Project.ManagerID); err == nil {
					manager = u.Username
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectCard(h, manager))
			return nil
		},
	}
}

func newProjectTreeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tree ID",
		Short: "Show the project with its modules, tasks and assignees",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveID(ctx, app, domain.KindProject, args[0])
			if err != nil {
				return err
			}
			h, err := app.Hierarchy.GetProjectHierarchy(ctx, id)
			if err != nil {
				return err
			}
			names, err := usernames(ctx, app)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderHierarchy(h, names))
			return nil
		},
	}
}

func newProjectUpdateCmd(app *App) *cobra.Command {
	var name, desc, manager string
	var start, due *time.Time

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveID(ctx, app, domain.KindProject, args[0])
			if err != nil {
				return err
			}
			p, err := app.Hierarchy.GetProject(ctx, id)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("name") {
				p.Name = name
			}
			if flags.Changed("description") {
				p.Description = desc
			}
			if flags.Changed("manager") {
				if p.ManagerID, err = resolveUserID(ctx, app, manager); err != nil {
					return err
				}
			}
			if flags.Changed("start") && start != nil {
				p.StartDate = *start
			}
			if flags.Changed("due") {
				p.ExpectedEndDate = due
			}

			if err := app.Hierarchy.UpdateProject(ctx, p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated project %s [%s]\n", p.Name, p.DisplayID())
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&desc, "description", "", "Project description")
	cmd.Flags().StringVar(&manager, "manager", "", "Managing user (username or id)")
	addDateFlag(cmd.Flags(), &start, "start", "Start date", app)
	addDateFlag(cmd.Flags(), &due, "due", "Expected end date, \"none\" clears", app)

	return cmd
}

func newProjectRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"remove"},
		Short:   "Remove a project with all its modules and tasks",
		Long: `Remove a project with all its modules, tasks and assignment history.

Refused while any task of the project is in progress.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveID(ctx, app, domain.KindProject, args[0])
			if err != nil {
				return err
			}
			if err := app.Hierarchy.DeleteProject(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed project %s\n", domain.ShortID(id))
			return nil
		},
	}
}
