package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/pmt/internal/cli/formatter"
	"github.com/alexanderramin/pmt/internal/domain"
	"github.com/spf13/cobra"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks, their assignments and approval",
	}

	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskListCmd(app),
		newTaskShowCmd(app),
		newTaskUpdateCmd(app),
		newTaskRemoveCmd(app),
		newTaskCandidatesCmd(app),
		newTaskAssignCmd(app),
		newTaskApproveCmd(app),
		newTaskHistoryCmd(app),
	)

	return cmd
}

func newTaskAddCmd(app *App) *cobra.Command {
	var module, name, desc string
	var complexity domain.Complexity
	var start, due *time.Time

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a task to a module",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			moduleID, err := resolveID(ctx, app, domain.KindModule, module)
			if err != nil {
				return err
			}
			t := &domain.Task{
				ModuleID:        moduleID,
				Name:            name,
				Description:     desc,
				Complexity:      complexity,
				StartDate:       domain.TimeFromPtrWithDefault(time.Time{}, start), // zero inherits the module start
				ExpectedEndDate: due,
			}
			if err := app.Hierarchy.CreateTask(ctx, t); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created task %s [%s]\n", t.Name, domain.ShortID(t.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&module, "module", "", "Owning module ID")
	cmd.Flags().StringVar(&name, "name", "", "Task name")
	cmd.Flags().StringVar(&desc, "description", "", "Task description")
	cmd.Flags().Var(newComplexityValue(&complexity, domain.ComplexityMedium), "complexity", "low|medium|high")
	addDateFlag(cmd.Flags(), &start, "start", "Start date, default the module's", app)
	addDateFlag(cmd.Flags(), &due, "due", "Expected end date", app)
	_ = cmd.MarkFlagRequired("module")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newTaskListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list MODULE",
		Short: "List the tasks of a module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			moduleID, err := resolveID(ctx, app, domain.KindModule, args[0])
			if err != nil {
				return err
			}
			tasks, err := app.Hierarchy.ListTasks(ctx, moduleID)
			if err != nil {
				return err
			}
			if len(tasks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tasks found.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTaskList(tasks))
			return nil
		},
	}
}

func newTaskShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a task with its current assignee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveID(ctx, app, domain.KindTask, args[0])
			if err != nil {
				return err
			}
			t, err := app.Hierarchy.GetTask(ctx, id)
			if err != nil {
				return err
			}
			data := formatter.TaskCardData{Task: t}
			if m, err := app.Hierarchy.GetModule(ctx, t.ModuleID); err == nil {
				data.Module = m.Name
			}
			cur, err := app.Assignments.CurrentAssignment(ctx, id)
			if err != nil {
				return err
			}
			if cur != nil {
				data.Assignment = cur
				data.Assignee = domain.ShortID(cur.DeveloperID)
				if u, err := app.Users.Get(ctx, cur.DeveloperID); err == nil {
					data.Assignee = u.Username
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTaskCard(data))
			return nil
		},
	}
}

func newTaskUpdateCmd(app *App) *cobra.Command {
	var name, desc string
	var complexity domain.Complexity
	var start, due *time.Time

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a task's details (status changes go through assign and approve)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveID(ctx, app, domain.KindTask, args[0])
			if err != nil {
				return err
			}
			t, err := app.Hierarchy.GetTask(ctx, id)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("name") {
				t.Name = name
			}
			if flags.Changed("description") {
				t.Description = desc
			}
			if flags.Changed("complexity") {
				t.Complexity = complexity
			}
			if flags.Changed("start") && start != nil {
				t.StartDate = *start
			}
			if flags.Changed("due") {
				t.ExpectedEndDate = due
			}

			if err := app.Hierarchy.UpdateTask(ctx, t); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s [%s]\n", t.Name, domain.ShortID(t.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Task name")
	cmd.Flags().StringVar(&desc, "description", "", "Task description")
	cmd.Flags().Var(newComplexityValue(&complexity, ""), "complexity", "low|medium|high")
	addDateFlag(cmd.Flags(), &start, "start", "Start date", app)
	addDateFlag(cmd.Flags(), &due, "due", "Expected end date, \"none\" clears", app)

	return cmd
}

func newTaskRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"remove"},
		Short:   "Remove a task and its assignment history",
		Long:    "Remove a task and its assignment history. Refused while the task is in progress.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveID(ctx, app, domain.KindTask, args[0])
			if err != nil {
				return err
			}
			if err := app.Hierarchy.DeleteTask(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed task %s\n", domain.ShortID(id))
			return nil
		},
	}
}

func newTaskCandidatesCmd(app *App) *cobra.Command {
	var maxOpen int

	cmd := &cobra.Command{
		Use:   "candidates ID",
		Short: "Rank the developers who could take a task",
		Long: `Rank enabled developers by competency weight for the task's complexity,
fewest open tasks first on ties. Developers at or over --max open tasks are
listed separately with the reason they were left out.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveID(ctx, app, domain.KindTask, args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("max") {
				maxOpen = app.maxOpenTasks()
			}
			report, err := app.Assignments.Candidates(ctx, id, maxOpen)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCandidates(report))
			return nil
		},
	}

	cmd.Flags().IntVar(&maxOpen, "max", DefaultMaxOpenTasks, "Maximum open tasks per developer")

	return cmd
}

func newTaskAssignCmd(app *App) *cobra.Command {
	var dev string

	cmd := &cobra.Command{
		Use:   "assign ID",
		Short: "Assign or reassign a task to a developer",
		Long: `Assign a task to a developer. A new task moves to in progress; an
in-progress task is reassigned and keeps its status.

Without --dev on a terminal, pick from the ranked candidates.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveID(ctx, app, domain.KindTask, args[0])
			if err != nil {
				return err
			}

			devID := dev
			if devID == "" {
				if !app.interactive() {
					return fmt.Errorf("--dev is required when not running in a terminal")
				}
				report, err := app.Assignments.Candidates(ctx, id, app.maxOpenTasks())
				if err != nil {
					return err
				}
				if len(report.Available) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCandidates(report))
					return fmt.Errorf("no developer is available for this task")
				}
				pick := app.PickDeveloper
				if pick == nil {
					pick = huhPicker
				}
				devID, err = pick(ctx, report)
				if errors.Is(err, errPickCancelled) {
					fmt.Fprintln(cmd.OutOrStdout(), "Assignment cancelled.")
					return nil
				}
				if err != nil {
					return err
				}
			} else {
				if devID, err = resolveUserID(ctx, app, dev); err != nil {
					return err
				}
			}

			a, err := app.Assignments.AssignTask(ctx, id, devID)
			if err != nil {
				return err
			}
			name := domain.ShortID(a.DeveloperID)
			if u, err := app.Users.Get(ctx, a.DeveloperID); err == nil {
				name = u.Username
			}
			verb := "Assigned"
			if a.IsReassignment() {
				verb = "Reassigned"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s task %s to %s\n", verb, domain.ShortID(id), name)
			return nil
		},
	}

	cmd.Flags().StringVar(&dev, "dev", "", "Developer (username or id)")

	return cmd
}

func newTaskApproveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "approve ID",
		Short: "Approve an in-progress task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveID(ctx, app, domain.KindTask, args[0])
			if err != nil {
				return err
			}
			t, err := app.Assignments.ApproveTask(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Approved task %s [%s]\n", t.Name, domain.ShortID(t.ID))
			return nil
		},
	}
}

func newTaskHistoryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "history ID",
		Short: "Show every assignment a task has had",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveID(ctx, app, domain.KindTask, args[0])
			if err != nil {
				return err
			}
			entries, err := app.Assignments.AssignmentHistory(ctx, id)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Never assigned.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatHistory(entries))
			return nil
		},
	}
}
