package cli

import (
	"fmt"

	"github.com/alexanderramin/pmt/internal/cli/formatter"
	"github.com/alexanderramin/pmt/internal/domain"
	"github.com/spf13/cobra"
)

func newUserCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users, roles and developer levels",
	}

	cmd.AddCommand(
		newUserAddCmd(app),
		newUserListCmd(app),
		newUserUpdateCmd(app),
		newUserRemoveCmd(app),
		newUserEnableCmd(app, true),
		newUserEnableCmd(app, false),
		newUserManagerCmd(app),
	)

	return cmd
}

func newUserAddCmd(app *App) *cobra.Command {
	var username, fullName, email, manager string
	var role domain.Role
	var level domain.CompetencyLevel

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			managerID, err := resolveUserID(ctx, app, manager)
			if err != nil {
				return err
			}
			u := &domain.User{
				Username:   username,
				FullName:   fullName,
				Email:      email,
				Role:       role,
				Competency: level,
				ManagerID:  managerID,
				Enabled:    true,
			}
			if err := app.Users.Create(ctx, u); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s %s [%s]\n", u.Role, u.Username, domain.ShortID(u.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Login name, unique")
	cmd.Flags().StringVar(&fullName, "name", "", "Full name")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().Var(newRoleValue(&role, domain.RoleDeveloper), "role", "client|developer|manager|administrator")
	cmd.Flags().Var(newLevelValue(&level, domain.CompetencyMedium), "level", "Developer competency: low|medium|high")
	cmd.Flags().StringVar(&manager, "manager", "", "Reporting manager (username or id)")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}

func newUserListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := app.Users.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(users) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No users found.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatUserList(users))
			return nil
		},
	}
}

func newUserEnableCmd(app *App, enabled bool) *cobra.Command {
	use, short, verb := "enable USER", "Allow a developer to take new tasks", "Enabled"
	if !enabled {
		use, short, verb = "disable USER", "Stop offering a developer new tasks", "Disabled"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := app.Users.SetEnabled(cmd.Context(), args[0], enabled)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", verb, u.Username)
			return nil
		},
	}
}

func newUserManagerCmd(app *App) *cobra.Command {
	var clearManager bool

	cmd := &cobra.Command{
		Use:   "manager USER [MANAGER]",
		Short: "Set or clear the manager a user reports to",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := ""
			if len(args) == 2 {
				ref = args[1]
			}
			if ref == "" && !clearManager {
				return fmt.Errorf("give a MANAGER or --clear")
			}
			if ref != "" && clearManager {
				return fmt.Errorf("MANAGER and --clear are mutually exclusive")
			}
			u, err := app.Users.SetManager(cmd.Context(), args[0], ref)
			if err != nil {
				return err
			}
			if ref == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared manager of %s\n", u.Username)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s now reports to %s\n", u.Username, ref)
			return nil
		},
	}

	cmd.Flags().BoolVar(&clearManager, "clear", false, "Remove the current manager")

	return cmd
}

func newUserUpdateCmd(app *App) *cobra.Command {
	var username, fullName, email string
	var role domain.Role
	var level domain.CompetencyLevel

	cmd := &cobra.Command{
		Use:   "update USER",
		Short: "Update a user's details, role or developer level",
		Long: `Update a user's details, role or developer level.

The level drives candidate ranking for new assignments. Use "user manager"
and "user enable|disable" for the reporting line and availability.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			u, err := app.Users.Get(ctx, args[0])
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("username") {
				u.Username = username
			}
			if flags.Changed("name") {
				u.FullName = fullName
			}
			if flags.Changed("email") {
				u.Email = email
			}
			if flags.Changed("role") {
				u.Role = role
			}
			if flags.Changed("level") {
				u.Competency = level
			}

			if err := app.Users.Update(ctx, u); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s %s [%s]\n", u.Role, u.Username, domain.ShortID(u.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Login name, unique")
	cmd.Flags().StringVar(&fullName, "name", "", "Full name")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().Var(newRoleValue(&role, ""), "role", "client|developer|manager|administrator")
	cmd.Flags().Var(newLevelValue(&level, ""), "level", "Developer competency: low|medium|high")

	return cmd
}

func newUserRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm USER",
		Aliases: []string{"remove"},
		Short:   "Remove a user",
		Long: `Remove a user.

Refused while the user has tasks in progress, manages projects or people,
or appears in any assignment history. Disable such a developer instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := app.Users.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s %s\n", u.Role, u.Username)
			return nil
		},
	}
}
