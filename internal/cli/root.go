package cli

import (
	"time"

	"github.com/alexanderramin/pmt/internal/service"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// DefaultMaxOpenTasks is the capacity used when App.MaxOpenTasks is unset.
const DefaultMaxOpenTasks = 3

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Hierarchy   service.HierarchyService
	Assignments service.AssignmentService
	Rollup      service.RollupService
	Users       service.UserService
	Competency  service.CompetencyService
	Import      service.ImportService

	// MaxOpenTasks is the default developer capacity for candidates and assign.
	MaxOpenTasks int

	// IsInteractive reports whether stdin is a terminal. Nil means never.
	IsInteractive func() bool

	// PickDeveloper chooses an assignee when "task assign" runs without --dev.
	// Nil uses the huh picker.
	PickDeveloper DeveloperPicker

	// Now is the clock used for relative date input. Nil means time.Now.
	Now func() time.Time
}

func (app *App) now() time.Time {
	if app.Now != nil {
		return app.Now()
	}
	return time.Now()
}

func (app *App) maxOpenTasks() int {
	if app.MaxOpenTasks > 0 {
		return app.MaxOpenTasks
	}
	return DefaultMaxOpenTasks
}

func (app *App) interactive() bool {
	return app.IsInteractive != nil && app.IsInteractive()
}

// NewRootCmd creates the top-level "pmt" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "pmt",
		Short:         "Project, module and task assignment engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Read by cmd/pmt before the tree is built; declared here so cobra accepts them.
	AddGlobalFlags(root.PersistentFlags())

	root.AddCommand(
		newProjectCmd(app),
		newModuleCmd(app),
		newTaskCmd(app),
		newUserCmd(app),
		newMatrixCmd(app),
		newReportCmd(app),
		newImportCmd(app),
	)

	return root
}

// AddGlobalFlags registers the flags that shape configuration. They are
// parsed once by the binary before any service exists.
func AddGlobalFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "Config file (default ~/.pmt/config.yaml)")
	fs.String("db", "", "SQLite database path (overrides db.path)")
	fs.String("log-level", "", "Log level: debug|info|warn|error")
}
