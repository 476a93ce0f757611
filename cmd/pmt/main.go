package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexanderramin/pmt/internal/cli"
	"github.com/alexanderramin/pmt/internal/config"
	"github.com/alexanderramin/pmt/internal/db"
	"github.com/alexanderramin/pmt/internal/service"
	"github.com/alexanderramin/pmt/internal/telemetry"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	v := config.New()
	cfgFile, err := bindGlobalFlags(v, os.Args[1:])
	if err != nil {
		return err
	}
	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return err
	}

	logger, err := newLogger(os.Stderr, cfg.Log)
	if err != nil {
		return err
	}

	providers, err := telemetry.Setup(ctx, telemetry.Options{
		Enabled: cfg.Telemetry.Enabled,
		Stdout:  cfg.Telemetry.Stdout,
		Version: version,
	})
	if err != nil {
		return fmt.Errorf("starting telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			logger.Warn("telemetry shutdown", "error", err)
		}
	}()

	otelObserver, err := telemetry.NewUseCaseObserver(providers.Tracer, providers.Meter)
	if err != nil {
		return fmt.Errorf("starting telemetry: %w", err)
	}
	observers := []service.UseCaseObserver{service.NewSlogUseCaseObserver(logger), otelObserver}

	database, err := db.Open(ctx, cfg.DB.Open())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	uow := db.NewSQLUnitOfWork(database)

	app := &cli.App{
		Hierarchy:    service.NewHierarchyService(uow, observers...),
		Assignments:  service.NewAssignmentService(uow, observers...),
		Rollup:       service.NewRollupService(uow, observers...),
		Users:        service.NewUserService(uow, observers...),
		Competency:   service.NewCompetencyService(uow, observers...),
		Import:       service.NewImportService(uow, observers...),
		MaxOpenTasks: cfg.Assign.MaxOpenTasks,
	}

	// Detect interactive terminal for the assignment picker.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	rootCmd.Version = version
	return rootCmd.ExecuteContext(ctx)
}

// bindGlobalFlags parses only the configuration flags out of args and binds
// them onto v. Everything else is left for cobra.
func bindGlobalFlags(v *viper.Viper, args []string) (string, error) {
	fs := pflag.NewFlagSet("pmt", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.Usage = func() {}
	fs.SetOutput(io.Discard)
	cli.AddGlobalFlags(fs)
	// Help is cobra's to handle.
	fs.BoolP("help", "h", false, "")

	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if err := v.BindPFlag("db.path", fs.Lookup("db")); err != nil {
		return "", err
	}
	if err := v.BindPFlag("log.level", fs.Lookup("log-level")); err != nil {
		return "", err
	}
	cfgFile, _ := fs.GetString("config")
	return cfgFile, nil
}

func newLogger(w io.Writer, c config.LogConfig) (*slog.Logger, error) {
	level, err := config.ParseLevel(c.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}
