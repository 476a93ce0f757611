package cli

import (
	"fmt"

	"github.com/alexanderramin/pmt/internal/cli/formatter"
	"github.com/alexanderramin/pmt/internal/domain"
	"github.com/alexanderramin/pmt/internal/importer"
	"github.com/spf13/cobra"
)

func newMatrixCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "matrix",
		Short: "Show or change the competency matrix used to rank developers",
	}

	cmd.AddCommand(
		newMatrixShowCmd(app),
		newMatrixSetCmd(app),
		newMatrixLoadCmd(app),
	)

	return cmd
}

func newMatrixShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the competency matrix",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := app.Competency.Matrix(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatMatrix(m))
			return nil
		},
	}
}

func newMatrixSetCmd(app *App) *cobra.Command {
	var low, medium, high float64

	cmd := &cobra.Command{
		Use:   "set LEVEL",
		Short: "Set the weights of one competency level",
		Long: `Set the weights a developer of LEVEL scores for low, medium and high
complexity tasks. Omitted tiers keep their current weight.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			level, err := domain.ParseCompetencyLevel(args[0])
			if err != nil {
				return err
			}
			m, err := app.Competency.Matrix(ctx)
			if err != nil {
				return err
			}
			w := m[level]
			flags := cmd.Flags()
			if flags.Changed("low") {
				w.Low = low
			}
			if flags.Changed("medium") {
				w.Medium = medium
			}
			if flags.Changed("high") {
				w.High = high
			}
			if err := app.Competency.SetWeights(ctx, level, w); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s weights: low %.2f, medium %.2f, high %.2f\n", level, w.Low, w.Medium, w.High)
			return nil
		},
	}

	cmd.Flags().Float64Var(&low, "low", 0, "Weight for low complexity tasks")
	cmd.Flags().Float64Var(&medium, "medium", 0, "Weight for medium complexity tasks")
	cmd.Flags().Float64Var(&high, "high", 0, "Weight for high complexity tasks")

	return cmd
}

func newMatrixLoadCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "load FILE.toml",
		Short: "Replace the competency matrix from a TOML file",
		Long: `Replace the competency matrix from a TOML file with one table per level:

  [low]
  low = 1.0
  medium = 0.5
  high = 0.1

Levels missing from the file get their default weights.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			m, err := importer.LoadMatrixFile(args[0])
			if err != nil {
				return err
			}
			if err := app.Competency.Replace(ctx, m); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatMatrix(m))
			return nil
		},
	}
}
