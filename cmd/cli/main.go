package main

import (
	"context"
	"fmt"
	"os"

	"gocontab/adapters/console"
	"gocontab/adapters/excel"
	"gocontab/app"
	"gocontab/domain/dataset"
	"gocontab/internal"
	"gocontab/internal/config"
	"gocontab/internal/errors"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:          "gocontab",
		Short:        "Per-level chi-square / Fisher independence tests with Bonferroni correction",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newColumnsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(errors.ExitCode(err))
	}
}

type runFlags struct {
	configFile  string
	input       string
	sheet       string
	categorical string
	numeric1    string
	numeric2    string
	results     string
	contingency string
	workers     int
	noBanner    bool
}

func newRunCmd() *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Test every level of a categorical variable against the rest",
		Long: `Build a one-vs-rest 2x2 contingency table for every level of the categorical
column, run a chi-square test (Yates-corrected) or a Fisher exact test when any
expected count is below 5, and apply a Bonferroni correction across levels.

Columns are given as 1-based numbers (see "gocontab columns") or header names.

Configuration precedence: flags > GOCONTAB_* environment > --config YAML > defaults.

Example:
  gocontab run --input bats.xlsx --categorical 1 --numeric1 2 --numeric2 3 --results bats-results`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(f.configFile)
			if err != nil {
				return err
			}
			applyRunFlags(cmd, &f, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runAnalysis(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&f.configFile, "config", "", "YAML run configuration file")
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "Input .xlsx or .csv file")
	cmd.Flags().StringVar(&f.sheet, "sheet", "", "Sheet to read (default: first sheet)")
	cmd.Flags().StringVarP(&f.categorical, "categorical", "c", "", "Categorical column (number or name)")
	cmd.Flags().StringVar(&f.numeric1, "numeric1", "", "First count column (number or name)")
	cmd.Flags().StringVar(&f.numeric2, "numeric2", "", "Second count column (number or name)")
	cmd.Flags().StringVar(&f.results, "results", "", "Results workbook (default: chi-square-results.xlsx)")
	cmd.Flags().StringVar(&f.contingency, "contingency", "", "Contingency tables workbook (default: contingency-tables.xlsx)")
	cmd.Flags().IntVar(&f.workers, "workers", 1, "Levels tested concurrently")
	cmd.Flags().BoolVar(&f.noBanner, "no-banner", false, "Do not print the banner")

	return cmd
}

// applyRunFlags overrides config values with the flags the user actually set
func applyRunFlags(cmd *cobra.Command, f *runFlags, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("input") {
		cfg.Input.Path = f.input
	}
	if changed("sheet") {
		cfg.Input.Sheet = f.sheet
	}
	if changed("categorical") {
		cfg.Selection.Categorical = dataset.ColumnRef(f.categorical)
	}
	if changed("numeric1") {
		cfg.Selection.Numeric1 = dataset.ColumnRef(f.numeric1)
	}
	if changed("numeric2") {
		cfg.Selection.Numeric2 = dataset.ColumnRef(f.numeric2)
	}
	if changed("results") {
		cfg.Output.ResultsPath = f.results
	}
	if changed("contingency") {
		cfg.Output.ContingencyPath = f.contingency
	}
	if changed("workers") {
		cfg.Analysis.Workers = f.workers
	}
	if changed("no-banner") {
		cfg.Analysis.ShowBanner = !f.noBanner
	}
}

func runAnalysis(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := internal.DefaultLogger
	logger.SetLevel(internal.ParseLogLevel(cfg.Analysis.LogLevel))

	svc := app.NewRunService(
		excel.NewDataReader(cfg.Input.Path, cfg.Input.Sheet, logger),
		excel.NewWorkbookWriter(logger),
		console.NewReporter(os.Stdout, cfg.Analysis.ShowBanner),
		app.NewIndependenceService(logger, cfg.Analysis.Workers),
	)

	analysis, err := svc.Execute(ctx, app.RunRequest{
		Source:          cfg.Input.Path,
		Selection:       cfg.Selection,
		ResultsPath:     cfg.Output.ResultsPath,
		ContingencyPath: cfg.Output.ContingencyPath,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Results saved to %s\n", cfg.Output.ResultsPath)
	fmt.Printf("Contingency tables saved to %s\n", cfg.Output.ContingencyPath)
	if len(analysis.Skipped) > 0 {
		fmt.Printf("%d level(s) skipped, see warnings above\n", len(analysis.Skipped))
	}
	return nil
}

func newColumnsCmd() *cobra.Command {
	var input, sheet string

	cmd := &cobra.Command{
		Use:   "columns",
		Short: "List the columns of a data file with their numbers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if input == "" {
				input = os.Getenv("GOCONTAB_INPUT")
			}
			if input == "" {
				return errors.InvalidInput("--input is required")
			}

			reader := excel.NewDataReader(input, sheet, internal.DefaultLogger)
			headers, err := reader.Headers(cmd.Context())
			if err != nil {
				return errors.WithCode(errors.CodeIOError, err)
			}
			if len(headers) < 3 {
				return errors.ValidationError(fmt.Sprintf("%s has %d columns, at least 3 are needed", input, len(headers)))
			}

			fmt.Println("Available columns:")
			for i, h := range headers {
				fmt.Printf("%d. %s\n", i+1, h)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Input .xlsx or .csv file")
	cmd.Flags().StringVar(&sheet, "sheet", "", "Sheet to read (default: first sheet)")

	return cmd
}
