package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"dqsuggest/adapters/api"
	"dqsuggest/adapters/excel"
	"dqsuggest/adapters/jsonsource"
	"dqsuggest/adapters/memory"
	"dqsuggest/adapters/postgres"
	"dqsuggest/domain/check"
	"dqsuggest/internal"
	"dqsuggest/internal/config"
	"dqsuggest/internal/runner"
	"dqsuggest/internal/verifier"
	"dqsuggest/ports"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dqsuggest",
		Short: "Constraint suggestion and verification for tabular data",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// A missing .env file is fine; the environment still applies.
			_ = godotenv.Load()
		},
	}

	rootCmd.AddCommand(
		newSuggestCmd(),
		newProfileCmd(),
		newVerifyCmd(),
		newServeCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runFlags are the per-run knobs shared by suggest and verify.
type runFlags struct {
	sheet    string
	split    float64
	seed     int64
	columns  []string
	excluded []string
	disabled []string
	asJSON   bool
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.sheet, "sheet", "", "workbook sheet to read (xlsx inputs)")
	cmd.Flags().Float64Var(&f.split, "split", 0, "train/test split ratio in (0,1); 0 disables splitting")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "seed for the deterministic split")
	cmd.Flags().StringSliceVar(&f.columns, "columns", nil, "columns to run on (default: all)")
	cmd.Flags().StringSliceVar(&f.excluded, "exclude", nil, "columns to skip")
	cmd.Flags().StringSliceVar(&f.disabled, "disable-rule", nil, "rule names to switch off")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "emit JSON output")
}

func (f *runFlags) runConfig(app *config.Config) runner.Config {
	cfg := runner.FromAppConfig(app.Suggestion)
	if f.split != 0 {
		cfg.SplitRatio = f.split
	}
	if f.seed != 0 {
		cfg.Seed = f.seed
	}
	cfg.Columns = f.columns
	cfg.ExcludedColumns = append(cfg.ExcludedColumns, f.excluded...)
	cfg.DisabledRules = append(cfg.DisabledRules, f.disabled...)
	return cfg
}

func newSuggestCmd() *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "suggest [file]",
		Short: "Profile a dataset and suggest data-quality constraints",
		Long: `Profile a dataset and suggest data-quality constraints.

Supports xlsx workbooks and newline-delimited JSON files. With --split the
suggestions are additionally evaluated against the held-out rows.

Example: dqsuggest suggest orders.xlsx --split 0.8 --seed 42`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := config.Load()
			if err != nil {
				return err
			}
			ds, err := loadDataset(args[0], flags.sheet)
			if err != nil {
				return err
			}

			report, err := runner.New(nil, internal.DefaultLogger).
				Run(context.Background(), ds, flags.runConfig(app))
			if err != nil {
				return err
			}

			if flags.asJSON {
				return printJSON(cmd, report)
			}
			for _, rec := range report.Export() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", rec.ColumnName, rec.Description)
				fmt.Fprintf(cmd.OutOrStdout(), "    %s", rec.CodeForConstraint)
				if rec.HoldOutStatus != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "    [hold-out: %s]", rec.HoldOutStatus)
				}
				fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func newProfileCmd() *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "profile [file]",
		Short: "Profile a dataset without suggesting constraints",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := config.Load()
			if err != nil {
				return err
			}
			ds, err := loadDataset(args[0], flags.sheet)
			if err != nil {
				return err
			}

			prof, err := runner.New(nil, internal.DefaultLogger).
				ProfileOnly(context.Background(), ds, flags.runConfig(app))
			if err != nil {
				return err
			}
			return printJSON(cmd, prof)
		},
	}

	flags.register(cmd)
	return cmd
}

func newVerifyCmd() *cobra.Command {
	flags := &runFlags{}
	var level string

	cmd := &cobra.Command{
		Use:   "verify [file]",
		Short: "Suggest constraints and verify them against the full dataset",
		Long: `Suggest constraints from the dataset and immediately verify them
against all of its rows, reporting pass/fail per constraint. Exits non-zero
when the overall status reaches the configured level.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if level != string(check.LevelError) && level != string(check.LevelWarning) {
				return fmt.Errorf("invalid level %q: must be error or warning", level)
			}
			app, err := config.Load()
			if err != nil {
				return err
			}
			ds, err := loadDataset(args[0], flags.sheet)
			if err != nil {
				return err
			}

			cfg := flags.runConfig(app)
			cfg.SplitRatio = 0 // suggest from everything, verify everything

			report, err := runner.New(nil, internal.DefaultLogger).
				Run(context.Background(), ds, cfg)
			if err != nil {
				return err
			}

			constraints := make([]check.Constraint, len(report.Suggestions))
			for i, ev := range report.Suggestions {
				constraints[i] = ev.Constraint
			}

			result, err := verifier.New().Run(context.Background(), ds, []check.Check{{
				Name:        "suggested constraints",
				Level:       check.Level(level),
				Constraints: constraints,
			}})
			if err != nil {
				return err
			}

			if flags.asJSON {
				if err := printJSON(cmd, result); err != nil {
					return err
				}
			} else {
				for _, rec := range result.Export() {
					fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s", rec.ConstraintStatus, rec.ConstraintDescription)
					if rec.ConstraintMessage != "" {
						fmt.Fprintf(cmd.OutOrStdout(), " -- %s", rec.ConstraintMessage)
					}
					fmt.Fprintln(cmd.OutOrStdout())
				}
				fmt.Fprintf(cmd.OutOrStdout(), "overall: %s\n", result.Status)
			}

			if result.Status == check.StatusError {
				os.Exit(1)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&level, "level", string(check.LevelError), "check severity (error or warning)")
	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve suggestion and verification runs over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := config.Load()
			if err != nil {
				return err
			}
			logger := internal.DefaultLogger

			var repo ports.SuggestionRepository
			if app.Database.URL != "" {
				db, err := postgres.Connect(context.Background(), app.Database.URL)
				if err != nil {
					return err
				}
				defer db.Close()
				repo = postgres.NewSuggestionRepository(db)
				logger.Info("suggestion runs will be persisted to postgres")
			}

			server := api.NewServer(runner.New(nil, logger), repo, logger)
			logger.Info("listening on port %s", app.Server.Port)
			return server.Router().Run(":" + app.Server.Port)
		},
	}
}

// loadDataset picks a loader from the file extension.
func loadDataset(path, sheet string) (*memory.Dataset, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return excel.ReadWorkbook(path, sheet)
	case ".json", ".jsonl", ".ndjson":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return jsonsource.Read(f)
	}
	return nil, fmt.Errorf("unsupported input format: %s", path)
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
