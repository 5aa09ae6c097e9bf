// Command minituna runs a random-search study over a built-in objective and
// prints the results.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/thalesfsp/minituna"
	"github.com/thalesfsp/minituna/internal/config"
)

//////
// Const, vars, types.
//////

// optimizeFlags holds the flag values of the optimize command.
type optimizeFlags struct {
	configPath  string
	objective   string
	nTrials     int
	seed        int64
	concurrency int
	logLevel    string
	logFormat   string
}

//////
// Commands.
//////

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "minituna",
		Short:         "Minimal hyperparameter search",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newOptimizeCmd())

	return root
}

func newOptimizeCmd() *cobra.Command {
	flags := &optimizeFlags{}

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Run a study over a built-in objective",
		Long: `Runs a random-search study and prints a summary and the best trial.

Objectives:
  quadratic  (x-3)^2 + (y-5)^2 with x, y in [0, 10]
  mixed      a synthetic training loss using every parameter kind

Examples:
  minituna optimize
  minituna optimize --n-trials 500 --seed 42
  minituna optimize --objective mixed --concurrency 4 --log-format json
  minituna optimize --config run.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(cmd, flags)
			if err != nil {
				return err
			}

			objective, ok := objectives[flags.objective]
			if !ok {
				return fmt.Errorf("unknown objective %q", flags.objective)
			}

			return runOptimize(cmd.Context(), cfg, objective, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	defaults := config.Default()

	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "YAML run configuration file")
	cmd.Flags().StringVar(&flags.objective, "objective", "quadratic", "objective to minimize (quadratic, mixed)")
	cmd.Flags().IntVarP(&flags.nTrials, "n-trials", "n", defaults.NTrials, "number of trials")
	cmd.Flags().Int64Var(&flags.seed, "seed", 0, "sampler seed; unset seeds from the clock")
	cmd.Flags().IntVar(&flags.concurrency, "concurrency", defaults.Concurrency, "trials evaluated at once")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", defaults.Log.Level, "log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&flags.logFormat, "log-format", defaults.Log.Format, "log format (text, json)")

	return cmd
}

//////
// Helper functions.
//////

// resolveConfig loads the config file, if any, then applies the flags the
// user set explicitly.
func resolveConfig(cmd *cobra.Command, flags *optimizeFlags) (config.RunConfig, error) {
	cfg := config.Default()

	if flags.configPath != "" {
		loaded, err := config.Load(flags.configPath)
		if err != nil {
			return config.RunConfig{}, err
		}

		cfg = loaded
	}

	changed := cmd.Flags().Changed

	if changed("n-trials") {
		cfg.NTrials = flags.nTrials
	}

	if changed("seed") {
		seed := flags.seed
		cfg.Seed = &seed
	}

	if changed("concurrency") {
		cfg.Concurrency = flags.concurrency
	}

	if changed("log-level") {
		cfg.Log.Level = flags.logLevel
	}

	if changed("log-format") {
		cfg.Log.Format = flags.logFormat
	}

	if err := cfg.Validate(); err != nil {
		return config.RunConfig{}, err
	}

	return cfg, nil
}

// runOptimize runs the study and writes the report to out. Logs go to logOut.
func runOptimize(
	ctx context.Context,
	cfg config.RunConfig,
	objective minituna.ObjectiveFunc,
	out, logOut io.Writer,
) error {
	studyConfig := minituna.DefaultConfig()
	studyConfig.Name = cfg.StudyName
	studyConfig.Logger = cfg.NewLogger(logOut)
	studyConfig.Concurrency = cfg.Concurrency

	if cfg.Seed != nil {
		studyConfig.Sampler = minituna.NewSeededSampler(*cfg.Seed)
	}

	study := minituna.NewStudy(studyConfig)

	// Report whatever finished, even when the run was interrupted.
	optErr := study.Optimize(ctx, objective, cfg.NTrials)

	printReport(out, study)

	if optErr != nil {
		return fmt.Errorf("optimize: %w", optErr)
	}

	return nil
}

// printReport writes the summary and the best trial's parameters.
func printReport(out io.Writer, study *minituna.Study) {
	fmt.Fprintf(out, "study: %s\n", study.Name())
	fmt.Fprintln(out, study.Summary())

	best, err := study.BestTrial()
	if err != nil {
		// Nothing completed; the summary already says so.
		return
	}

	value, _ := best.ObjectiveValue()
	fmt.Fprintf(out, "best trial %d: value=%g\n", best.ID, value)

	params := best.ParamValues()

	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(out, "  %s = %s\n", name, params[name])
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)

		stop()
		os.Exit(1)
	}
}
