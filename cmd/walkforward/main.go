// Command walkforward runs a one-shot walk-forward validation from the
// command line and prints the per-window summary table plus aggregate
// out-of-sample metrics.
package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/quantfold/walkforward/internal/data"
	"github.com/quantfold/walkforward/internal/domain"
	"github.com/quantfold/walkforward/internal/metrics"
	"github.com/quantfold/walkforward/internal/strategies"
	"github.com/quantfold/walkforward/internal/walkforward"
	"github.com/quantfold/walkforward/pkg/logger"
)

var (
	flagStrategy  string
	flagParams    []string
	flagCSV       string
	flagBars      int
	flagSeed      int64
	flagSplits    int
	flagTrainFrac float64
	flagWindow    string
	flagPeriods   int
	flagLogLevel  string
)

var rootCmd = &cobra.Command{
	Use:   "walkforward",
	Short: "Walk-forward validation for trading strategies",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a walk-forward validation and print the summary",
	RunE:  runValidation,
}

var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "List registered strategy names",
	Run: func(cmd *cobra.Command, _ []string) {
		for _, name := range strategies.Names() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
	},
}

func init() {
	runCmd.Flags().StringVar(&flagStrategy, "strategy", "ma_crossover", "strategy name (see 'walkforward strategies')")
	runCmd.Flags().StringSliceVar(&flagParams, "param", nil, "strategy parameter override, key=value (repeatable)")
	runCmd.Flags().StringVar(&flagCSV, "csv", "", "load bars from a CSV file instead of generating synthetic data")
	runCmd.Flags().IntVar(&flagBars, "bars", 500, "synthetic series length")
	runCmd.Flags().Int64Var(&flagSeed, "seed", 42, "synthetic series seed")
	runCmd.Flags().IntVar(&flagSplits, "splits", 5, "number of folds")
	runCmd.Flags().Float64Var(&flagTrainFrac, "train-frac", 0.6, "training fraction per window")
	runCmd.Flags().StringVar(&flagWindow, "window", "rolling", "window type: rolling or anchored")
	runCmd.Flags().IntVar(&flagPeriods, "periods-per-year", 0, "annualization override (0 = detect from timestamps)")

	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "log level: debug, info, warn, error")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(strategiesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runValidation(cmd *cobra.Command, _ []string) error {
	log := logger.New(logger.Config{Level: flagLogLevel, Pretty: true}).
		Output(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: "15:04:05"})

	params, err := parseParams(flagParams)
	if err != nil {
		return err
	}

	factory, err := strategies.Factory(flagStrategy)
	if err != nil {
		return err
	}

	series, err := loadSeries()
	if err != nil {
		return err
	}

	runner := walkforward.NewRunner(metrics.Compute, log)
	result, err := runner.Run(factory, series, params, walkforward.RunOptions{
		NSplits:        flagSplits,
		TrainFrac:      flagTrainFrac,
		WindowType:     walkforward.WindowType(flagWindow),
		PeriodsPerYear: flagPeriods,
	})
	if err != nil {
		return err
	}

	printResult(cmd, result)
	return nil
}

func loadSeries() (domain.Series, error) {
	if flagCSV != "" {
		return data.LoadCSV(flagCSV)
	}
	return data.GenerateSeries(data.SyntheticConfig{
		Bars: flagBars,
		Seed: flagSeed,
	}), nil
}

func parseParams(pairs []string) (domain.Params, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	params := make(domain.Params, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found {
			return nil, fmt.Errorf("invalid --param %q, expected key=value", pair)
		}
		var v float64
		if _, err := fmt.Sscanf(value, "%g", &v); err != nil {
			return nil, fmt.Errorf("invalid --param value %q: %w", pair, err)
		}
		params[key] = v
	}
	return params, nil
}

func printResult(cmd *cobra.Command, result *walkforward.Result) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Strategy: %s (%d windows, %d OOS bars)\n\n",
		result.Strategy, len(result.Windows), result.OOSEquity.Len())

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WINDOW\tTEST START\tTEST END\tBARS\tRETURN\tSHARPE\tMAX DD\tWIN RATE")
	for _, row := range result.Summary {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%.2f%%\t%.2f\t%.2f%%\t%.1f%%\n",
			row.WindowIdx,
			row.TestStart.Format("2006-01-02"),
			row.TestEnd.Format("2006-01-02"),
			row.Bars,
			row.TotalReturn*100,
			row.SharpeRatio,
			row.MaxDrawdown*100,
			row.WinRate*100,
		)
	}
	w.Flush()

	fmt.Fprintf(out, "\nOut-of-sample aggregate:\n")
	fmt.Fprintf(out, "  total return:  %8.2f%%\n", result.OOSMetrics["total_return"]*100)
	fmt.Fprintf(out, "  sharpe ratio:  %8.2f\n", result.OOSMetrics["sharpe_ratio"])
	fmt.Fprintf(out, "  sortino ratio: %8.2f\n", result.OOSMetrics["sortino_ratio"])
	fmt.Fprintf(out, "  max drawdown:  %8.2f%%\n", result.OOSMetrics["max_drawdown"]*100)
	fmt.Fprintf(out, "  win rate:      %8.1f%%\n", result.OOSMetrics["win_rate"]*100)
}
