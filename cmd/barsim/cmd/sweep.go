package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/barsim/backtest"
	"github.com/rustyeddy/barsim/config"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Backtest every fast/slow EMA pair concurrently",
	Long: `Sweep runs the ema-cross strategy once per fast/slow combination
over the same bar CSV and prints one summary line per run. Pairs with
fast >= slow are skipped. Runs are not journaled.

Example:
  barsim sweep --bars data/btc_h1.csv --fast 5,10,20 --slow 50,100`,
	RunE: runSweep,
}

var (
	swBarsPath string
	swFast     []int
	swSlow     []int
	swWorkers  int
)

func init() {
	rootCmd.AddCommand(sweepCmd)

	sweepCmd.Flags().StringVarP(&swBarsPath, "bars", "b", "", "path to bar CSV")
	sweepCmd.Flags().IntSliceVar(&swFast, "fast", []int{10, 20}, "fast EMA periods")
	sweepCmd.Flags().IntSliceVar(&swSlow, "slow", []int{50, 100}, "slow EMA periods")
	sweepCmd.Flags().IntVarP(&swWorkers, "workers", "w", 4, "maximum concurrent runs")
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	setString(cmd, "bars", &cfg.Data.BarsFile, swBarsPath)
	cfg.Strategy.Name = "ema-cross"
	cfg.Journal = config.JournalConfig{Type: "none"}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	var jobs []backtest.Job
	for _, fast := range swFast {
		for _, slow := range swSlow {
			if fast >= slow {
				continue
			}
			p := strategyParams(cfg)
			p.Fast, p.Slow = fast, slow
			jobs = append(jobs, backtest.Job{
				Name: fmt.Sprintf("ema-cross(%d,%d)", fast, slow),
				Build: func() (*backtest.Runner, error) {
					s, err := newSimulator(cfg, p, log)
					if err != nil {
						return nil, err
					}
					feed, err := openFeed(cfg.Data)
					if err != nil {
						return nil, err
					}
					return &backtest.Runner{Sim: s, Feed: feed, Dataset: cfg.Data.BarsFile, Log: log}, nil
				},
			})
		}
	}
	if len(jobs) == 0 {
		return fmt.Errorf("no fast < slow pairs to run")
	}

	results, err := backtest.Sweep(cmd.Context(), jobs, swWorkers)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STRATEGY\tBARS\tFILLS\tBALANCE\tPOSITION\tEQUITY\tNET P/L")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\t%s\t%s\n",
			r.Strategy, r.Bars, len(r.Fills),
			r.Balance.StringFixed(2), r.Position, r.Equity.StringFixed(2), r.NetPL().StringFixed(2))
	}
	return w.Flush()
}
