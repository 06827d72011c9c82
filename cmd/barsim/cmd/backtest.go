package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/barsim/backtest"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run a backtest over a bar CSV",
	Long: `Backtest replays a bar CSV (time,open,high,low,close) through a strategy.

Supported strategies:
  - noop: Does nothing (baseline test)
  - open-once: Buys once on the first bar, closes after --hold bars
  - ema-cross: EMA crossover with reduce-only reversals
  - sma-cross: the same crossover on simple moving averages
  - limit-band: Resting limit entry below the close, limit take-profit above

Flags override the values loaded from --config.

Example:
  barsim backtest --bars data/btc_h1.csv --strategy ema-cross --fast 20 --slow 50`,
	RunE: runBacktest,
}

var (
	btBarsPath string
	btStrategy string
	btJournal  string
	btDBPath   string
	btDataset  string
	btBalance  float64
	btUnits    float64
	btFast     int
	btSlow     int
	btHold     int
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVarP(&btBarsPath, "bars", "b", "", "path to bar CSV")
	backtestCmd.Flags().StringVarP(&btStrategy, "strategy", "s", "", "strategy name (noop, open-once, ema-cross, sma-cross, limit-band)")
	backtestCmd.Flags().StringVarP(&btJournal, "journal", "j", "", "journal type (csv, sqlite, none)")
	backtestCmd.Flags().StringVarP(&btDBPath, "db", "d", "", "path to SQLite journal DB")
	backtestCmd.Flags().StringVar(&btDataset, "dataset", "", "dataset label recorded with the run (default: bars path)")
	backtestCmd.Flags().Float64Var(&btBalance, "balance", 0, "starting balance")
	backtestCmd.Flags().Float64VarP(&btUnits, "units", "u", 0, "order units")
	backtestCmd.Flags().IntVar(&btFast, "fast", 0, "ema-cross/sma-cross: fast period")
	backtestCmd.Flags().IntVar(&btSlow, "slow", 0, "ema-cross/sma-cross: slow period")
	backtestCmd.Flags().IntVar(&btHold, "hold", 0, "open-once: bars to hold before closing")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	setString(cmd, "bars", &cfg.Data.BarsFile, btBarsPath)
	setString(cmd, "strategy", &cfg.Strategy.Name, btStrategy)
	setString(cmd, "journal", &cfg.Journal.Type, btJournal)
	setString(cmd, "db", &cfg.Journal.DBPath, btDBPath)
	if cmd.Flags().Changed("balance") {
		cfg.Run.StartingBalance = btBalance
	}
	if cmd.Flags().Changed("units") {
		cfg.Strategy.Units = btUnits
	}
	if cmd.Flags().Changed("fast") {
		cfg.Strategy.Fast = btFast
	}
	if cmd.Flags().Changed("slow") {
		cfg.Strategy.Slow = btSlow
	}
	if cmd.Flags().Changed("hold") {
		cfg.Strategy.HoldBars = btHold
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	s, err := newSimulator(cfg, strategyParams(cfg), log)
	if err != nil {
		return err
	}

	feed, err := openFeed(cfg.Data)
	if err != nil {
		return fmt.Errorf("open bars: %w", err)
	}

	j, err := openJournal(cfg.Journal)
	if err != nil {
		feed.Close()
		return fmt.Errorf("open journal: %w", err)
	}
	defer func() {
		if err := j.Close(); err != nil {
			log.Error("close journal", zap.Error(err))
		}
	}()

	dataset := btDataset
	if dataset == "" {
		dataset = cfg.Data.BarsFile
	}

	r := &backtest.Runner{
		Sim:     s,
		Feed:    feed,
		Journal: j,
		Dataset: dataset,
		Log:     log,
	}
	res, err := r.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("backtest: %w", err)
	}

	backtest.PrintResult(cmd.OutOrStdout(), res)
	return nil
}
