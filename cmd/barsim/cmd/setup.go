package cmd

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/barsim/config"
	"github.com/rustyeddy/barsim/internal/logging"
	"github.com/rustyeddy/barsim/journal"
	"github.com/rustyeddy/barsim/market"
	"github.com/rustyeddy/barsim/sim"
	"github.com/rustyeddy/barsim/strategies"
)

// loadConfig reads --config, or the defaults when it is not given.
func loadConfig() (*config.Config, error) {
	if cfgFile == "" {
		return config.Default(), nil
	}
	return config.LoadFromFile(cfgFile)
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	return logging.New(level, cfg.Log.Format)
}

func openJournal(jc config.JournalConfig) (journal.Journal, error) {
	switch jc.Type {
	case "sqlite":
		return journal.NewSQLite(jc.DBPath)
	case "csv":
		return journal.NewCSV(jc.FillsFile, jc.EquityFile)
	case "none", "":
		return journal.Discard{}, nil
	default:
		return nil, fmt.Errorf("unknown journal type %q", jc.Type)
	}
}

func openFeed(dc config.DataConfig) (*market.CSVBarFeed, error) {
	from, to, err := dc.Window()
	if err != nil {
		return nil, err
	}
	return market.NewCSVBarFeed(dc.BarsFile, from, to)
}

func strategyParams(cfg *config.Config) strategies.Params {
	return strategies.Params{
		Balance:   decimal.NewFromFloat(cfg.Run.StartingBalance),
		Units:     decimal.NewFromFloat(cfg.Strategy.Units),
		Fast:      cfg.Strategy.Fast,
		Slow:      cfg.Strategy.Slow,
		HoldBars:  cfg.Strategy.HoldBars,
		EntryPct:  cfg.Strategy.EntryPct,
		TargetPct: cfg.Strategy.TargetPct,
	}
}

// newSimulator builds a fresh strategy, trading system and simulator.
func newSimulator(cfg *config.Config, p strategies.Params, log *zap.Logger) (*sim.Simulator, error) {
	strat, err := strategies.ByName(cfg.Strategy.Name, p)
	if err != nil {
		return nil, fmt.Errorf("strategy: %w", err)
	}
	costs, err := cfg.Costs.Model()
	if err != nil {
		return nil, err
	}
	ts := sim.NewTradingSystem(cfg.Run.Symbol, strat, costs)
	return sim.NewSimulator(ts, sim.WithLogger(log)), nil
}

// setString overrides dst when the flag was given on the command line.
func setString(cmd *cobra.Command, name string, dst *string, v string) {
	if cmd.Flags().Changed(name) {
		*dst = v
	}
}
