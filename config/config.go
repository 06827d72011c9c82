package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/barsim/sim"
)

// Config represents the complete backtest configuration
type Config struct {
	Run      RunConfig      `json:"run" yaml:"run"`
	Costs    CostsConfig    `json:"costs" yaml:"costs"`
	Strategy StrategyConfig `json:"strategy" yaml:"strategy"`
	Data     DataConfig     `json:"data" yaml:"data"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
	Log      LogConfig      `json:"log" yaml:"log"`
}

// RunConfig identifies the instrument and the starting cash.
type RunConfig struct {
	Symbol          string  `json:"symbol" yaml:"symbol"`
	StartingBalance float64 `json:"starting_balance" yaml:"starting_balance"`
}

// CostsConfig holds the cost schedules, all in percent.
type CostsConfig struct {
	CommissionPct   float64 `json:"commission_pct" yaml:"commission_pct"`
	SlippagePct     float64 `json:"slippage_pct" yaml:"slippage_pct"`
	FundingPct      float64 `json:"funding_pct" yaml:"funding_pct"`
	FundingInterval string  `json:"funding_interval,omitempty" yaml:"funding_interval,omitempty"` // e.g. "8h"
}

// StrategyConfig selects a strategy and its parameters. Unused
// parameters are ignored by strategies that do not need them.
type StrategyConfig struct {
	Name      string  `json:"name" yaml:"name"`
	Units     float64 `json:"units" yaml:"units"`
	Fast      int     `json:"fast,omitempty" yaml:"fast,omitempty"`
	Slow      int     `json:"slow,omitempty" yaml:"slow,omitempty"`
	HoldBars  int     `json:"hold_bars,omitempty" yaml:"hold_bars,omitempty"`
	EntryPct  float64 `json:"entry_pct,omitempty" yaml:"entry_pct,omitempty"`
	TargetPct float64 `json:"target_pct,omitempty" yaml:"target_pct,omitempty"`
}

// DataConfig points at the bar CSV and an optional [from, to) window.
type DataConfig struct {
	BarsFile string `json:"bars_file" yaml:"bars_file"`
	From     string `json:"from,omitempty" yaml:"from,omitempty"` // RFC3339
	To       string `json:"to,omitempty" yaml:"to,omitempty"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "csv", "sqlite" or "none"
	FillsFile  string `json:"fills_file,omitempty" yaml:"fills_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"` // "json" or "console"
}

// LoadFromFile loads configuration from a file (YAML, falling back to JSON)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		cfg = Default()
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (YAML for .yaml/.yml, JSON otherwise)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Run.Symbol == "" {
		return fmt.Errorf("run.symbol is required")
	}
	if c.Run.StartingBalance <= 0 {
		return fmt.Errorf("run.starting_balance must be positive")
	}
	if c.Costs.CommissionPct < 0 || c.Costs.SlippagePct < 0 {
		return fmt.Errorf("costs.commission_pct and costs.slippage_pct must not be negative")
	}
	if _, err := c.Costs.Interval(); err != nil {
		return err
	}
	if c.Strategy.Name == "" {
		return fmt.Errorf("strategy.name is required")
	}
	if c.Strategy.Units < 0 {
		return fmt.Errorf("strategy.units must not be negative")
	}
	if c.Strategy.Fast < 0 || c.Strategy.Slow < 0 || c.Strategy.HoldBars < 0 {
		return fmt.Errorf("strategy periods must not be negative")
	}
	if c.Strategy.Fast > 0 && c.Strategy.Slow > 0 && c.Strategy.Fast >= c.Strategy.Slow {
		return fmt.Errorf("strategy.fast must be less than strategy.slow")
	}
	if _, _, err := c.Data.Window(); err != nil {
		return err
	}
	switch c.Journal.Type {
	case "none":
	case "csv":
		if c.Journal.FillsFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal fills_file and equity_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'csv', 'sqlite' or 'none'")
	}
	switch c.Log.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("log.format must be 'json' or 'console'")
	}
	return nil
}

// Interval parses the funding interval, defaulting to eight hours.
func (c CostsConfig) Interval() (time.Duration, error) {
	if c.FundingInterval == "" {
		return sim.DefaultFundingInterval, nil
	}
	d, err := time.ParseDuration(c.FundingInterval)
	if err != nil {
		return 0, fmt.Errorf("costs.funding_interval: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("costs.funding_interval must be positive")
	}
	return d, nil
}

// Model converts the schedules into a sim.CostModel.
func (c CostsConfig) Model() (sim.StaticCosts, error) {
	interval, err := c.Interval()
	if err != nil {
		return sim.StaticCosts{}, err
	}
	return sim.StaticCosts{
		Fee:     sim.CommissionPercent(c.CommissionPct),
		Slip:    sim.SlippagePercent(c.SlippagePct),
		Funding: sim.FundingPercent(c.FundingPct, interval),
	}, nil
}

// Window parses the optional From/To bounds.
func (d DataConfig) Window() (from, to time.Time, err error) {
	if d.From != "" {
		if from, err = time.Parse(time.RFC3339, d.From); err != nil {
			return from, to, fmt.Errorf("data.from: %w", err)
		}
	}
	if d.To != "" {
		if to, err = time.Parse(time.RFC3339, d.To); err != nil {
			return from, to, fmt.Errorf("data.to: %w", err)
		}
	}
	if !from.IsZero() && !to.IsZero() && !from.Before(to) {
		return from, to, fmt.Errorf("data.from must be before data.to")
	}
	return from, to, nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Run: RunConfig{
			Symbol:          "BTC_USD",
			StartingBalance: 10000,
		},
		Costs: CostsConfig{
			FundingInterval: "8h",
		},
		Strategy: StrategyConfig{
			Name:  "ema-cross",
			Units: 1,
			Fast:  20,
			Slow:  50,
		},
		Data: DataConfig{
			BarsFile: "./bars.csv",
		},
		Journal: JournalConfig{
			Type:       "csv",
			FillsFile:  "./fills.csv",
			EquityFile: "./equity.csv",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
