package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotNil(t, cfg)
	assert.Equal(t, "BTC_USD", cfg.Run.Symbol)
	assert.Equal(t, 10000.0, cfg.Run.StartingBalance)
	assert.Equal(t, "ema-cross", cfg.Strategy.Name)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{name: "valid config", mutate: func(c *Config) {}},
		{name: "missing symbol", mutate: func(c *Config) { c.Run.Symbol = "" }, errMsg: "run.symbol is required"},
		{name: "zero balance", mutate: func(c *Config) { c.Run.StartingBalance = 0 }, errMsg: "run.starting_balance must be positive"},
		{name: "negative commission", mutate: func(c *Config) { c.Costs.CommissionPct = -0.1 }, errMsg: "must not be negative"},
		{name: "bad funding interval", mutate: func(c *Config) { c.Costs.FundingInterval = "soon" }, errMsg: "costs.funding_interval"},
		{name: "zero funding interval", mutate: func(c *Config) { c.Costs.FundingInterval = "0s" }, errMsg: "must be positive"},
		{name: "missing strategy", mutate: func(c *Config) { c.Strategy.Name = "" }, errMsg: "strategy.name is required"},
		{name: "fast not below slow", mutate: func(c *Config) { c.Strategy.Fast = 50 }, errMsg: "strategy.fast must be less"},
		{name: "bad from", mutate: func(c *Config) { c.Data.From = "2024-01-01" }, errMsg: "data.from"},
		{name: "inverted window", mutate: func(c *Config) {
			c.Data.From = "2024-02-01T00:00:00Z"
			c.Data.To = "2024-01-01T00:00:00Z"
		}, errMsg: "data.from must be before data.to"},
		{name: "unknown journal", mutate: func(c *Config) { c.Journal.Type = "kafka" }, errMsg: "journal.type must be"},
		{name: "csv without paths", mutate: func(c *Config) { c.Journal.FillsFile = "" }, errMsg: "fills_file and equity_file"},
		{name: "sqlite without path", mutate: func(c *Config) { c.Journal.Type = "sqlite" }, errMsg: "db_path required"},
		{name: "journal none", mutate: func(c *Config) { c.Journal = JournalConfig{Type: "none"} }},
		{name: "bad log format", mutate: func(c *Config) { c.Log.Format = "xml" }, errMsg: "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	for _, name := range []string{"run.yaml", "run.yml", "run.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)

			cfg := Default()
			cfg.Costs.CommissionPct = 0.075
			cfg.Strategy.Name = "limit-band"
			require.NoError(t, cfg.SaveToFile(path))

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}
}

func TestLoadPartialYAMLKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
run:
  symbol: ETH_USD
  starting_balance: 2500
costs:
  commission_pct: 0.1
  funding_pct: 0.01
  funding_interval: 4h
`), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ETH_USD", cfg.Run.Symbol)
	assert.Equal(t, 2500.0, cfg.Run.StartingBalance)
	assert.Equal(t, "ema-cross", cfg.Strategy.Name)

	m, err := cfg.Costs.Model()
	require.NoError(t, err)
	assert.Equal(t, 4*time.Hour, m.FundingRate().Interval)
	assert.Equal(t, "0.1", m.Commission().Percent.String())
	assert.Equal(t, "0.01", m.FundingRate().Percent.String())
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFromFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("run: [unterminated"), 0644))
	_, err = LoadFromFile(bad)
	assert.Error(t, err)

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("run:\n  starting_balance: -1\n"), 0644))
	_, err = LoadFromFile(invalid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestWindow(t *testing.T) {
	from, to, err := DataConfig{From: "2024-01-01T00:00:00Z", To: "2024-02-01T00:00:00Z"}.Window()
	require.NoError(t, err)
	assert.True(t, from.Before(to))

	from, to, err = DataConfig{}.Window()
	require.NoError(t, err)
	assert.True(t, from.IsZero())
	assert.True(t, to.IsZero())
}
