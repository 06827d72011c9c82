package strategies

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rustyeddy/barsim/market"
	"github.com/rustyeddy/barsim/sim"
)

// Params carries every tunable a built-in strategy may read. Strategies
// ignore the fields they do not use.
type Params struct {
	Balance   market.Cash
	Units     market.Units
	Fast      int
	Slow      int
	HoldBars  int
	EntryPct  float64
	TargetPct float64
}

// Factory builds a fresh strategy. Strategies carry per-run state, so every
// run needs its own instance.
type Factory func(p Params) (sim.Strategy, error)

var registry = make(map[string]Factory)

// Register makes a strategy available to ByName. Names are case-insensitive.
func Register(name string, f Factory) {
	registry[normalize(name)] = f
}

// Names lists the registered strategy names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ByName builds the named strategy.
func ByName(name string, p Params) (sim.Strategy, error) {
	f, ok := registry[normalize(name)]
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q (supported: %s)", name, strings.Join(Names(), ", "))
	}
	if !p.Balance.IsPositive() {
		return nil, fmt.Errorf("strategy %s: starting balance must be positive", name)
	}
	return f(p)
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func init() {
	Register("noop", func(p Params) (sim.Strategy, error) {
		return &Noop{Base: Base{Balance: p.Balance}}, nil
	})
	Register("open-once", func(p Params) (sim.Strategy, error) {
		return NewOpenOnce(p.Balance, p.Units, p.HoldBars)
	})
	Register("ema-cross", func(p Params) (sim.Strategy, error) {
		return NewEMACross(p.Balance, p.Units, p.Fast, p.Slow)
	})
	Register("sma-cross", func(p Params) (sim.Strategy, error) {
		return NewSMACross(p.Balance, p.Units, p.Fast, p.Slow)
	})
	Register("limit-band", func(p Params) (sim.Strategy, error) {
		return NewLimitBand(p.Balance, p.Units, p.EntryPct, p.TargetPct)
	})
}

// Base answers every hook with no action. Strategies embed it and
// override the hooks they care about.
type Base struct {
	Balance market.Cash
}

func (b Base) StartingBalance() market.Cash             { return b.Balance }
func (Base) OnBuyCondition(*sim.Context) sim.Order      { return sim.Order{} }
func (Base) OnSellCondition(*sim.Context) sim.Order     { return sim.Order{} }
func (Base) OnExitBuyCondition(*sim.Context) sim.Order  { return sim.Order{} }
func (Base) OnExitSellCondition(*sim.Context) sim.Order { return sim.Order{} }

// closeAll returns a reduce-only market order flattening the position.
func closeAll(pos sim.Position) sim.Order {
	return sim.MarketOrder(pos.Size.Neg()).Reducing()
}
