package sim

import "github.com/rustyeddy/barsim/market"

// Context is the read-only view a strategy hook gets of the run. It is
// rebuilt before every hook call so it reflects fills from earlier steps
// of the same bar.
type Context struct {
	Symbol   string
	Bar      market.Bar
	Index    int
	Position Position
	Balance  market.Cash
	Pending  int
}

// Strategy is the set of decisions the simulator queries once per bar.
// Hooks must not have side effects; returning the zero Order means no action.
type Strategy interface {
	Name() string
	StartingBalance() market.Cash

	OnBuyCondition(ctx *Context) Order
	OnSellCondition(ctx *Context) Order
	OnExitBuyCondition(ctx *Context) Order
	OnExitSellCondition(ctx *Context) Order
}

// BarObserver is implemented by strategies that keep indicator state.
// OnBar is called once per bar before any hook.
type BarObserver interface {
	OnBar(b market.Bar)
}
