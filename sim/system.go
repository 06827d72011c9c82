package sim

import (
	"github.com/rustyeddy/barsim/market"
)

// TradingSystem is the per-run state a Simulator mutates: cash balance,
// the position and resting orders. It also fronts the strategy hooks and
// cost schedules.
//
// Fields are only changed through the accounting paths in this package.
type TradingSystem struct {
	symbol   string
	strategy Strategy
	costs    CostModel

	balance  market.Cash
	position Position
	pending  []Order
}

// NewTradingSystem seeds the balance from strat.StartingBalance(). If costs
// is nil the strategy's own CostModel is used when it has one, otherwise
// ZeroCosts.
func NewTradingSystem(symbol string, strat Strategy, costs CostModel) *TradingSystem {
	if costs == nil {
		if cm, ok := strat.(CostModel); ok {
			costs = cm
		} else {
			costs = ZeroCosts()
		}
	}
	return &TradingSystem{
		symbol:   symbol,
		strategy: strat,
		costs:    costs,
		balance:  strat.StartingBalance(),
	}
}

func (ts *TradingSystem) Symbol() string     { return ts.symbol }
func (ts *TradingSystem) Strategy() Strategy { return ts.strategy }
func (ts *TradingSystem) Balance() market.Cash {
	return ts.balance
}
func (ts *TradingSystem) Position() Position { return ts.position }

// PendingOrders returns a copy of the resting orders in submission order.
func (ts *TradingSystem) PendingOrders() []Order {
	out := make([]Order, len(ts.pending))
	copy(out, ts.pending)
	return out
}

func (ts *TradingSystem) Commission() Commission   { return ts.costs.Commission() }
func (ts *TradingSystem) Slippage() Slippage       { return ts.costs.Slippage() }
func (ts *TradingSystem) FundingRate() FundingRate { return ts.costs.FundingRate() }

func (ts *TradingSystem) addBalance(amount market.Cash) {
	ts.balance = ts.balance.Add(amount)
}

func (ts *TradingSystem) setSize(size market.Units) {
	ts.position.Size = size
}

func (ts *TradingSystem) enqueue(o Order) {
	ts.pending = append(ts.pending, o)
}

// takePending removes and returns all resting orders.
func (ts *TradingSystem) takePending() []Order {
	p := ts.pending
	ts.pending = nil
	return p
}

// Snapshot is the terminal state a run must reproduce exactly for
// identical inputs.
type Snapshot struct {
	Balance  market.Cash
	Position Position
	Pending  []Order
}

func (ts *TradingSystem) Snapshot() Snapshot {
	return Snapshot{
		Balance:  ts.balance,
		Position: ts.position,
		Pending:  ts.PendingOrders(),
	}
}
