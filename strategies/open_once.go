package strategies

import (
	"fmt"

	"github.com/rustyeddy/barsim/market"
	"github.com/rustyeddy/barsim/sim"
)

// OpenOnce buys Units at market on the first bar and closes the whole
// position reduce-only once HoldBars bars have passed.
type OpenOnce struct {
	Base
	Units    market.Units
	HoldBars int
}

func NewOpenOnce(balance market.Cash, units market.Units, holdBars int) (*OpenOnce, error) {
	if !units.IsPositive() {
		return nil, fmt.Errorf("open-once: units must be positive, got %s", units)
	}
	if holdBars <= 0 {
		holdBars = 1
	}
	return &OpenOnce{Base: Base{Balance: balance}, Units: units, HoldBars: holdBars}, nil
}

func (*OpenOnce) Name() string { return "open-once" }

func (s *OpenOnce) OnBuyCondition(ctx *sim.Context) sim.Order {
	if ctx.Index != 0 || !ctx.Position.IsFlat() {
		return sim.Order{}
	}
	return sim.MarketOrder(s.Units)
}

func (s *OpenOnce) OnExitBuyCondition(ctx *sim.Context) sim.Order {
	if ctx.Index < s.HoldBars {
		return sim.Order{}
	}
	return closeAll(ctx.Position)
}
