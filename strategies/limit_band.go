package strategies

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/barsim/market"
	"github.com/rustyeddy/barsim/sim"
)

// LimitBand rests a buy limit EntryPct below the close while flat, then
// a reduce-only take-profit TargetPct above the close while long. It never
// stacks orders: nothing new is placed while one is resting.
type LimitBand struct {
	Base
	Units     market.Units
	EntryPct  decimal.Decimal
	TargetPct decimal.Decimal
}

func NewLimitBand(balance market.Cash, units market.Units, entryPct, targetPct float64) (*LimitBand, error) {
	if !units.IsPositive() {
		return nil, fmt.Errorf("limit-band: units must be positive, got %s", units)
	}
	if entryPct < 0 || entryPct >= 100 || targetPct <= 0 {
		return nil, fmt.Errorf("limit-band: need 0 <= entry_pct < 100 and target_pct > 0, got %v/%v", entryPct, targetPct)
	}
	return &LimitBand{
		Base:      Base{Balance: balance},
		Units:     units,
		EntryPct:  decimal.NewFromFloat(entryPct),
		TargetPct: decimal.NewFromFloat(targetPct),
	}, nil
}

func (*LimitBand) Name() string { return "limit-band" }

func (s *LimitBand) OnBuyCondition(ctx *sim.Context) sim.Order {
	if !ctx.Position.IsFlat() || ctx.Pending > 0 {
		return sim.Order{}
	}
	return sim.LimitOrder(s.Units, offset(ctx.Bar.Close, s.EntryPct.Neg()))
}

func (s *LimitBand) OnExitBuyCondition(ctx *sim.Context) sim.Order {
	if ctx.Pending > 0 {
		return sim.Order{}
	}
	return sim.LimitOrder(ctx.Position.Size.Neg(), offset(ctx.Bar.Close, s.TargetPct)).Reducing()
}

// offset moves price by pct percent.
func offset(price market.Price, pct decimal.Decimal) market.Price {
	return price.Mul(decimal.NewFromInt(100).Add(pct)).Div(decimal.NewFromInt(100))
}
