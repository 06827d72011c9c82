package strategies

import (
	"fmt"

	"github.com/rustyeddy/barsim/indicators"
	"github.com/rustyeddy/barsim/market"
	"github.com/rustyeddy/barsim/sim"
)

// MACross trades a fast/slow moving-average crossover on bar closes.
//   - Enters only on cross: long on a bull cross, short on a bear cross
//   - Reverses on the opposite cross (reduce-only close, then open)
type MACross struct {
	Base
	Units market.Units

	kind string
	fast indicators.Indicator
	slow indicators.Indicator

	lastDiff     float64
	haveLastDiff bool
	signal       int // +1 bull cross, -1 bear cross on the current bar
}

var _ sim.BarObserver = (*MACross)(nil)

// NewEMACross crosses two exponential moving averages.
func NewEMACross(balance market.Cash, units market.Units, fast, slow int) (*MACross, error) {
	if err := checkCross("ema-cross", units, fast, slow); err != nil {
		return nil, err
	}
	return newMACross("ema-cross", balance, units, indicators.NewEMA(fast), indicators.NewEMA(slow)), nil
}

// NewSMACross crosses two simple moving averages.
func NewSMACross(balance market.Cash, units market.Units, fast, slow int) (*MACross, error) {
	if err := checkCross("sma-cross", units, fast, slow); err != nil {
		return nil, err
	}
	return newMACross("sma-cross", balance, units, indicators.NewMA(fast), indicators.NewMA(slow)), nil
}

func checkCross(kind string, units market.Units, fast, slow int) error {
	if !units.IsPositive() {
		return fmt.Errorf("%s: units must be positive, got %s", kind, units)
	}
	if fast <= 0 || slow <= 0 || fast >= slow {
		return fmt.Errorf("%s: need 0 < fast < slow, got %d/%d", kind, fast, slow)
	}
	return nil
}

func newMACross(kind string, balance market.Cash, units market.Units, fast, slow indicators.Indicator) *MACross {
	return &MACross{
		Base:  Base{Balance: balance},
		Units: units,
		kind:  kind,
		fast:  fast,
		slow:  slow,
	}
}

func (s *MACross) Name() string {
	return fmt.Sprintf("%s(%d,%d)", s.kind, s.fast.Warmup(), s.slow.Warmup())
}

// OnBar updates both averages and latches the cross signal for this bar.
func (s *MACross) OnBar(b market.Bar) {
	s.fast.Update(b)
	s.slow.Update(b)
	s.signal = 0

	if !s.fast.Ready() || !s.slow.Ready() {
		return
	}
	diff := s.fast.Value() - s.slow.Value()
	if !s.haveLastDiff {
		s.lastDiff = diff
		s.haveLastDiff = true
		return
	}

	// Bull cross: diff goes from <=0 to >0
	// Bear cross: diff goes from >=0 to <0
	switch {
	case diff > 0 && s.lastDiff <= 0:
		s.signal = +1
	case diff < 0 && s.lastDiff >= 0:
		s.signal = -1
	}
	s.lastDiff = diff
}

func (s *MACross) OnExitBuyCondition(ctx *sim.Context) sim.Order {
	if s.signal < 0 {
		return closeAll(ctx.Position)
	}
	return sim.Order{}
}

func (s *MACross) OnExitSellCondition(ctx *sim.Context) sim.Order {
	if s.signal > 0 {
		return closeAll(ctx.Position)
	}
	return sim.Order{}
}

func (s *MACross) OnBuyCondition(ctx *sim.Context) sim.Order {
	if s.signal > 0 && ctx.Position.IsFlat() {
		return sim.MarketOrder(s.Units)
	}
	return sim.Order{}
}

func (s *MACross) OnSellCondition(ctx *sim.Context) sim.Order {
	if s.signal < 0 && ctx.Position.IsFlat() {
		return sim.MarketOrder(s.Units.Neg())
	}
	return sim.Order{}
}
