package sim

import (
	"github.com/shopspring/decimal"

	"github.com/rustyeddy/barsim/market"
)

// fillPrice decides whether o executes against b and at what price.
//
//   - MARKET fills at the close, moved by slippage.
//   - LIMIT buy fills at its price if the bar traded at or below it.
//   - LIMIT sell fills at its price if the bar traded at or above it.
func fillPrice(o Order, b market.Bar, slip Slippage) (market.Price, bool) {
	switch o.Type {
	case Market:
		return slip.Apply(b.Close, o.Volume), true
	case Limit:
		if o.IsBuy() {
			return o.Price, b.Low.LessThanOrEqual(o.Price)
		}
		return o.Price, b.High.GreaterThanOrEqual(o.Price)
	}
	return decimal.Zero, false
}

// reduceTarget returns the position size after a reduce-only fill of
// volume. The result is clamped at zero so the sign never flips.
func reduceTarget(size, volume market.Units) (market.Units, error) {
	switch {
	case volume.IsPositive() && size.IsNegative():
		return decimal.Min(size.Add(volume), decimal.Zero), nil
	case volume.IsNegative() && size.IsPositive():
		return decimal.Max(size.Add(volume), decimal.Zero), nil
	}
	return size, ErrWrongSide
}
