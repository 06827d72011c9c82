package sim

import (
	"time"

	"github.com/rustyeddy/barsim/market"
)

// TradeLog records one executed fill. Volume carries the sign of the fill
// direction; for reduce-only fills it is the quantity actually closed.
type TradeLog struct {
	ID         string
	Symbol     string
	Volume     market.Units
	Price      market.Price
	Time       time.Time
	Type       OrderType
	ReduceOnly bool
	Commission market.Cash
}

// Notional is |Volume| * Price.
func (t TradeLog) Notional() market.Cash {
	return t.Volume.Abs().Mul(t.Price)
}
