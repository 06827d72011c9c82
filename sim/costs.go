package sim

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/barsim/market"
)

var hundred = decimal.NewFromInt(100)

// DefaultFundingInterval is the perpetual-swap funding cadence used when a
// funding rate does not set its own.
const DefaultFundingInterval = 8 * time.Hour

// Commission is charged on every fill as a percent of notional.
type Commission struct {
	Percent decimal.Decimal
}

func CommissionPercent(pct float64) Commission {
	return Commission{Percent: decimal.NewFromFloat(pct)}
}

// Fee returns |volume| * price * pct / 100.
func (c Commission) Fee(volume market.Units, price market.Price) market.Cash {
	if c.Percent.IsZero() {
		return decimal.Zero
	}
	return volume.Abs().Mul(price).Mul(c.Percent).Div(hundred)
}

// Slippage moves MARKET fills against the order by a percent of price.
type Slippage struct {
	Percent decimal.Decimal
}

func SlippagePercent(pct float64) Slippage {
	return Slippage{Percent: decimal.NewFromFloat(pct)}
}

// Apply returns the price a market order of volume actually pays:
// buys fill higher, sells fill lower.
func (s Slippage) Apply(price market.Price, volume market.Units) market.Price {
	if s.Percent.IsZero() || volume.IsZero() {
		return price
	}
	adj := price.Mul(s.Percent).Div(hundred)
	if volume.IsPositive() {
		return price.Add(adj)
	}
	return price.Sub(adj)
}

// FundingRate is charged on open positions once per Interval boundary.
type FundingRate struct {
	Percent  decimal.Decimal
	Interval time.Duration
}

func FundingPercent(pct float64, interval time.Duration) FundingRate {
	return FundingRate{Percent: decimal.NewFromFloat(pct), Interval: interval}
}

// Charge is the amount debited for one period: size * mark * pct / 100.
// Longs pay a positive rate and shorts receive it.
func (f FundingRate) Charge(size market.Units, mark market.Price) market.Cash {
	if f.Percent.IsZero() {
		return decimal.Zero
	}
	return size.Mul(mark).Mul(f.Percent).Div(hundred)
}

// Periods counts the interval boundaries crossed in (from, to].
func (f FundingRate) Periods(from, to time.Time) int64 {
	if f.Interval <= 0 || !to.After(from) {
		return 0
	}
	return int64(to.Truncate(f.Interval).Sub(from.Truncate(f.Interval)) / f.Interval)
}

// CostModel supplies the cost schedules the simulator settles against.
type CostModel interface {
	Commission() Commission
	Slippage() Slippage
	FundingRate() FundingRate
}

// StaticCosts is a CostModel with fixed schedules.
type StaticCosts struct {
	Fee     Commission
	Slip    Slippage
	Funding FundingRate
}

// ZeroCosts charges nothing and funds every eight hours at 0%.
func ZeroCosts() StaticCosts {
	return StaticCosts{Funding: FundingRate{Interval: DefaultFundingInterval}}
}

func (c StaticCosts) Commission() Commission   { return c.Fee }
func (c StaticCosts) Slippage() Slippage       { return c.Slip }
func (c StaticCosts) FundingRate() FundingRate { return c.Funding }

// Costs accumulates what a run has paid. Funding is net: negative when
// the position received funding.
type Costs struct {
	Commission market.Cash
	Slippage   market.Cash
	Funding    market.Cash
}

// Total is the sum of all cost components.
func (c Costs) Total() market.Cash {
	return c.Commission.Add(c.Slippage).Add(c.Funding)
}
