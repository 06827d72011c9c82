package sim

import (
	"fmt"

	"github.com/rustyeddy/barsim/market"
)

// OrderType selects the fill rule for an order.
type OrderType int8

const (
	Market OrderType = iota
	Limit
)

func (t OrderType) String() string {
	switch t {
	case Market:
		return "MARKET"
	case Limit:
		return "LIMIT"
	default:
		return fmt.Sprintf("OrderType(%d)", int8(t))
	}
}

// Order is one strategy instruction for the current bar.
//
// Volume is signed: positive buys, negative sells. Price is only used by
// LIMIT orders. The zero Order has no volume and means "no action".
type Order struct {
	Volume     market.Units
	Price      market.Price
	Type       OrderType
	ReduceOnly bool
}

// MarketOrder returns an order filled at the bar close.
func MarketOrder(volume market.Units) Order {
	return Order{Volume: volume, Type: Market}
}

// LimitOrder returns an order that rests until a bar crosses price.
func LimitOrder(volume market.Units, price market.Price) Order {
	return Order{Volume: volume, Price: price, Type: Limit}
}

// Reducing marks the order reduce-only.
func (o Order) Reducing() Order {
	o.ReduceOnly = true
	return o
}

// IsZero reports whether the order is inert.
func (o Order) IsZero() bool { return o.Volume.IsZero() }

func (o Order) IsBuy() bool { return o.Volume.IsPositive() }

func (o Order) IsSell() bool { return o.Volume.IsNegative() }

func (o Order) String() string {
	s := fmt.Sprintf("%s %s", o.Type, o.Volume)
	if o.Type == Limit {
		s += " @ " + o.Price.String()
	}
	if o.ReduceOnly {
		s += " reduce-only"
	}
	return s
}

func (o Order) validate() error {
	switch o.Type {
	case Market:
	case Limit:
		if !o.Price.IsPositive() {
			return fmt.Errorf("%w: limit price %s must be positive", ErrInvalidOrder, o.Price)
		}
	default:
		return fmt.Errorf("%w: unknown order type %s", ErrInvalidOrder, o.Type)
	}
	return nil
}
