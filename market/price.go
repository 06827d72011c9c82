package market

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Prices, volumes and cash amounts are all arbitrary precision decimals so
// long simulations do not accumulate float drift.
type (
	Price     = decimal.Decimal
	Units     = decimal.Decimal
	Cash      = decimal.Decimal
	Timestamp = time.Time
)

var zero = decimal.Zero

// ParsePrice parses a decimal string such as "1.08512".
func ParsePrice(s string) (Price, error) {
	p, err := decimal.NewFromString(s)
	if err != nil {
		return zero, fmt.Errorf("parse price %q: %w", s, err)
	}
	return p, nil
}

// MustPrice is ParsePrice for literals known to be valid.
func MustPrice(s string) Price {
	return decimal.RequireFromString(s)
}

// FromFloat converts a configuration value into a decimal.
func FromFloat(x float64) Price {
	return decimal.NewFromFloat(x)
}

// ToFloat is lossy and only meant for indicators and display.
func ToFloat(p Price) float64 {
	return p.InexactFloat64()
}
