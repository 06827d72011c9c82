// Package indicators provides streaming technical indicators over bars.
package indicators

import "github.com/rustyeddy/barsim/market"

// Indicator computes a single streaming value from bars.
// It is deterministic; feeding the same bars yields the same value.
type Indicator interface {
	// Name returns a stable identifier like "EMA(20)".
	Name() string

	// Warmup returns how many updates are needed before Ready() can be true.
	Warmup() int

	// Reset clears all internal state.
	Reset()

	// Update consumes the next closed bar.
	Update(b market.Bar)

	// Ready reports whether Value() is meaningful (warmup completed).
	Ready() bool

	// Value returns the current value, or 0 before Ready.
	Value() float64
}

func closeOf(b market.Bar) float64 {
	return market.ToFloat(b.Close)
}
