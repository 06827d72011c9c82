package sim

import "github.com/rustyeddy/barsim/market"

// Position is the net exposure in the simulated instrument.
type Position struct {
	Size market.Units
}

func (p Position) IsLong() bool  { return p.Size.IsPositive() }
func (p Position) IsShort() bool { return p.Size.IsNegative() }
func (p Position) IsFlat() bool  { return p.Size.IsZero() }

// Side returns +1 long, -1 short, 0 flat.
func (p Position) Side() int { return p.Size.Sign() }
