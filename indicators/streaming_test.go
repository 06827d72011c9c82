package indicators

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/barsim/market"
)

func closes(vals ...float64) []market.Bar {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]market.Bar, len(vals))
	for i, v := range vals {
		p := market.FromFloat(v)
		out[i] = market.Bar{Open: p, High: p, Low: p, Close: p, End: base.Add(time.Duration(i) * time.Hour)}
	}
	return out
}

func TestSimpleMAStreaming(t *testing.T) {
	bars := closes(102, 105, 106, 108, 110)

	t.Run("basic functionality", func(t *testing.T) {
		ma := NewMA(3)
		assert.Equal(t, "MA(3)", ma.Name())
		assert.Equal(t, 3, ma.Warmup())
		assert.False(t, ma.Ready())
		assert.Equal(t, 0.0, ma.Value())

		ma.Update(bars[0])
		ma.Update(bars[1])
		assert.False(t, ma.Ready())

		ma.Update(bars[2])
		assert.True(t, ma.Ready())
		assert.InDelta(t, (102.0+105.0+106.0)/3.0, ma.Value(), 0.001)

		// Window slides to the last 3
		ma.Update(bars[3])
		assert.InDelta(t, (105.0+106.0+108.0)/3.0, ma.Value(), 0.001)
	})

	t.Run("reset functionality", func(t *testing.T) {
		ma := NewMA(2)
		ma.Update(bars[0])
		ma.Update(bars[1])
		assert.True(t, ma.Ready())

		ma.Reset()
		assert.False(t, ma.Ready())
		assert.Equal(t, 0.0, ma.Value())
	})

	t.Run("full series keeps last window", func(t *testing.T) {
		ma := NewMA(3)
		for _, b := range bars {
			ma.Update(b)
		}
		assert.InDelta(t, (106.0+108.0+110.0)/3.0, ma.Value(), 0.001)
	})

	t.Run("zero period never ready", func(t *testing.T) {
		ma := NewMA(0)
		ma.Update(bars[0])
		assert.False(t, ma.Ready())
	})
}

func TestExponentialMAStreaming(t *testing.T) {
	bars := closes(102, 105, 106, 108, 110, 111, 113)

	t.Run("basic functionality", func(t *testing.T) {
		ema := NewEMA(3)
		assert.Equal(t, "EMA(3)", ema.Name())
		assert.Equal(t, 3, ema.Warmup())
		assert.False(t, ema.Ready())

		ema.Update(bars[0])
		ema.Update(bars[1])
		assert.False(t, ema.Ready())

		ema.Update(bars[2])
		assert.True(t, ema.Ready())
		seed := (102.0 + 105.0 + 106.0) / 3.0
		assert.InDelta(t, seed, ema.Value(), 0.001)

		// multiplier = 2/(3+1) = 0.5
		ema.Update(bars[3])
		assert.InDelta(t, (108.0-seed)*0.5+seed, ema.Value(), 0.001)
	})

	t.Run("reset functionality", func(t *testing.T) {
		ema := NewEMA(2)
		ema.Update(bars[0])
		ema.Update(bars[1])
		require.True(t, ema.Ready())

		ema.Reset()
		assert.False(t, ema.Ready())
		assert.Equal(t, 0.0, ema.Value())
	})

	t.Run("full series", func(t *testing.T) {
		ema := NewEMA(5)
		for _, b := range bars {
			ema.Update(b)
		}
		// seed 106.2, multiplier 1/3, then 111 and 113
		v := 106.2 + (111.0-106.2)/3
		v += (113.0 - v) / 3
		assert.InDelta(t, v, ema.Value(), 0.001)
	})
}
