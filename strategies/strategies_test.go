package strategies

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/barsim/market"
	"github.com/rustyeddy/barsim/sim"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func bar(i int, o, h, l, c float64) market.Bar {
	return market.Bar{
		Open:  market.FromFloat(o),
		High:  market.FromFloat(h),
		Low:   market.FromFloat(l),
		Close: market.FromFloat(c),
		End:   t0.Add(time.Duration(i) * time.Hour),
	}
}

func flat(i int, c float64) market.Bar { return bar(i, c, c, c, c) }

func run(t *testing.T, strat sim.Strategy, bars ...market.Bar) *sim.Simulator {
	t.Helper()
	s := sim.NewSimulator(sim.NewTradingSystem("TEST", strat, nil))
	for _, b := range bars {
		require.NoError(t, s.Tick(b))
	}
	return s
}

func params() Params {
	return Params{
		Balance:   decimal.NewFromInt(10000),
		Units:     decimal.NewFromInt(1),
		Fast:      2,
		Slow:      3,
		HoldBars:  2,
		EntryPct:  1,
		TargetPct: 2,
	}
}

func TestByName(t *testing.T) {
	assert.Equal(t, []string{"ema-cross", "limit-band", "noop", "open-once", "sma-cross"}, Names())

	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			s, err := ByName(" "+name+" ", params())
			require.NoError(t, err)
			assert.Contains(t, s.Name(), name)
			assert.Equal(t, "10000", s.StartingBalance().String())
		})
	}

	_, err := ByName("martingale", params())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "supported: ema-cross, limit-band, noop, open-once, sma-cross")

	p := params()
	p.Balance = decimal.Zero
	_, err = ByName("noop", p)
	assert.Error(t, err)
}

func TestConstructorErrors(t *testing.T) {
	bal := decimal.NewFromInt(100)
	one := decimal.NewFromInt(1)

	_, err := NewOpenOnce(bal, decimal.Zero, 1)
	assert.Error(t, err)
	_, err = NewEMACross(bal, one, 5, 5)
	assert.Error(t, err)
	_, err = NewEMACross(bal, one, 0, 5)
	assert.Error(t, err)
	_, err = NewSMACross(bal, one, 3, 2)
	assert.Error(t, err)
	_, err = NewSMACross(bal, decimal.Zero, 2, 3)
	assert.Error(t, err)
	_, err = NewLimitBand(bal, one, 1, 0)
	assert.Error(t, err)
	_, err = NewLimitBand(bal, decimal.NewFromInt(-1), 1, 1)
	assert.Error(t, err)

	s, err := NewOpenOnce(bal, one, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, s.HoldBars)
}

func TestNoop(t *testing.T) {
	s, err := ByName("noop", params())
	require.NoError(t, err)

	sm := run(t, s, flat(0, 100), flat(1, 101))
	assert.Empty(t, sm.History())
	assert.Equal(t, "10000", sm.System().Balance().String())
}

func TestOpenOnce(t *testing.T) {
	s, err := ByName("open-once", params())
	require.NoError(t, err)

	sm := run(t, s, flat(0, 100), flat(1, 101), flat(2, 102), flat(3, 103))
	fills := sm.History()
	require.Len(t, fills, 2)

	assert.Equal(t, "1", fills[0].Volume.String())
	assert.Equal(t, "100", fills[0].Price.String())
	assert.False(t, fills[0].ReduceOnly)

	assert.Equal(t, "-1", fills[1].Volume.String())
	assert.Equal(t, "102", fills[1].Price.String())
	assert.True(t, fills[1].ReduceOnly)
	assert.Equal(t, t0.Add(2*time.Hour), fills[1].Time)

	assert.True(t, sm.System().Position().IsFlat())
	assert.Equal(t, "9898", sm.System().Balance().String())
}

func TestEMACross(t *testing.T) {
	s, err := ByName("ema-cross", params())
	require.NoError(t, err)

	// EMAs settle at 10, a jump to 20 crosses up, a drop to 1 crosses down.
	sm := run(t, s,
		flat(0, 10), flat(1, 10), flat(2, 10),
		flat(3, 20),
		flat(4, 1),
		flat(5, 1),
	)

	fills := sm.History()
	require.Len(t, fills, 3)

	assert.Equal(t, "1", fills[0].Volume.String())
	assert.Equal(t, "20", fills[0].Price.String())

	// Reverse on the bear cross: close the long, then open short.
	assert.Equal(t, "-1", fills[1].Volume.String())
	assert.True(t, fills[1].ReduceOnly)
	assert.Equal(t, "-1", fills[2].Volume.String())
	assert.False(t, fills[2].ReduceOnly)
	assert.Equal(t, fills[1].Time, fills[2].Time)

	assert.True(t, sm.System().Position().IsShort())
	assert.Equal(t, "9999", sm.System().Balance().String())
}

func TestSMACross(t *testing.T) {
	s, err := ByName("sma-cross", params())
	require.NoError(t, err)
	assert.Equal(t, "sma-cross(2,3)", s.Name())

	// SMA(2) 15 vs SMA(3) 13.33 crosses up at bar 3; the slower average
	// keeps it above until bar 5 (1 vs 7.33).
	sm := run(t, s,
		flat(0, 10), flat(1, 10), flat(2, 10),
		flat(3, 20),
		flat(4, 1),
		flat(5, 1),
	)

	fills := sm.History()
	require.Len(t, fills, 3)
	assert.Equal(t, "20", fills[0].Price.String())
	assert.Equal(t, t0.Add(3*time.Hour), fills[0].Time)

	assert.True(t, fills[1].ReduceOnly)
	assert.Equal(t, t0.Add(5*time.Hour), fills[1].Time)
	assert.Equal(t, "-1", fills[2].Volume.String())
	assert.False(t, fills[2].ReduceOnly)

	assert.True(t, sm.System().Position().IsShort())
	assert.Equal(t, "9999", sm.System().Balance().String())
}

func TestLimitBand(t *testing.T) {
	s, err := ByName("limit-band", params())
	require.NoError(t, err)

	sm := run(t, s,
		bar(0, 100, 100, 100, 100), // rests buy 1 @ 99
		bar(1, 100, 100, 98, 99),   // entry fills, rests take-profit @ 100.98
		bar(2, 100, 101, 99, 100),  // take-profit fills, rests new entry @ 99
	)

	fills := sm.History()
	require.Len(t, fills, 2)
	assert.Equal(t, "99", fills[0].Price.String())
	assert.Equal(t, sim.Limit, fills[0].Type)
	assert.Equal(t, "-1", fills[1].Volume.String())
	assert.Equal(t, "100.98", fills[1].Price.String())
	assert.True(t, fills[1].ReduceOnly)

	assert.True(t, sm.System().Position().IsFlat())
	assert.Equal(t, "9899.02", sm.System().Balance().String())

	dropped := sm.Finish()
	require.Len(t, dropped, 1)
	assert.Equal(t, "99", dropped[0].Price.String())
	assert.Empty(t, sm.System().PendingOrders())
}
