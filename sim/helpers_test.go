package sim

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/rustyeddy/barsim/market"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, d(want).Equal(got), append([]any{"want %s, got %s", want, got}, msgAndArgs...)...)
}

// mkBar builds an hourly bar; i is the hour offset from t0.
func mkBar(i int, o, h, l, c string) market.Bar {
	return market.Bar{
		Open:  d(o),
		High:  d(h),
		Low:   d(l),
		Close: d(c),
		End:   t0.Add(time.Duration(i) * time.Hour),
	}
}

// scripted replays fixed orders by bar index and records hook calls.
type scripted struct {
	balance  decimal.Decimal
	buy      map[int]Order
	sell     map[int]Order
	exitBuy  map[int]Order
	exitSell map[int]Order

	calls []string
	bars  int
}

func newScripted(balance string) *scripted {
	return &scripted{
		balance:  d(balance),
		buy:      map[int]Order{},
		sell:     map[int]Order{},
		exitBuy:  map[int]Order{},
		exitSell: map[int]Order{},
	}
}

func (s *scripted) Name() string                 { return "scripted" }
func (s *scripted) StartingBalance() market.Cash { return s.balance }
func (s *scripted) OnBar(market.Bar)             { s.bars++ }
func (s *scripted) OnBuyCondition(c *Context) Order {
	s.calls = append(s.calls, "buy")
	return s.buy[c.Index]
}
func (s *scripted) OnSellCondition(c *Context) Order {
	s.calls = append(s.calls, "sell")
	return s.sell[c.Index]
}
func (s *scripted) OnExitBuyCondition(c *Context) Order {
	s.calls = append(s.calls, "exitBuy")
	return s.exitBuy[c.Index]
}
func (s *scripted) OnExitSellCondition(c *Context) Order {
	s.calls = append(s.calls, "exitSell")
	return s.exitSell[c.Index]
}

func newTestSim(t *testing.T, strat Strategy, costs CostModel, opts ...Option) *Simulator {
	t.Helper()
	ts := NewTradingSystem("BTC_USD", strat, costs)
	return NewSimulator(ts, opts...)
}
