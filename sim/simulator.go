package sim

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rustyeddy/barsim/internal/id"
	"github.com/rustyeddy/barsim/market"
)

// Simulator advances a TradingSystem one bar at a time. It owns the fill
// history and is not safe for concurrent use; run independent simulations
// with independent Simulator/TradingSystem pairs.
type Simulator struct {
	ts    *TradingSystem
	log   *zap.Logger
	newID func(time.Time) string

	bar   market.Bar
	ticks int

	fundedAt   time.Time
	history    []TradeLog
	rejections []Rejection
	costs      Costs
}

type Option func(*Simulator)

// WithLogger sends rejections and settlements to l.
func WithLogger(l *zap.Logger) Option {
	return func(s *Simulator) {
		if l != nil {
			s.log = l
		}
	}
}

// WithIDs overrides how fill IDs are minted.
func WithIDs(fn func(time.Time) string) Option {
	return func(s *Simulator) {
		if fn != nil {
			s.newID = fn
		}
	}
}

func NewSimulator(ts *TradingSystem, opts ...Option) *Simulator {
	s := &Simulator{
		ts:    ts,
		log:   zap.NewNop(),
		newID: id.NewAt,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) System() *TradingSystem { return s.ts }

// Ticks is the number of bars processed.
func (s *Simulator) Ticks() int { return s.ticks }

// LastBar is the most recent bar accepted by Tick.
func (s *Simulator) LastBar() market.Bar { return s.bar }

// History returns a copy of all fills in execution order.
func (s *Simulator) History() []TradeLog {
	out := make([]TradeLog, len(s.history))
	copy(out, s.history)
	return out
}

// HistorySince returns fills after the first n.
func (s *Simulator) HistorySince(n int) []TradeLog {
	if n >= len(s.history) {
		return nil
	}
	out := make([]TradeLog, len(s.history)-n)
	copy(out, s.history[n:])
	return out
}

func (s *Simulator) Rejections() []Rejection {
	out := make([]Rejection, len(s.rejections))
	copy(out, s.rejections)
	return out
}

func (s *Simulator) Costs() Costs { return s.costs }

func (s *Simulator) Snapshot() Snapshot { return s.ts.Snapshot() }

// Finish ends the run and returns the orders still resting. They are
// dropped, never filled at a final price.
func (s *Simulator) Finish() []Order {
	dropped := s.ts.takePending()
	if len(dropped) > 0 {
		s.log.Info("dropping unfilled orders at end of data",
			zap.Int("count", len(dropped)),
			zap.String("symbol", s.ts.symbol))
	}
	return dropped
}

// Tick runs one bar through the fixed per-bar sequence:
//
//  1. accept the bar and settle funding
//  2. re-match resting orders
//  3. exit-long hook when long
//  4. exit-short hook when short
//  5. buy hook
//  6. sell hook
//
// An inconsistent or out-of-order bar is refused with market.ErrInvalidBar
// and leaves all state unchanged.
func (s *Simulator) Tick(b market.Bar) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if s.ticks > 0 && !b.End.After(s.bar.End) {
		return fmt.Errorf("%w: %s is not after %s", market.ErrInvalidBar,
			b.End.Format(time.RFC3339), s.bar.End.Format(time.RFC3339))
	}

	s.bar = b
	s.ticks++
	if obs, ok := s.ts.strategy.(BarObserver); ok {
		obs.OnBar(b)
	}
	s.settleFunding(b)

	s.matchPending()

	strat := s.ts.strategy
	if s.ts.position.IsLong() {
		s.submit(strat.OnExitBuyCondition(s.context()), true)
	}
	if s.ts.position.IsShort() {
		s.submit(strat.OnExitSellCondition(s.context()), true)
	}
	s.submit(strat.OnBuyCondition(s.context()), false)
	s.submit(strat.OnSellCondition(s.context()), false)

	return nil
}

func (s *Simulator) context() *Context {
	return &Context{
		Symbol:   s.ts.symbol,
		Bar:      s.bar,
		Index:    s.ticks - 1,
		Position: s.ts.position,
		Balance:  s.ts.balance,
		Pending:  len(s.ts.pending),
	}
}

// submit routes a hook result. Exit hooks queue reduce-only LIMIT orders,
// entry hooks queue plain LIMIT orders; anything else is resolved on this bar.
func (s *Simulator) submit(o Order, exit bool) {
	if o.IsZero() {
		return
	}
	if err := o.validate(); err != nil {
		s.reject(o, err)
		return
	}
	if o.Type == Limit && o.ReduceOnly == exit {
		s.ts.enqueue(o)
		return
	}
	s.resolve(o)
}

// resolve fills o now if it crosses this bar. A LIMIT order that does not
// cross starts resting, unless it is reduce-only against the wrong side
// of the current position.
func (s *Simulator) resolve(o Order) {
	price, ok := fillPrice(o, s.bar, s.ts.Slippage())
	if !ok {
		if o.ReduceOnly {
			size := s.ts.position.Size
			if _, err := reduceTarget(size, o.Volume); err != nil {
				s.reject(o, fmt.Errorf("%w: order %s, position %s", err, o.Volume, size))
				return
			}
		}
		s.ts.enqueue(o)
		return
	}
	if err := s.fill(o, price); err != nil {
		s.reject(o, err)
	}
}

// matchPending re-evaluates resting orders in submission order. Filled or
// rejected orders leave the queue; the rest keep their place.
func (s *Simulator) matchPending() {
	pending := s.ts.takePending()
	if len(pending) == 0 {
		return
	}

	slip := s.ts.Slippage()
	var keep []Order
	for _, o := range pending {
		price, ok := fillPrice(o, s.bar, slip)
		if !ok {
			keep = append(keep, o)
			continue
		}
		if err := s.fill(o, price); err != nil {
			s.reject(o, err)
		}
	}
	s.ts.pending = append(keep, s.ts.pending...)
}

func (s *Simulator) fill(o Order, price market.Price) error {
	if o.ReduceOnly {
		return s.closePosition(o, price)
	}
	s.openPosition(o, price)
	return nil
}

// openPosition adds the order volume to the position. Opening never moves
// the balance; only reductions realize cash flow.
func (s *Simulator) openPosition(o Order, price market.Price) {
	s.ts.setSize(s.ts.position.Size.Add(o.Volume))
	s.record(o, o.Volume, price)
}

// closePosition shrinks the position toward zero and realizes
// delta * price into the balance, where delta = newSize - size. Opening
// legs never touch the balance, so a round trip at one price p of volume v
// leaves start - v*p, not start.
func (s *Simulator) closePosition(o Order, price market.Price) error {
	size := s.ts.position.Size
	newSize, err := reduceTarget(size, o.Volume)
	if err != nil {
		return fmt.Errorf("%w: order %s, position %s", err, o.Volume, size)
	}

	delta := newSize.Sub(size)
	s.ts.addBalance(delta.Mul(price))
	s.record(o, delta, price)
	s.ts.setSize(newSize)
	return nil
}

// record appends the fill and settles per-fill costs.
func (s *Simulator) record(o Order, volume market.Units, price market.Price) {
	fee := s.ts.Commission().Fee(volume, price)
	if !fee.IsZero() {
		s.ts.addBalance(fee.Neg())
		s.costs.Commission = s.costs.Commission.Add(fee)
	}
	if o.Type == Market {
		slipped := volume.Abs().Mul(price.Sub(s.bar.Close).Abs())
		s.costs.Slippage = s.costs.Slippage.Add(slipped)
	}

	s.history = append(s.history, TradeLog{
		ID:         s.newID(s.bar.End),
		Symbol:     s.ts.symbol,
		Volume:     volume,
		Price:      price,
		Time:       s.bar.End,
		Type:       o.Type,
		ReduceOnly: o.ReduceOnly,
		Commission: fee,
	})
	s.log.Debug("fill",
		zap.String("symbol", s.ts.symbol),
		zap.Stringer("volume", volume),
		zap.Stringer("price", price),
		zap.Stringer("type", o.Type),
		zap.Bool("reduce_only", o.ReduceOnly),
		zap.Time("time", s.bar.End))
}

// settleFunding charges the position held over every funding boundary
// between the previous bar and b.
func (s *Simulator) settleFunding(b market.Bar) {
	f := s.ts.FundingRate()
	if s.fundedAt.IsZero() {
		s.fundedAt = b.End
		return
	}
	n := f.Periods(s.fundedAt, b.End)
	s.fundedAt = b.End
	if n == 0 || s.ts.position.IsFlat() {
		return
	}

	charge := f.Charge(s.ts.position.Size, b.Close).Mul(decimal.NewFromInt(n))
	if charge.IsZero() {
		return
	}
	s.ts.addBalance(charge.Neg())
	s.costs.Funding = s.costs.Funding.Add(charge)
	s.log.Debug("funding",
		zap.Int64("periods", n),
		zap.Stringer("charge", charge),
		zap.Stringer("position", s.ts.position.Size),
		zap.Time("time", b.End))
}

func (s *Simulator) reject(o Order, err error) {
	r := Rejection{Order: o, Time: s.bar.End, Err: err}
	s.rejections = append(s.rejections, r)
	s.log.Warn("order rejected",
		zap.String("symbol", s.ts.symbol),
		zap.Stringer("order", o),
		zap.Time("time", s.bar.End),
		zap.Error(err))
}
