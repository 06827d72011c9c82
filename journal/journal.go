// journal/journal.go
package journal

import (
	"time"

	"go.uber.org/multierr"

	"github.com/rustyeddy/barsim/market"
)

// FillRecord is one executed fill as persisted.
type FillRecord struct {
	RunID      string
	FillID     string
	Symbol     string
	Volume     market.Units
	Price      market.Price
	Time       market.Timestamp
	OrderType  string
	ReduceOnly bool
	Commission market.Cash
}

// EquitySnapshot is the account state after one bar.
type EquitySnapshot struct {
	RunID    string
	Time     market.Timestamp
	Balance  market.Cash
	Position market.Units
	Mark     market.Price
	Equity   market.Cash
}

// RunRecord summarizes a finished simulation.
type RunRecord struct {
	RunID    string
	Created  time.Time
	Strategy string
	Symbol   string
	Dataset  string
	Start    time.Time
	End      time.Time
	Bars     int

	StartBalance market.Cash
	EndBalance   market.Cash
	EndPosition  market.Units
	EndEquity    market.Cash

	Fills      int
	Rejections int
	Dropped    int

	Commission market.Cash
	Slippage   market.Cash
	Funding    market.Cash
}

type Journal interface {
	RecordFill(FillRecord) error
	RecordEquity(EquitySnapshot) error
	RecordRun(RunRecord) error
	Close() error
}

// Multi fans every record out to all journals and joins their errors.
func Multi(js ...Journal) Journal {
	return multi(js)
}

type multi []Journal

func (m multi) RecordFill(r FillRecord) (err error) {
	for _, j := range m {
		err = multierr.Append(err, j.RecordFill(r))
	}
	return err
}

func (m multi) RecordEquity(e EquitySnapshot) (err error) {
	for _, j := range m {
		err = multierr.Append(err, j.RecordEquity(e))
	}
	return err
}

func (m multi) RecordRun(r RunRecord) (err error) {
	for _, j := range m {
		err = multierr.Append(err, j.RecordRun(r))
	}
	return err
}

func (m multi) Close() (err error) {
	for _, j := range m {
		err = multierr.Append(err, j.Close())
	}
	return err
}

// Discard drops everything.
type Discard struct{}

func (Discard) RecordFill(FillRecord) error       { return nil }
func (Discard) RecordEquity(EquitySnapshot) error { return nil }
func (Discard) RecordRun(RunRecord) error         { return nil }
func (Discard) Close() error                      { return nil }
