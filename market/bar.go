package market

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidBar is returned for bars whose OHLC values are inconsistent or
// whose timestamps are out of order.
var ErrInvalidBar = errors.New("invalid bar")

// Bar is an OHLC summary of one interval, stamped with the interval end.
type Bar struct {
	Open  Price
	High  Price
	Low   Price
	Close Price
	End   time.Time
}

// Validate checks that the bar is internally consistent.
func (b Bar) Validate() error {
	if b.End.IsZero() {
		return fmt.Errorf("%w: missing end time", ErrInvalidBar)
	}
	if !b.Low.IsPositive() {
		return fmt.Errorf("%w: non-positive low %s at %s", ErrInvalidBar, b.Low, b.End.Format(time.RFC3339))
	}
	if b.Low.GreaterThan(b.High) {
		return fmt.Errorf("%w: low %s above high %s at %s", ErrInvalidBar, b.Low, b.High, b.End.Format(time.RFC3339))
	}
	if !b.within(b.Open) || !b.within(b.Close) {
		return fmt.Errorf("%w: open/close outside [%s, %s] at %s", ErrInvalidBar, b.Low, b.High, b.End.Format(time.RFC3339))
	}
	return nil
}

func (b Bar) within(p Price) bool {
	return p.GreaterThanOrEqual(b.Low) && p.LessThanOrEqual(b.High)
}

// BarSource yields bars in strictly increasing time order.
// Implementations return (ok=false, err=nil) once the data is exhausted.
type BarSource interface {
	Next() (b Bar, ok bool, err error)
	Close() error
}

// Series is an in-memory BarSource.
type Series struct {
	bars []Bar
	idx  int
}

func NewSeries(bars ...Bar) *Series {
	return &Series{bars: bars}
}

func (s *Series) Append(b Bar) { s.bars = append(s.bars, b) }

func (s *Series) Len() int { return len(s.bars) }

// Reset rewinds the series so it can feed another run.
func (s *Series) Reset() { s.idx = 0 }

func (s *Series) Next() (Bar, bool, error) {
	if s.idx >= len(s.bars) {
		return Bar{}, false, nil
	}
	b := s.bars[s.idx]
	s.idx++
	return b, true, nil
}

func (s *Series) Close() error { return nil }
