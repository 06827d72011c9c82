package backtest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rustyeddy/barsim/internal/id"
	"github.com/rustyeddy/barsim/journal"
	"github.com/rustyeddy/barsim/market"
	"github.com/rustyeddy/barsim/sim"
)

// Runner drives a Simulator over a bar source and journals what happens.
type Runner struct {
	Sim     *sim.Simulator
	Feed    market.BarSource
	Journal journal.Journal // nil discards
	RunID   string          // minted when empty
	Dataset string
	Log     *zap.Logger
}

// Run executes the backtest loop:
//  1. read next bar
//  2. sim.Tick(bar)
//  3. journal new fills and an equity snapshot
//
// Bars the simulator refuses as invalid are skipped and counted. At end of
// data resting orders are dropped and a run record is written.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	if r.Sim == nil {
		return Result{}, fmt.Errorf("backtest: Sim is required")
	}
	if r.Feed == nil {
		return Result{}, fmt.Errorf("backtest: Feed is required")
	}
	defer r.Feed.Close()

	j := r.Journal
	if j == nil {
		j = journal.Discard{}
	}
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}
	runID := r.RunID
	if runID == "" {
		runID = id.New()
	}

	ts := r.Sim.System()
	res := Result{
		RunID:        runID,
		Strategy:     ts.Strategy().Name(),
		Symbol:       ts.Symbol(),
		Dataset:      r.Dataset,
		StartBalance: ts.Balance(),
	}
	log = log.With(zap.String("run_id", runID), zap.String("strategy", res.Strategy))

	journaled := len(r.Sim.History())
	for {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		b, ok, err := r.Feed.Next()
		if err != nil {
			return Result{}, fmt.Errorf("backtest: read bar: %w", err)
		}
		if !ok {
			break
		}

		if err := r.Sim.Tick(b); err != nil {
			if errors.Is(err, market.ErrInvalidBar) {
				res.Skipped++
				log.Warn("skipping bar", zap.Time("time", b.End), zap.Error(err))
				continue
			}
			return Result{}, err
		}
		if res.Start.IsZero() {
			res.Start = b.End
		}
		res.End = b.End
		res.Bars++

		for _, f := range r.Sim.HistorySince(journaled) {
			if err := j.RecordFill(fillRecord(runID, f)); err != nil {
				return Result{}, fmt.Errorf("backtest: journal fill: %w", err)
			}
			journaled++
		}

		snap := ts.Snapshot()
		if err := j.RecordEquity(journal.EquitySnapshot{
			RunID:    runID,
			Time:     b.End,
			Balance:  snap.Balance,
			Position: snap.Position.Size,
			Mark:     b.Close,
			Equity:   MarkEquity(snap.Balance, snap.Position.Size, b.Close),
		}); err != nil {
			return Result{}, fmt.Errorf("backtest: journal equity: %w", err)
		}
	}

	res.Dropped = r.Sim.Finish()
	res.Fills = r.Sim.History()
	res.Rejections = r.Sim.Rejections()
	res.Costs = r.Sim.Costs()

	snap := ts.Snapshot()
	res.Balance = snap.Balance
	res.Position = snap.Position.Size
	res.Equity = MarkEquity(snap.Balance, snap.Position.Size, r.Sim.LastBar().Close)

	if err := j.RecordRun(res.Record(time.Now().UTC())); err != nil {
		return Result{}, fmt.Errorf("backtest: journal run: %w", err)
	}

	log.Info("backtest complete",
		zap.Int("bars", res.Bars),
		zap.Int("skipped", res.Skipped),
		zap.Int("fills", len(res.Fills)),
		zap.Int("rejections", len(res.Rejections)),
		zap.Int("dropped", len(res.Dropped)),
		zap.Stringer("balance", res.Balance))

	return res, nil
}

func fillRecord(runID string, f sim.TradeLog) journal.FillRecord {
	return journal.FillRecord{
		RunID:      runID,
		FillID:     f.ID,
		Symbol:     f.Symbol,
		Volume:     f.Volume,
		Price:      f.Price,
		Time:       f.Time,
		OrderType:  f.Type.String(),
		ReduceOnly: f.ReduceOnly,
		Commission: f.Commission,
	}
}

// MarkEquity is the balance a reduce-only liquidation of size at mark
// would leave: balance + (-size) * mark.
func MarkEquity(balance market.Cash, size market.Units, mark market.Price) market.Cash {
	return balance.Sub(size.Mul(mark))
}
