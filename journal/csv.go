package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"go.uber.org/multierr"
)

// CSVJournal writes fills and equity snapshots to two CSV files. Run
// summaries are not part of the CSV export.
type CSVJournal struct {
	fills  *csv.Writer
	equity *csv.Writer
	ff, ef *os.File
}

var (
	fillsHeader  = []string{"run_id", "fill_id", "symbol", "volume", "price", "time", "order_type", "reduce_only", "commission"}
	equityHeader = []string{"run_id", "time", "balance", "position", "mark", "equity"}
)

func NewCSV(fillsPath, equityPath string) (*CSVJournal, error) {
	ff, err := os.Create(fillsPath)
	if err != nil {
		return nil, err
	}
	ef, err := os.Create(equityPath)
	if err != nil {
		_ = ff.Close()
		return nil, err
	}

	j := &CSVJournal{fills: csv.NewWriter(ff), equity: csv.NewWriter(ef), ff: ff, ef: ef}
	if err := j.write(j.fills, fillsHeader); err != nil {
		_ = j.Close()
		return nil, err
	}
	if err := j.write(j.equity, equityHeader); err != nil {
		_ = j.Close()
		return nil, err
	}
	return j, nil
}

func (j *CSVJournal) write(w *csv.Writer, row []string) error {
	if err := w.Write(row); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func (j *CSVJournal) RecordFill(f FillRecord) error {
	return j.write(j.fills, []string{
		f.RunID,
		f.FillID,
		f.Symbol,
		f.Volume.String(),
		f.Price.String(),
		f.Time.Format(time.RFC3339Nano),
		f.OrderType,
		strconv.FormatBool(f.ReduceOnly),
		f.Commission.String(),
	})
}

func (j *CSVJournal) RecordEquity(e EquitySnapshot) error {
	return j.write(j.equity, []string{
		e.RunID,
		e.Time.Format(time.RFC3339Nano),
		e.Balance.String(),
		e.Position.String(),
		e.Mark.String(),
		e.Equity.String(),
	})
}

func (j *CSVJournal) RecordRun(RunRecord) error { return nil }

func (j *CSVJournal) Close() error {
	j.fills.Flush()
	j.equity.Flush()
	return multierr.Combine(
		j.fills.Error(),
		j.equity.Error(),
		j.ff.Close(),
		j.ef.Close(),
	)
}
