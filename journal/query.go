package journal

import (
	"database/sql"
	"fmt"
	"time"
)

const fillColumns = `fill_id, run_id, symbol, volume, price, time, order_type, reduce_only, commission`

// GetRun returns the summary row for runID.
func (j *SQLite) GetRun(runID string) (RunRecord, error) {
	var r RunRecord

	row := j.db.QueryRow(`
		SELECT run_id, created, strategy, symbol, dataset, start_time, end_time, bars,
		       start_balance, end_balance, end_position, end_equity,
		       fills, rejections, dropped, commission, slippage, funding
		FROM runs
		WHERE run_id = ?`, runID)

	err := row.Scan(
		&r.RunID, &r.Created, &r.Strategy, &r.Symbol, &r.Dataset, &r.Start, &r.End, &r.Bars,
		&r.StartBalance, &r.EndBalance, &r.EndPosition, &r.EndEquity,
		&r.Fills, &r.Rejections, &r.Dropped, &r.Commission, &r.Slippage, &r.Funding,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return RunRecord{}, fmt.Errorf("run %q not found", runID)
		}
		return RunRecord{}, err
	}
	return r, nil
}

// ListFillsByRun returns the fills of runID in execution order.
func (j *SQLite) ListFillsByRun(runID string) ([]FillRecord, error) {
	rows, err := j.db.Query(`
		SELECT `+fillColumns+`
		FROM fills
		WHERE run_id = ?
		ORDER BY rowid ASC`, runID)
	if err != nil {
		return nil, err
	}
	return scanFills(rows)
}

// ListFillsBetween returns fills whose time is within [start, end).
func (j *SQLite) ListFillsBetween(start, end time.Time) ([]FillRecord, error) {
	rows, err := j.db.Query(`
		SELECT `+fillColumns+`
		FROM fills
		WHERE time >= ? AND time < ?
		ORDER BY time ASC, rowid ASC`, start, end)
	if err != nil {
		return nil, err
	}
	return scanFills(rows)
}

func scanFills(rows *sql.Rows) ([]FillRecord, error) {
	defer rows.Close()

	var out []FillRecord
	for rows.Next() {
		var f FillRecord
		if err := rows.Scan(
			&f.FillID,
			&f.RunID,
			&f.Symbol,
			&f.Volume,
			&f.Price,
			&f.Time,
			&f.OrderType,
			&f.ReduceOnly,
			&f.Commission,
		); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListEquityByRun returns the per-bar snapshots of runID in time order.
func (j *SQLite) ListEquityByRun(runID string) ([]EquitySnapshot, error) {
	rows, err := j.db.Query(`
		SELECT run_id, time, balance, position, mark, equity
		FROM equity
		WHERE run_id = ?
		ORDER BY time ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EquitySnapshot
	for rows.Next() {
		var e EquitySnapshot
		if err := rows.Scan(&e.RunID, &e.Time, &e.Balance, &e.Position, &e.Mark, &e.Equity); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
