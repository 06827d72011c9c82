package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordFill(f FillRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO fills
		(fill_id, run_id, symbol, volume, price, time, order_type, reduce_only, commission)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.FillID, f.RunID, f.Symbol, f.Volume, f.Price,
		f.Time, f.OrderType, f.ReduceOnly, f.Commission,
	)
	return err
}

func (j *SQLite) RecordEquity(e EquitySnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO equity
		(run_id, time, balance, position, mark, equity)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.RunID, e.Time, e.Balance, e.Position, e.Mark, e.Equity,
	)
	return err
}

func (j *SQLite) RecordRun(r RunRecord) error {
	_, err := j.db.Exec(`
		INSERT OR REPLACE INTO runs
		(run_id, created, strategy, symbol, dataset, start_time, end_time, bars,
		 start_balance, end_balance, end_position, end_equity,
		 fills, rejections, dropped, commission, slippage, funding)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Created, r.Strategy, r.Symbol, r.Dataset, r.Start, r.End, r.Bars,
		r.StartBalance, r.EndBalance, r.EndPosition, r.EndEquity,
		r.Fills, r.Rejections, r.Dropped, r.Commission, r.Slippage, r.Funding,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
