// journal/schema.go
package journal

// Decimal columns are TEXT so values round-trip without float loss.
const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	created DATETIME NOT NULL,
	strategy TEXT NOT NULL,
	symbol TEXT NOT NULL,
	dataset TEXT NOT NULL,
	start_time DATETIME NOT NULL,
	end_time DATETIME NOT NULL,
	bars INTEGER NOT NULL,
	start_balance TEXT NOT NULL,
	end_balance TEXT NOT NULL,
	end_position TEXT NOT NULL,
	end_equity TEXT NOT NULL,
	fills INTEGER NOT NULL,
	rejections INTEGER NOT NULL,
	dropped INTEGER NOT NULL,
	commission TEXT NOT NULL,
	slippage TEXT NOT NULL,
	funding TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS fills (
	fill_id TEXT PRIMARY KEY,
	run_id TEXT NOT NULL,
	symbol TEXT NOT NULL,
	volume TEXT NOT NULL,
	price TEXT NOT NULL,
	time DATETIME NOT NULL,
	order_type TEXT NOT NULL,
	reduce_only INTEGER NOT NULL,
	commission TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS equity (
	run_id TEXT NOT NULL,
	time DATETIME NOT NULL,
	balance TEXT NOT NULL,
	position TEXT NOT NULL,
	mark TEXT NOT NULL,
	equity TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_fills_run ON fills(run_id, time);
CREATE INDEX IF NOT EXISTS idx_equity_run ON equity(run_id, time);
`
