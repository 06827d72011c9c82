package backtest

import (
	"fmt"
	"io"
	"time"

	"github.com/rustyeddy/barsim/journal"
	"github.com/rustyeddy/barsim/market"
	"github.com/rustyeddy/barsim/sim"
)

// Result is the outcome of one run.
type Result struct {
	RunID    string
	Strategy string
	Symbol   string
	Dataset  string

	Start time.Time
	End   time.Time

	Bars    int
	Skipped int

	StartBalance market.Cash
	Balance      market.Cash
	Position     market.Units
	Equity       market.Cash

	Fills      []sim.TradeLog
	Rejections []sim.Rejection
	Dropped    []sim.Order
	Costs      sim.Costs
}

// NetPL is the change from the starting balance to the marked equity.
func (r Result) NetPL() market.Cash {
	return r.Equity.Sub(r.StartBalance)
}

// Record converts the result into its journal row.
func (r Result) Record(created time.Time) journal.RunRecord {
	return journal.RunRecord{
		RunID:        r.RunID,
		Created:      created,
		Strategy:     r.Strategy,
		Symbol:       r.Symbol,
		Dataset:      r.Dataset,
		Start:        r.Start,
		End:          r.End,
		Bars:         r.Bars,
		StartBalance: r.StartBalance,
		EndBalance:   r.Balance,
		EndPosition:  r.Position,
		EndEquity:    r.Equity,
		Fills:        len(r.Fills),
		Rejections:   len(r.Rejections),
		Dropped:      len(r.Dropped),
		Commission:   r.Costs.Commission,
		Slippage:     r.Costs.Slippage,
		Funding:      r.Costs.Funding,
	}
}

func PrintResult(w io.Writer, r Result) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Backtest Result")
	fmt.Fprintln(w, "==================================================")

	fmt.Fprintf(w, "Run ID:        %s\n", r.RunID)
	fmt.Fprintf(w, "Strategy:      %s\n", r.Strategy)
	fmt.Fprintf(w, "Symbol:        %s\n", r.Symbol)
	if r.Dataset != "" {
		fmt.Fprintf(w, "Dataset:       %s\n", r.Dataset)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Period")
	fmt.Fprintln(w, "--------------------------------------------------")
	if r.Bars > 0 {
		fmt.Fprintf(w, "Start:         %s\n", r.Start.Format(time.RFC3339))
		fmt.Fprintf(w, "End:           %s\n", r.End.Format(time.RFC3339))
	}
	fmt.Fprintf(w, "Bars:          %d\n", r.Bars)
	if r.Skipped > 0 {
		fmt.Fprintf(w, "Skipped:       %d\n", r.Skipped)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Orders")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Fills:         %d\n", len(r.Fills))
	fmt.Fprintf(w, "Rejected:      %d\n", len(r.Rejections))
	fmt.Fprintf(w, "Dropped:       %d\n", len(r.Dropped))

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Account")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Start Balance: %s\n", r.StartBalance.StringFixed(2))
	fmt.Fprintf(w, "End Balance:   %s\n", r.Balance.StringFixed(2))
	fmt.Fprintf(w, "Position:      %s\n", r.Position.String())
	fmt.Fprintf(w, "Equity:        %s\n", r.Equity.StringFixed(2))
	fmt.Fprintf(w, "Net P/L:       %s\n", r.NetPL().StringFixed(2))

	if !r.Costs.Total().IsZero() {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Costs")
		fmt.Fprintln(w, "--------------------------------------------------")
		fmt.Fprintf(w, "Commission:    %s\n", r.Costs.Commission.StringFixed(2))
		fmt.Fprintf(w, "Slippage:      %s\n", r.Costs.Slippage.StringFixed(2))
		fmt.Fprintf(w, "Funding:       %s\n", r.Costs.Funding.StringFixed(2))
	}

	if len(r.Rejections) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Rejections")
		fmt.Fprintln(w, "--------------------------------------------------")
		for _, rej := range r.Rejections {
			fmt.Fprintf(w, "- %s\n", rej.Error())
		}
	}

	fmt.Fprintln(w)
}
