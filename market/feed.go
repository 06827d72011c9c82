package market

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// CSVBarFeed reads bar CSV rows:
//
//	time,open,high,low,close[,volume...]
//
// where time is the bar end in RFC3339 or RFC3339Nano.
//
// It optionally filters bars to [From, To) if provided.
// A header row ("time,...") is allowed and empty rows are skipped.
// Malformed, inconsistent or out-of-order rows are reported as errors
// so the simulator never sees a corrupt bar.
type CSVBarFeed struct {
	f    *os.File
	r    *csv.Reader
	from time.Time
	to   time.Time

	sawFirst bool
	last     time.Time
	line     int
}

func NewCSVBarFeed(path string, from, to time.Time) (*CSVBarFeed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	return &CSVBarFeed{f: f, r: r, from: from, to: to}, nil
}

func (f *CSVBarFeed) Close() error {
	if f.f != nil {
		return f.f.Close()
	}
	return nil
}

func (f *CSVBarFeed) Next() (Bar, bool, error) {
	for {
		row, err := f.r.Read()
		if err == io.EOF {
			return Bar{}, false, nil
		}
		if err != nil {
			return Bar{}, false, err
		}
		f.line++
		if len(row) == 0 || (len(row) == 1 && strings.TrimSpace(row[0]) == "") {
			continue
		}

		// Allow a single header row
		if !f.sawFirst {
			f.sawFirst = true
			if strings.EqualFold(strings.TrimSpace(row[0]), "time") {
				continue
			}
		}

		b, err := ParseBarRow(row)
		if err != nil {
			return Bar{}, false, fmt.Errorf("line %d: %w", f.line, err)
		}
		if !inRange(b.End, f.from, f.to) {
			continue
		}
		if !f.last.IsZero() && !b.End.After(f.last) {
			return Bar{}, false, fmt.Errorf("line %d: %w: %s is not after %s",
				f.line, ErrInvalidBar, b.End.Format(time.RFC3339), f.last.Format(time.RFC3339))
		}
		f.last = b.End
		return b, true, nil
	}
}

// ParseBarRow parses one time,open,high,low,close row and validates it.
func ParseBarRow(row []string) (Bar, error) {
	if len(row) < 5 {
		return Bar{}, fmt.Errorf("bad row (need time,open,high,low,close): %v", row)
	}

	ts := strings.TrimSpace(row[0])
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		t2, err2 := time.Parse(time.RFC3339Nano, ts)
		if err2 != nil {
			return Bar{}, fmt.Errorf("bad time %q: %w", ts, err)
		}
		t = t2
	}

	var px [4]Price
	for i := range px {
		p, err := ParsePrice(strings.TrimSpace(row[i+1]))
		if err != nil {
			return Bar{}, err
		}
		px[i] = p
	}

	b := Bar{Open: px[0], High: px[1], Low: px[2], Close: px[3], End: t.UTC()}
	if err := b.Validate(); err != nil {
		return Bar{}, err
	}
	return b, nil
}

func inRange(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && !t.Before(to) {
		return false
	}
	return true
}
