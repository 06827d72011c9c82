package market

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bars.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func drain(t *testing.T, f *CSVBarFeed) ([]Bar, error) {
	t.Helper()
	var out []Bar
	for {
		b, ok, err := f.Next()
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, b)
	}
}

func TestParseBarRow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		row     []string
		wantErr bool
	}{
		{name: "valid", row: []string{"2024-01-02T10:00:00Z", "100", "105", "95", "102"}},
		{name: "valid nano", row: []string{"2024-01-02T10:00:00.5Z", "100", "105", "95", "102"}},
		{name: "extra volume column", row: []string{"2024-01-02T10:00:00Z", "100", "105", "95", "102", "1200"}},
		{name: "short row", row: []string{"2024-01-02T10:00:00Z", "100", "105"}, wantErr: true},
		{name: "bad time", row: []string{"yesterday", "100", "105", "95", "102"}, wantErr: true},
		{name: "bad price", row: []string{"2024-01-02T10:00:00Z", "100", "x", "95", "102"}, wantErr: true},
		{name: "inconsistent", row: []string{"2024-01-02T10:00:00Z", "100", "90", "95", "102"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := ParseBarRow(tt.row)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, b.Close.Equal(MustPrice("102")))
			assert.Equal(t, time.UTC, b.End.Location())
		})
	}
}

func TestCSVBarFeed(t *testing.T) {
	t.Parallel()

	path := writeCSV(t, `time,open,high,low,close
2024-01-02T10:00:00Z,100,105,95,102

2024-01-02T11:00:00Z,102,104,101,103
2024-01-02T12:00:00Z,103,107,102,106
`)

	t.Run("all bars", func(t *testing.T) {
		t.Parallel()
		f, err := NewCSVBarFeed(path, time.Time{}, time.Time{})
		require.NoError(t, err)
		defer f.Close()

		bars, err := drain(t, f)
		require.NoError(t, err)
		require.Len(t, bars, 3)
		assert.True(t, bars[2].High.Equal(MustPrice("107")))
	})

	t.Run("range filter", func(t *testing.T) {
		t.Parallel()
		from := time.Date(2024, 1, 2, 11, 0, 0, 0, time.UTC)
		to := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)
		f, err := NewCSVBarFeed(path, from, to)
		require.NoError(t, err)
		defer f.Close()

		bars, err := drain(t, f)
		require.NoError(t, err)
		require.Len(t, bars, 1)
		assert.True(t, bars[0].End.Equal(from))
	})
}

func TestCSVBarFeedOutOfOrder(t *testing.T) {
	t.Parallel()

	path := writeCSV(t, `2024-01-02T11:00:00Z,100,105,95,102
2024-01-02T10:00:00Z,102,104,101,103
`)
	f, err := NewCSVBarFeed(path, time.Time{}, time.Time{})
	require.NoError(t, err)
	defer f.Close()

	bars, err := drain(t, f)
	assert.Len(t, bars, 1)
	assert.True(t, errors.Is(err, ErrInvalidBar))
}

func TestCSVBarFeedMissingFile(t *testing.T) {
	t.Parallel()

	_, err := NewCSVBarFeed(filepath.Join(t.TempDir(), "nope.csv"), time.Time{}, time.Time{})
	assert.Error(t, err)
}
