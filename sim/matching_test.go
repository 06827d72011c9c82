package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFillPrice(t *testing.T) {
	b := mkBar(0, "100", "105", "95", "102")

	tests := []struct {
		name      string
		order     Order
		slip      Slippage
		wantPrice string
		wantOK    bool
	}{
		{name: "market buy fills at close", order: MarketOrder(d("1")), wantPrice: "102", wantOK: true},
		{name: "market sell fills at close", order: MarketOrder(d("-1")), wantPrice: "102", wantOK: true},
		{name: "market buy with slippage", order: MarketOrder(d("1")), slip: SlippagePercent(0.5), wantPrice: "102.51", wantOK: true},
		{name: "market sell with slippage", order: MarketOrder(d("-1")), slip: SlippagePercent(0.5), wantPrice: "101.49", wantOK: true},
		{name: "limit buy touching low", order: LimitOrder(d("1"), d("95")), wantPrice: "95", wantOK: true},
		{name: "limit buy above low", order: LimitOrder(d("1"), d("101")), wantPrice: "101", wantOK: true},
		{name: "limit buy below low", order: LimitOrder(d("1"), d("94.99")), wantOK: false},
		{name: "limit sell touching high", order: LimitOrder(d("-1"), d("105")), wantPrice: "105", wantOK: true},
		{name: "limit sell above high", order: LimitOrder(d("-1"), d("105.01")), wantOK: false},
		{name: "limit ignores slippage", order: LimitOrder(d("1"), d("96")), slip: SlippagePercent(3), wantPrice: "96", wantOK: true},
		{name: "unknown type", order: Order{Volume: d("1"), Type: OrderType(7)}, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, ok := fillPrice(tt.order, b, tt.slip)
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assertDec(t, tt.wantPrice, price)
			}
		})
	}
}

func TestReduceTarget(t *testing.T) {
	tests := []struct {
		name    string
		size    string
		volume  string
		want    string
		wantErr bool
	}{
		{name: "partial long", size: "5", volume: "-2", want: "3"},
		{name: "exact long", size: "5", volume: "-5", want: "0"},
		{name: "oversized long", size: "5", volume: "-9", want: "0"},
		{name: "partial short", size: "-5", volume: "2", want: "-3"},
		{name: "oversized short", size: "-5", volume: "8", want: "0"},
		{name: "buy while flat", size: "0", volume: "1", wantErr: true},
		{name: "sell while flat", size: "0", volume: "-1", wantErr: true},
		{name: "buy while long", size: "2", volume: "1", wantErr: true},
		{name: "sell while short", size: "-2", volume: "-1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reduceTarget(d(tt.size), d(tt.volume))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrWrongSide)
				assertDec(t, tt.size, got)
				return
			}
			require.NoError(t, err)
			assertDec(t, tt.want, got)
		})
	}
}
