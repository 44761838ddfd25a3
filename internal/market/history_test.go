package market

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeHistoryProvider struct {
	symbol, start, end string
	class              InstrumentClass
	bars               []DailyBar
	err                error
}

func (f *fakeHistoryProvider) FetchHistory(_ context.Context, symbol, startDate, endDate string, class InstrumentClass) ([]DailyBar, error) {
	f.symbol, f.start, f.end, f.class = symbol, startDate, endDate, class
	return f.bars, f.err
}

func TestGetHistory_DefaultsAndRouting(t *testing.T) {
	fp := &fakeHistoryProvider{bars: []DailyBar{{Date: "2025-06-12", Close: 10.2}}}
	now := time.Date(2025, 6, 13, 18, 0, 0, 0, time.UTC)
	h := NewHistoryService(fp, "20200101", func() time.Time { return now }, nil)

	bars, err := h.GetHistory(context.Background(), "sh510050", "", "")
	require.NoError(t, err)
	require.Len(t, bars, 1)
	require.Equal(t, "sh510050", fp.symbol)
	require.Equal(t, "20200101", fp.start)
	require.Equal(t, "20250613", fp.end)
	require.Equal(t, ClassETF, fp.class)

	_, err = h.GetHistory(context.Background(), "600000", "20240101", "20240201")
	require.NoError(t, err)
	require.Equal(t, ClassEquity, fp.class)
	require.Equal(t, "20240101", fp.start)
	require.Equal(t, "20240201", fp.end)
}

func TestGetHistory_MissingSymbol(t *testing.T) {
	h := NewHistoryService(&fakeHistoryProvider{}, "", nil, nil)
	_, err := h.GetHistory(context.Background(), "", "", "")
	require.ErrorIs(t, err, ErrInvalidRequest)
}

func TestGetHistory_ProviderErrorPropagates(t *testing.T) {
	fp := &fakeHistoryProvider{err: ErrEmptyResult}
	h := NewHistoryService(fp, "", nil, nil)
	_, err := h.GetHistory(context.Background(), "600000", "", "")
	require.ErrorIs(t, err, ErrEmptyResult)
}

func TestHistorySecID(t *testing.T) {
	cases := map[string]string{
		"sh600000": "1.600000",
		"sz000001": "0.000001",
		"600519":   "1.600519",
		"510050":   "1.510050",
		"159915":   "0.159915",
		"000001":   "0.000001",
	}
	for symbol, want := range cases {
		require.Equal(t, want, historySecID(symbol), "symbol %s", symbol)
	}
}
