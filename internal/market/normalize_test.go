package market

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize_PrimaryFieldsMapOneToOne(t *testing.T) {
	rows := []RawRow{{
		"code":       "510050",
		"name":       "上证50ETF",
		"last":       "2.731",
		"open":       "2.72",
		"high":       "2.75",
		"low":        "2.71",
		"prev_close": "2.70",
		"change":     "0.031",
		"change_pct": "1.15",
		"volume":     "1234567",
		"turnover":   "335000000",
	}}

	table, err := Normalize(SourceEastmoney, rows)
	require.NoError(t, err)
	require.Len(t, table, 1)

	q := table["510050"]
	require.Equal(t, "510050", q.Symbol)
	require.Equal(t, "上证50ETF", q.Name)
	require.Equal(t, 2.731, q.Last)
	require.Equal(t, 2.72, q.Open)
	require.Equal(t, 2.70, q.PrevClose)
	require.Equal(t, 1.15, q.ChangePct)
	require.Equal(t, 1234567.0, q.Volume)
}

func TestNormalize_SecondaryRenameAndZeroFill(t *testing.T) {
	rows := []RawRow{{
		"fund_code":      "510050",
		"fund_name":      "上证50ETF",
		"unit_net_value": "2.731",
		"growth_rate":    "1.15%",
		"growth_value":   "0.031",
	}}

	table, err := Normalize(SourceTonghuashun, rows)
	require.NoError(t, err)
	require.Len(t, table, 1)

	q := table["510050"]
	require.Equal(t, "510050", q.Symbol)
	require.Equal(t, "上证50ETF", q.Name)
	require.Equal(t, 2.731, q.Last)
	// percentage strings coerce to plain numerics
	require.Equal(t, 1.15, q.ChangePct)
	require.Equal(t, 0.031, q.Change)
	// fields the secondary source never carries are zero, not null
	require.Zero(t, q.Open)
	require.Zero(t, q.High)
	require.Zero(t, q.Low)
	require.Zero(t, q.PrevClose)
	require.Zero(t, q.Volume)
	require.Zero(t, q.Turnover)
}

func TestNormalize_MissingIdentityEverywhere(t *testing.T) {
	rows := []RawRow{
		{"name": "a", "last": "1.0"},
		{"name": "b", "last": "2.0"},
	}
	_, err := Normalize(SourceEastmoney, rows)
	require.ErrorIs(t, err, ErrSchema)
}

func TestNormalize_SkipsRowsWithoutCode(t *testing.T) {
	rows := []RawRow{
		{"code": "600000", "last": "10.1"},
		{"name": "orphan", "last": "2.0"},
	}
	table, err := Normalize(SourceEastmoney, rows)
	require.NoError(t, err)
	require.Len(t, table, 1)
	require.Contains(t, table, "600000")
}

func TestParseNumeric(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"1.23", 1.23},
		{"1.23%", 1.23},
		{"-0.5%", -0.5},
		{" 2.7 ", 2.7},
		{"-", 0},
		{"", 0},
		{"n/a", 0},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, parseNumeric(tc.in), "input %q", tc.in)
	}
}
