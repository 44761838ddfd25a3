package market

import "context"

// Quote is the canonical record every provider row is normalized into.
// Numeric fields default to zero when a source omits them, so downstream
// arithmetic never deals with nulls.
type Quote struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	Last      float64 `json:"last"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	PrevClose float64 `json:"prev_close"`
	Change    float64 `json:"change"`
	ChangePct float64 `json:"change_pct"`
	Volume    float64 `json:"volume"`
	Turnover  float64 `json:"turnover"`
	BidPrice  float64 `json:"bid_price"`
	BidSize   float64 `json:"bid_size"`
	AskPrice  float64 `json:"ask_price"`
	AskSize   float64 `json:"ask_size"`
}

// SnapshotTable is one full-market pull keyed by bare numeric code.
// A published table is never mutated; a refresh replaces it wholesale.
type SnapshotTable map[string]Quote

// RawRow is a single untyped provider row, field names as the provider
// sent them.
type RawRow map[string]string

// ProviderResult carries one provider call's rows to the normalizer.
type ProviderResult struct {
	Source string
	Rows   []RawRow
}

// DailyBar is one day of kline history.
type DailyBar struct {
	Date      string  `json:"date"`
	Open      float64 `json:"open"`
	Close     float64 `json:"close"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Volume    float64 `json:"volume"`
	Turnover  float64 `json:"turnover"`
	Change    float64 `json:"change"`
	ChangePct float64 `json:"change_pct"`
}

// EtfProvider fetches a full ETF market snapshot from one upstream source.
type EtfProvider interface {
	Name() string
	FetchSnapshot(ctx context.Context) ([]RawRow, error)
}

// EquityMarketProvider fetches a snapshot covering the whole equity market
// in one call.
type EquityMarketProvider interface {
	Name() string
	FetchAllSnapshot(ctx context.Context) ([]RawRow, error)
}

// HistoryProvider fetches daily kline history for one instrument.
type HistoryProvider interface {
	FetchHistory(ctx context.Context, symbol, startDate, endDate string, class InstrumentClass) ([]DailyBar, error)
}
