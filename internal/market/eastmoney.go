package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// EastmoneyClient is the primary upstream: full-market spot lists for ETFs
// and equities, plus daily kline history.
type EastmoneyClient struct {
	listURL  string
	klineURL string
	client   *http.Client
}

const (
	// fs filters of the eastmoney clist API.
	eastmoneyEtfFilter    = "b:MK0021,b:MK0022,b:MK0023,b:MK0024"
	eastmoneyEquityFilter = "m:0+t:6,m:0+t:80,m:1+t:2,m:1+t:23"
)

type eastmoneyListResp struct {
	Data *eastmoneyListData `json:"data"`
}

type eastmoneyListData struct {
	Total int              `json:"total"`
	Diff  []map[string]any `json:"diff"`
}

type eastmoneyKlineResp struct {
	Data *eastmoneyKlineData `json:"data"`
}

type eastmoneyKlineData struct {
	Code   string   `json:"code"`
	Klines []string `json:"klines"`
}

func NewEastmoneyClient(timeout time.Duration) *EastmoneyClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &EastmoneyClient{
		listURL:  "https://push2.eastmoney.com/api/qt/clist/get",
		klineURL: "https://push2his.eastmoney.com/api/qt/stock/kline/get",
		client:   &http.Client{Timeout: timeout},
	}
}

func (c *EastmoneyClient) Name() string { return SourceEastmoney }

// FetchSnapshot pulls the full ETF spot list.
func (c *EastmoneyClient) FetchSnapshot(ctx context.Context) ([]RawRow, error) {
	return c.fetchList(ctx, eastmoneyEtfFilter)
}

// FetchAllSnapshot pulls the spot list for the entire equity market in one
// request.
func (c *EastmoneyClient) FetchAllSnapshot(ctx context.Context) ([]RawRow, error) {
	return c.fetchList(ctx, eastmoneyEquityFilter)
}

func (c *EastmoneyClient) fetchList(ctx context.Context, filter string) ([]RawRow, error) {
	u, err := url.Parse(c.listURL)
	if err != nil {
		return nil, fmt.Errorf("invalid list url: %w", err)
	}
	q := u.Query()
	q.Set("pn", "1")
	q.Set("pz", "10000")
	q.Set("po", "1")
	q.Set("np", "1")
	q.Set("fltt", "2")
	q.Set("invt", "2")
	q.Set("fid", "f3")
	q.Set("fs", filter)
	q.Set("fields", "f2,f3,f4,f5,f6,f12,f14,f15,f16,f17,f18")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request eastmoney: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: eastmoney status %d", ErrProviderUnavailable, resp.StatusCode)
	}

	var payload eastmoneyListResp
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode eastmoney: %v", ErrProviderUnavailable, err)
	}
	if payload.Data == nil || len(payload.Data.Diff) == 0 {
		return nil, fmt.Errorf("eastmoney list: %w", ErrEmptyResult)
	}

	rows := make([]RawRow, 0, len(payload.Data.Diff))
	for _, m := range payload.Data.Diff {
		rows = append(rows, RawRow{
			"code":       anyField(m, "f12"),
			"name":       anyField(m, "f14"),
			"last":       anyField(m, "f2"),
			"change_pct": anyField(m, "f3"),
			"change":     anyField(m, "f4"),
			"volume":     anyField(m, "f5"),
			"turnover":   anyField(m, "f6"),
			"high":       anyField(m, "f15"),
			"low":        anyField(m, "f16"),
			"open":       anyField(m, "f17"),
			"prev_close": anyField(m, "f18"),
		})
	}
	return rows, nil
}

// FetchHistory pulls daily forward-adjusted klines for one instrument.
// The same endpoint serves equities and ETFs; only the secid differs.
func (c *EastmoneyClient) FetchHistory(ctx context.Context, symbol, startDate, endDate string, class InstrumentClass) ([]DailyBar, error) {
	u, err := url.Parse(c.klineURL)
	if err != nil {
		return nil, fmt.Errorf("invalid kline url: %w", err)
	}
	q := u.Query()
	q.Set("secid", historySecID(symbol))
	q.Set("fields1", "f1,f2,f3,f4,f5,f6")
	q.Set("fields2", "f51,f52,f53,f54,f55,f56,f57,f58,f59,f60,f61")
	q.Set("klt", "101")
	q.Set("fqt", "1")
	q.Set("beg", startDate)
	q.Set("end", endDate)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request eastmoney kline: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: eastmoney kline status %d", ErrProviderUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read eastmoney kline: %v", ErrProviderUnavailable, err)
	}
	var payload eastmoneyKlineResp
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: decode eastmoney kline: %v", ErrProviderUnavailable, err)
	}
	if payload.Data == nil || len(payload.Data.Klines) == 0 {
		return nil, fmt.Errorf("eastmoney kline for %s: %w", symbol, ErrEmptyResult)
	}

	bars := make([]DailyBar, 0, len(payload.Data.Klines))
	for _, line := range payload.Data.Klines {
		bar, err := parseKline(line)
		if err != nil {
			continue
		}
		bars = append(bars, bar)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("eastmoney kline for %s: %w", symbol, ErrEmptyResult)
	}
	return bars, nil
}

// parseKline splits one kline record:
// date,open,close,high,low,volume,turnover,amplitude,change_pct,change,turnover_rate
func parseKline(line string) (DailyBar, error) {
	fields := strings.Split(line, ",")
	if len(fields) < 10 {
		return DailyBar{}, errors.New("short kline record")
	}
	return DailyBar{
		Date:      fields[0],
		Open:      parseNumeric(fields[1]),
		Close:     parseNumeric(fields[2]),
		High:      parseNumeric(fields[3]),
		Low:       parseNumeric(fields[4]),
		Volume:    parseNumeric(fields[5]),
		Turnover:  parseNumeric(fields[6]),
		ChangePct: parseNumeric(fields[8]),
		Change:    parseNumeric(fields[9]),
	}, nil
}

// historySecID maps a symbol to the eastmoney secid, inferring the exchange
// from the sh/sz prefix when present and from the code range otherwise.
func historySecID(symbol string) string {
	code := CodeOnly(symbol)
	s := strings.ToLower(strings.TrimSpace(symbol))
	switch {
	case strings.HasPrefix(s, "sh"):
		return "1." + code
	case strings.HasPrefix(s, "sz"):
		return "0." + code
	case strings.HasPrefix(code, "6"), strings.HasPrefix(code, "5"):
		return "1." + code
	default:
		return "0." + code
	}
}

// anyField renders a decoded json value as the raw-row string form.
// Suspended instruments come back as "-" which normalizes to zero later.
func anyField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	default:
		return ""
	}
}
