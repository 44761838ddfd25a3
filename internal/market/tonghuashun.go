package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// TonghuashunClient is the secondary ETF source. Its rows keep the native
// field names; the normalizer owns the rename to the canonical shape.
type TonghuashunClient struct {
	baseURL string
	client  *http.Client
}

type thsListResp struct {
	Data []map[string]any `json:"data"`
}

func NewTonghuashunClient(timeout time.Duration) *TonghuashunClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &TonghuashunClient{
		baseURL: "https://fund.10jqka.com.cn/data/client/fund/etf/list",
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *TonghuashunClient) Name() string { return SourceTonghuashun }

func (c *TonghuashunClient) FetchSnapshot(ctx context.Context) ([]RawRow, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Referer", "https://fund.10jqka.com.cn")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request tonghuashun: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: tonghuashun status %d", ErrProviderUnavailable, resp.StatusCode)
	}

	var payload thsListResp
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode tonghuashun: %v", ErrProviderUnavailable, err)
	}
	if len(payload.Data) == 0 {
		return nil, fmt.Errorf("tonghuashun list: %w", ErrEmptyResult)
	}

	rows := make([]RawRow, 0, len(payload.Data))
	for _, m := range payload.Data {
		rows = append(rows, RawRow{
			"fund_code":      anyField(m, "fund_code"),
			"fund_name":      anyField(m, "fund_name"),
			"unit_net_value": anyField(m, "unit_net_value"),
			"growth_rate":    anyField(m, "growth_rate"),
			"growth_value":   anyField(m, "growth_value"),
		})
	}
	return rows, nil
}
