package market

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	SourceEastmoney   = "eastmoney"
	SourceTonghuashun = "tonghuashun"
)

// thsRename maps the tonghuashun fund-list field names onto the canonical
// row shape used by the primary source.
var thsRename = map[string]string{
	"fund_code":      "code",
	"fund_name":      "name",
	"unit_net_value": "last",
	"growth_rate":    "change_pct",
	"growth_value":   "change",
}

// Normalize maps one provider's raw rows into a SnapshotTable with the
// canonical field set. Fields a source does not carry come out as zero, so
// every Quote has the same shape regardless of origin. Rows without a code
// are skipped; if no row carries one at all, the result is ErrSchema.
func Normalize(source string, rows []RawRow) (SnapshotTable, error) {
	table := make(SnapshotTable, len(rows))
	for _, row := range rows {
		if source == SourceTonghuashun {
			row = renameRow(row, thsRename)
		}
		code := strings.TrimSpace(row["code"])
		if code == "" {
			continue
		}
		table[code] = Quote{
			Symbol:    code,
			Name:      row["name"],
			Last:      parseNumeric(row["last"]),
			Open:      parseNumeric(row["open"]),
			High:      parseNumeric(row["high"]),
			Low:       parseNumeric(row["low"]),
			PrevClose: parseNumeric(row["prev_close"]),
			Change:    parseNumeric(row["change"]),
			ChangePct: parseNumeric(row["change_pct"]),
			Volume:    parseNumeric(row["volume"]),
			Turnover:  parseNumeric(row["turnover"]),
			BidPrice:  parseNumeric(row["bid_price"]),
			BidSize:   parseNumeric(row["bid_size"]),
			AskPrice:  parseNumeric(row["ask_price"]),
			AskSize:   parseNumeric(row["ask_size"]),
		}
	}
	if len(rows) > 0 && len(table) == 0 {
		return nil, fmt.Errorf("normalize %s rows: %w", source, ErrSchema)
	}
	return table, nil
}

func renameRow(row RawRow, mapping map[string]string) RawRow {
	out := make(RawRow, len(row))
	for k, v := range row {
		if canonical, ok := mapping[k]; ok {
			out[canonical] = v
		}
	}
	return out
}

// parseNumeric coerces a provider's numeric field to float64. Percentage
// strings like "1.23%" lose their suffix; blanks and placeholders parse
// to zero.
func parseNumeric(s string) float64 {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if s == "" || s == "-" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
