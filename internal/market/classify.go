package market

import "strings"

// InstrumentClass is the coarse instrument taxonomy the cache cares about.
type InstrumentClass int

const (
	ClassEquity InstrumentClass = iota
	ClassETF
)

func (c InstrumentClass) String() string {
	if c == ClassETF {
		return "etf"
	}
	return "equity"
}

// etfPrefixes are the exchange code ranges used by listed funds.
var etfPrefixes = []string{"51", "56", "58", "15"}

// CodeOnly strips the sh/sz market prefix and returns the bare numeric code.
func CodeOnly(symbol string) string {
	s := strings.ToLower(strings.TrimSpace(symbol))
	s = strings.TrimPrefix(s, "sh")
	s = strings.TrimPrefix(s, "sz")
	return s
}

// Classify determines the instrument class from the numeric code prefix.
// It is pure and idempotent; both the quote and history paths share it.
func Classify(symbol string) InstrumentClass {
	code := CodeOnly(symbol)
	for _, p := range etfPrefixes {
		if strings.HasPrefix(code, p) {
			return ClassETF
		}
	}
	return ClassEquity
}
