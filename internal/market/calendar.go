package market

import "time"

// Trading windows of the exchange, seconds since midnight. Both bounds are
// inclusive: the source compared clock times with <= on both ends.
const (
	morningOpen    = 9*3600 + 25*60
	morningClose   = 11*3600 + 31*60
	afternoonOpen  = 12*3600 + 55*60
	afternoonClose = 15*3600 + 1*60
)

// IsTradeTime reports whether now falls inside a trading session.
// The caller passes time already localized to the exchange timezone.
func IsTradeTime(now time.Time) bool {
	switch now.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	sec := now.Hour()*3600 + now.Minute()*60 + now.Second()
	if sec >= morningOpen && sec <= morningClose {
		return true
	}
	return sec >= afternoonOpen && sec <= afternoonClose
}
