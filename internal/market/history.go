package market

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// HistoryService is the stateless history path: classify by the shared
// prefix rule, route to the matching kline endpoint, never cache.
type HistoryService struct {
	provider     HistoryProvider
	defaultStart string
	now          func() time.Time
	lg           *zap.Logger
}

func NewHistoryService(provider HistoryProvider, defaultStart string, now func() time.Time, lg *zap.Logger) *HistoryService {
	if defaultStart == "" {
		defaultStart = "20200101"
	}
	if now == nil {
		now = time.Now
	}
	if lg == nil {
		lg = zap.NewNop()
	}
	return &HistoryService{provider: provider, defaultStart: defaultStart, now: now, lg: lg}
}

// GetHistory returns daily bars for one symbol in upstream order. Failures
// are independent per request.
func (h *HistoryService) GetHistory(ctx context.Context, symbol, startDate, endDate string) ([]DailyBar, error) {
	if symbol == "" {
		return nil, fmt.Errorf("%w: symbol is required", ErrInvalidRequest)
	}
	if startDate == "" {
		startDate = h.defaultStart
	}
	if endDate == "" {
		endDate = h.now().Format("20060102")
	}

	class := Classify(symbol)
	h.lg.Info("history request",
		zap.String("symbol", symbol),
		zap.String("class", class.String()),
		zap.String("start", startDate),
		zap.String("end", endDate))

	bars, err := h.provider.FetchHistory(ctx, symbol, startDate, endDate, class)
	if err != nil {
		return nil, fmt.Errorf("history for %s: %w", symbol, err)
	}
	return bars, nil
}
