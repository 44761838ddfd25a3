package market

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Shinokawa/quetos-api/internal/metrics"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Result is one symbol's outcome inside a batch. Per-symbol errors never
// fail the batch.
type Result struct {
	Status  string `json:"status"`
	Data    *Quote `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// Service is the batch coordinator: it classifies requested symbols, serves
// ETFs from the snapshot table, equities from the close cache when the
// session is closed, and covers the rest with a single bulk fetch.
type Service struct {
	resolver *Resolver
	cache    *Cache
	now      func() time.Time
	lg       *zap.Logger
	group    singleflight.Group
}

// NewService wires the coordinator. now must return exchange-local time; it
// is injectable so session behavior is testable.
func NewService(resolver *Resolver, cache *Cache, now func() time.Time, lg *zap.Logger) *Service {
	if now == nil {
		now = time.Now
	}
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Service{resolver: resolver, cache: cache, now: now, lg: lg}
}

// GetQuotes resolves each requested symbol independently. The lock is held
// only to copy the snapshot out or touch a single cache entry, never across
// the upstream call.
func (s *Service) GetQuotes(ctx context.Context, symbols []string) map[string]Result {
	results := make(map[string]Result, len(symbols))
	trading := IsTradeTime(s.now())
	snapshot := s.cache.EtfSnapshot()

	var pending []string
	for _, sym := range symbols {
		sym = strings.TrimSpace(sym)
		if sym == "" {
			continue
		}
		if Classify(sym) == ClassETF {
			if q, ok := snapshot[CodeOnly(sym)]; ok {
				metrics.EtfCacheHits.Inc()
				results[sym] = Result{Status: StatusSuccess, Data: &q}
			} else {
				metrics.EtfCacheMisses.Inc()
				results[sym] = Result{Status: StatusError, Message: fmt.Sprintf("%s: %v in ETF cache", sym, ErrNotFound)}
			}
			continue
		}
		if !trading {
			if q, ok := s.cache.LookupEquityClose(sym); ok {
				metrics.EquityCacheHits.Inc()
				s.lg.Debug("equity close cache hit", zap.String("symbol", sym))
				results[sym] = Result{Status: StatusSuccess, Data: &q}
				continue
			}
		}
		pending = append(pending, sym)
	}

	if len(pending) == 0 {
		return results
	}

	table, err := s.bulkEquitySnapshot(ctx)
	if err != nil {
		s.lg.Error("bulk equity fetch failed",
			zap.Int("pending", len(pending)),
			zap.Error(err))
		for _, sym := range pending {
			results[sym] = Result{Status: StatusError, Message: err.Error()}
		}
		return results
	}

	for _, sym := range pending {
		q, ok := table[CodeOnly(sym)]
		if !ok {
			results[sym] = Result{Status: StatusError, Message: fmt.Sprintf("%s: %v in market snapshot", sym, ErrNotFound)}
			continue
		}
		results[sym] = Result{Status: StatusSuccess, Data: &q}
		if !trading {
			s.cache.StoreEquityClose(sym, q)
		}
	}
	return results
}

// RefreshEtfSnapshot replaces the published snapshot with a fresh pull.
// On failure the existing snapshot stays readable unchanged.
func (s *Service) RefreshEtfSnapshot(ctx context.Context) error {
	table, err := s.resolver.FetchEtfSnapshot(ctx)
	if err != nil {
		return err
	}
	s.cache.ReplaceEtfSnapshot(table)
	s.lg.Info("etf snapshot replaced", zap.Int("rows", len(table)))
	return nil
}

// ClearEquityCache empties the close-price map for a new trading day.
func (s *Service) ClearEquityCache() {
	if n := s.cache.ClearEquityCache(); n > 0 {
		s.lg.Info("equity close cache cleared", zap.Int("entries", n))
	}
}

// bulkEquitySnapshot collapses concurrent whole-market pulls into one
// upstream call.
func (s *Service) bulkEquitySnapshot(ctx context.Context) (SnapshotTable, error) {
	v, err, _ := s.group.Do("equity-bulk", func() (any, error) {
		metrics.BulkFetches.Inc()
		return s.resolver.FetchEquitySnapshot(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(SnapshotTable), nil
}
