package market

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Shinokawa/quetos-api/internal/metrics"
)

// Resolver turns provider calls into normalized snapshots, falling back to
// the secondary source when the primary fails or returns nothing. Whichever
// source wins, its snapshot is used whole; partial results are never merged.
type Resolver struct {
	primary   EtfProvider
	secondary EtfProvider
	equity    EquityMarketProvider
	lg        *zap.Logger
}

func NewResolver(primary, secondary EtfProvider, equity EquityMarketProvider, lg *zap.Logger) *Resolver {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Resolver{primary: primary, secondary: secondary, equity: equity, lg: lg}
}

// FetchEtfSnapshot tries the primary source, then the secondary. If both
// fail or come back empty the caller must leave its existing cache alone.
func (r *Resolver) FetchEtfSnapshot(ctx context.Context) (SnapshotTable, error) {
	for _, p := range []EtfProvider{r.primary, r.secondary} {
		if p == nil {
			continue
		}
		table, err := r.fetchFrom(ctx, p)
		if err != nil {
			r.lg.Warn("etf snapshot source failed",
				zap.String("source", p.Name()),
				zap.Error(err))
			continue
		}
		metrics.RefreshSuccess.WithLabelValues(p.Name()).Inc()
		return table, nil
	}
	metrics.RefreshFailure.Inc()
	return nil, fmt.Errorf("etf snapshot: %w", ErrAllSourcesExhausted)
}

// FetchEquitySnapshot pulls the whole equity market in one call.
func (r *Resolver) FetchEquitySnapshot(ctx context.Context) (SnapshotTable, error) {
	if r.equity == nil {
		return nil, fmt.Errorf("equity snapshot: %w", ErrAllSourcesExhausted)
	}
	rows, err := r.equity.FetchAllSnapshot(ctx)
	if err != nil {
		r.lg.Warn("equity snapshot source failed",
			zap.String("source", r.equity.Name()),
			zap.Error(err))
		return nil, fmt.Errorf("equity snapshot: %w", ErrAllSourcesExhausted)
	}
	result := ProviderResult{Source: r.equity.Name(), Rows: rows}
	if len(result.Rows) == 0 {
		return nil, fmt.Errorf("equity snapshot: %w", ErrAllSourcesExhausted)
	}
	table, err := Normalize(result.Source, result.Rows)
	if err != nil {
		return nil, err
	}
	metrics.RefreshSuccess.WithLabelValues(r.equity.Name()).Inc()
	return table, nil
}

func (r *Resolver) fetchFrom(ctx context.Context, p EtfProvider) (SnapshotTable, error) {
	rows, err := p.FetchSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	result := ProviderResult{Source: p.Name(), Rows: rows}
	if len(result.Rows) == 0 {
		return nil, ErrEmptyResult
	}
	table, err := Normalize(result.Source, result.Rows)
	if err != nil {
		return nil, err
	}
	r.lg.Info("etf snapshot fetched",
		zap.String("source", result.Source),
		zap.Int("rows", len(table)))
	return table, nil
}
