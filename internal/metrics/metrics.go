package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	EtfCacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "quotes_etf_cache_hits_total",
			Help: "ETF symbols served from the snapshot table",
		})
	EtfCacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "quotes_etf_cache_misses_total",
			Help: "ETF symbols absent from the snapshot table",
		})
	EquityCacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "quotes_equity_cache_hits_total",
			Help: "Equity symbols served from the close-price cache",
		})
	BulkFetches = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "quotes_equity_bulk_fetches_total",
			Help: "Bulk full-market equity fetches issued",
		})
	RefreshSuccess = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quotes_snapshot_refresh_success_total",
			Help: "Successful snapshot refreshes by source",
		}, []string{"source"})
	RefreshFailure = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "quotes_snapshot_refresh_failure_total",
			Help: "Snapshot refreshes where every source failed",
		})
)

// Register registers all metrics with the default registry.
func Register() {
	prometheus.MustRegister(
		EtfCacheHits,
		EtfCacheMisses,
		EquityCacheHits,
		BulkFetches,
		RefreshSuccess,
		RefreshFailure,
	)
}

// Serve starts the metrics endpoint on its own port, decoupled from the
// API server.
func Serve(port int) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(fmt.Sprintf(":%d", port), mux)
}
