package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Service-level Prometheus collectors, registered on the default registry
// and exposed on /metrics.
var (
	// TradesExecuted counts buy/sell outcomes by type and result
	TradesExecuted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_trades_total",
		Help: "Number of trade requests by type and result.",
	}, []string{"type", "result"})

	// RealizedGainRecords counts realized-gain rows written by sells
	RealizedGainRecords = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portfolio_realized_gain_records_total",
		Help: "Number of realized-gain records written.",
	})

	// QuoteRefreshes counts per-instrument refresh outcomes
	QuoteRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_quote_refreshes_total",
		Help: "Number of per-instrument quote refresh attempts by result.",
	}, []string{"result"})

	// FeedFailures counts provider fetch failures (whole chunks)
	FeedFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portfolio_feed_failures_total",
		Help: "Number of failed quote-provider fetches.",
	})

	// Recommendations counts advisor runs by resulting action
	Recommendations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_recommendations_total",
		Help: "Number of advisor recommendations by action.",
	}, []string{"action"})
)
