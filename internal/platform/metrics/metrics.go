// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "propnest"

// ─── Points ledger ──────────────────────────────────────────────────────────

// PointsTransactions counts committed balance changes.
var PointsTransactions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "points",
	Name:      "transactions_total",
	Help:      "Total committed points transactions by reason and direction.",
}, []string{"reason", "direction"})

// PointsMoved sums the absolute number of points moved.
var PointsMoved = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "points",
	Name:      "moved_total",
	Help:      "Total points credited or debited, by direction.",
}, []string{"direction"})

// LedgerWriteFailures counts transactions whose ledger append or commit failed
// after the balance increment. Each one needs reconciliation review.
var LedgerWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "points",
	Name:      "ledger_write_failures_total",
	Help:      "Total ledger write failures after a balance increment.",
})

// BalanceDrifts is the number of drifted accounts found by the last reconcile run.
var BalanceDrifts = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: namespace,
	Subsystem: "points",
	Name:      "balance_drift_accounts",
	Help:      "Accounts whose stored balance differs from their ledger sum at the last reconcile.",
})

// ─── Rewards ────────────────────────────────────────────────────────────────

// Redemptions counts redemption attempts by reward type and outcome.
var Redemptions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "rewards",
	Name:      "redemptions_total",
	Help:      "Total reward redemptions by type and outcome.",
}, []string{"type", "outcome"})

// PrioritiesCleared counts listings whose expired priority flag was cleared.
var PrioritiesCleared = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "listings",
	Name:      "priorities_cleared_total",
	Help:      "Total expired priority flags cleared by the sweep.",
})

// ─── HTTP ───────────────────────────────────────────────────────────────────

// HTTPRequests counts handled requests.
var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "http",
	Name:      "requests_total",
	Help:      "Total HTTP requests by method, route and status.",
}, []string{"method", "route", "status"})

// HTTPLatency observes request latency.
var HTTPLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: namespace,
	Subsystem: "http",
	Name:      "request_duration_seconds",
	Help:      "HTTP request latency by method and route.",
	Buckets:   prometheus.DefBuckets,
}, []string{"method", "route"})
