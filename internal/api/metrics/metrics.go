// Package metrics defines the custom Prometheus metrics of the CRM console API.
// It is the single place where metric names, labels and help strings live.
//
// Metrics register with the default registry on package init; /metrics serves
// them through echoprometheus.NewHandler.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "crm_console"

// ── Analytics metrics ─────────────────────────────────────────────────────────

// AggregationPassesTotal counts finished aggregation passes.
// Label:
//   - outcome: "success", "failure", or "stale" (superseded by a newer generation)
var AggregationPassesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "aggregation_passes_total",
		Help:      "Total number of analytics aggregation passes, by outcome.",
	},
	[]string{"outcome"},
)

// AggregationPassDuration measures successful passes from customer listing to commit.
var AggregationPassDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "aggregation_pass_duration_seconds",
		Help:      "Duration of successful aggregation passes.",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
	},
)

// RefreshGeneration is the latest generation seen by the refresher.
var RefreshGeneration = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "refresh_generation",
		Help:      "Latest analytics refresh generation observed by this replica.",
	},
)

// ── CRM API metrics ───────────────────────────────────────────────────────────

// CRMRequestsTotal counts calls to the external CRM API.
// Labels:
//   - operation: the client method (e.g. "list_interactions")
//   - result: "ok" or "error"
var CRMRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "crm_api_requests_total",
		Help:      "Total number of requests made to the CRM API.",
	},
	[]string{"operation", "result"},
)

// CRMRequestDuration measures CRM API round trips.
// Label:
//   - operation: the client method
var CRMRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "crm_api_request_duration_seconds",
		Help:      "Duration of requests made to the CRM API.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionEventsTotal counts session lifecycle events.
// Label:
//   - event: "login", "login_rejected", "logout", "register",
//     "register_rejected", or "corrupt" (a stored session that could not be
//     decoded and was treated as anonymous)
var SessionEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_events_total",
		Help:      "Total number of console session events.",
	},
	[]string{"event"},
)

// AuthorizationDenialsTotal counts requests refused by the permission gate.
// Label:
//   - permission: the action that was denied
var AuthorizationDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authorization_denials_total",
		Help:      "Total number of requests denied by role-based permission checks.",
	},
	[]string{"permission"},
)
