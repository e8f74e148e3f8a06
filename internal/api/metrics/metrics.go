// Package metrics defines and registers the Prometheus metrics of the
// marketplace client daemon. It is the single source of truth for metric
// names, labels and help strings.
//
// All metrics register with the default registry on import. HTTP request
// metrics for the view-boundary API come from echoprometheus.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "market_client"

// ── Session ───────────────────────────────────────────────────────────────────

// SessionTransitionsTotal counts session state changes.
// Label:
//   - state: unknown, checking, authenticated or anonymous
var SessionTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_transitions_total",
		Help:      "Total number of session state transitions, by new state.",
	},
	[]string{"state"},
)

// ── Cart ──────────────────────────────────────────────────────────────────────

// CartOperationsTotal counts cart mutations.
// Labels:
//   - op: add, set_quantity, remove, clear, refresh, checkout
//   - outcome: ok, sold_out, limit_reached, not_purchasable, clamped, removed,
//     missing, empty, error
var CartOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_operations_total",
		Help:      "Total number of cart operations, by operation and outcome.",
	},
	[]string{"op", "outcome"},
)

// CartItems tracks the number of units currently in the cart.
var CartItems = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cart_items",
		Help:      "Units currently held in the cart.",
	},
)

// ── Listing lifecycle ─────────────────────────────────────────────────────────

// TransitionRequestsTotal counts transition requests forwarded to the server.
// Labels:
//   - action: submit, approve, reject, resubmit, delete
//   - outcome: ok, not_allowed, conflict, error
var TransitionRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transition_requests_total",
		Help:      "Total number of listing transition requests, by action and outcome.",
	},
	[]string{"action", "outcome"},
)

// ── Remote service ────────────────────────────────────────────────────────────

// GatewayRequestDuration measures calls to the remote marketplace service.
// Labels:
//   - endpoint: gateway operation, e.g. "products.get"
//   - code: HTTP status code, or "0" when no response arrived
var GatewayRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "gateway_request_duration_seconds",
		Help:      "Duration of requests to the remote marketplace service.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"endpoint", "code"},
)

// ObserveGateway records one completed gateway request. Its signature matches
// gateway.ObserveFunc.
func ObserveGateway(endpoint string, code int, elapsed time.Duration) {
	GatewayRequestDuration.WithLabelValues(endpoint, strconv.Itoa(code)).Observe(elapsed.Seconds())
}
