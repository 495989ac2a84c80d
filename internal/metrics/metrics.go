// Package metrics defines the Prometheus metrics for settlement, order events and HTTP. Metrics register
// with the default registry on package load and are served by the /metrics route.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "kirana"

// OrdersSettledTotal counts settled orders.
// Label:
//   - type: "prepaid" or "khata"
var OrdersSettledTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_settled_total",
		Help:      "Total number of orders settled, by settlement type.",
	},
	[]string{"type"},
)

// SettlementRejectionsTotal counts checkouts that ended without an order.
// Label:
//   - reason: "empty_cart", "ineligible", "validation", "wrong_role", "error"
var SettlementRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "settlement_rejections_total",
		Help:      "Total number of rejected settlements, by reason.",
	},
	[]string{"reason"},
)

// RewardPointsTotal counts loyalty points moved by settlement.
// Label:
//   - direction: "earned" or "redeemed"
var RewardPointsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reward_points_total",
		Help:      "Total reward points earned on prepaid orders or redeemed as discount.",
	},
	[]string{"direction"},
)

// KhataChargedTotal sums the subtotals charged to khata balances.
var KhataChargedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "khata_charged_total",
		Help:      "Total amount charged to customer khata balances.",
	},
)

// OrderEventsConsumedTotal counts order events taken off the queue.
// Label:
//   - status: "ok" or "error"
var OrderEventsConsumedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_events_consumed_total",
		Help:      "Total number of order events consumed, by outcome.",
	},
	[]string{"status"},
)

// HTTPRequestDuration measures request handling time.
// Labels:
//   - method: HTTP method
//   - route: matched route pattern
//   - status: response status code
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests by method, route and status.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route", "status"},
)
