// Package metrics defines and registers all custom Prometheus metrics for the
// dashboard. It is the single source of truth for metric names, labels, and
// help strings. Metrics register against the default registry at package
// init via promauto; the /metrics endpoint is mounted by the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dashboard"

// SessionChecksTotal counts session resolution outcomes.
// Label:
//   - result: "valid", "invalid" (provider rejected or errored), or
//     "missing" (no cookie on the request)
var SessionChecksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_checks_total",
		Help:      "Total number of session validation attempts, by result.",
	},
	[]string{"result"},
)

// RoleDecisionsTotal counts role-gate decisions.
// Label:
//   - outcome: "granted", "unauthenticated", "pending", or "forbidden"
var RoleDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "role_decisions_total",
		Help:      "Total number of role gate evaluations, by outcome.",
	},
	[]string{"outcome"},
)

// PagesRenderedTotal counts successful page renders served to readers.
var PagesRenderedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pages_rendered_total",
		Help:      "Total number of markdown pages rendered and served.",
	},
)

// ProviderRequestDuration measures identity provider call latency.
// Labels:
//   - endpoint: "whoami", "list_identities", or "get_identity"
//   - status: "ok" or "error"
var ProviderRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "provider_request_duration_seconds",
		Help:      "Duration of HTTP calls to the identity provider.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"endpoint", "status"},
)

// IdentityCacheTotal counts identity directory cache decisions.
// Label:
//   - result: "hit" or "miss"
var IdentityCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "identity_cache_total",
		Help:      "Total number of identity directory cache lookups, by result.",
	},
	[]string{"result"},
)
