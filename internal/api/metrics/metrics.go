// Package metrics defines and registers the custom Prometheus metrics of the
// blog API. Metrics are registered with the default registry on package init
// through promauto and exposed by the /metrics route.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "blog"

// ── Auth metrics ─────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts register and login attempts.
// Labels:
//   - operation: "register" or "login"
//   - result: "ok", "invalid", "conflict", "not_found", "wrong_password" or "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of register and login attempts, by outcome.",
	},
	[]string{"operation", "result"},
)

// ── Post metrics ─────────────────────────────────────────────────────────────

// PostsWrittenTotal counts successful post mutations.
// Label:
//   - operation: "create", "update" or "delete"
var PostsWrittenTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "posts_written_total",
		Help:      "Total number of posts created, updated or deleted.",
	},
	[]string{"operation"},
)

// ── Cover metrics ────────────────────────────────────────────────────────────

// UploadsTotal counts cover uploads.
// Label:
//   - result: "accepted", "unsupported", "too_large" or "error"
var UploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cover_uploads_total",
		Help:      "Total number of cover uploads, by result.",
	},
	[]string{"result"},
)

// CoverRemovalsTotal counts orphaned cover removals performed by the janitor.
// Label:
//   - result: "removed", "failed" or "dropped" (queue full)
var CoverRemovalsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cover_removals_total",
		Help:      "Total number of orphaned cover removals, by result.",
	},
	[]string{"result"},
)

// CoverRemovalQueueDepth is the number of removals waiting for a worker.
var CoverRemovalQueueDepth = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cover_removal_queue_depth",
		Help:      "Current number of cover removals pending in the janitor queue.",
	},
)
