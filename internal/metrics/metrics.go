// Package metrics defines and registers all custom Prometheus metrics for the
// notes API. It is the single source of truth for metric names, labels, and
// help strings. Metrics are registered with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "notes"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// SignupsTotal counts accounts created.
var SignupsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_signups_total",
		Help:      "Total number of user accounts created.",
	},
)

// LoginAttemptsTotal counts token requests.
// Label:
//   - result: "success" or "invalid_credentials"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_login_attempts_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// LoginRateLimitedTotal counts token requests rejected by the login limiter.
var LoginRateLimitedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_login_rate_limited_total",
		Help:      "Total number of login attempts rejected by the rate limiter.",
	},
)

// TokenRejectionsTotal counts bearer tokens that failed verification or
// referenced an unknown user.
var TokenRejectionsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_token_rejections_total",
		Help:      "Total number of rejected bearer tokens.",
	},
)

// ── Password rehash metrics ───────────────────────────────────────────────────

// RehashJobsTotal counts lazy rehash jobs.
// Label:
//   - result: "rehashed", "skipped", "dropped" (queue full or shutdown) or "error"
var RehashJobsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_rehash_jobs_total",
		Help:      "Total number of password rehash jobs, labelled by result.",
	},
	[]string{"result"},
)

// RehashQueueDepth tracks the number of jobs waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var RehashQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "password_rehash_queue_depth",
		Help:      "Current number of rehash jobs pending in each worker channel.",
	},
	[]string{"worker_id"},
)

// ── Storage metrics ───────────────────────────────────────────────────────────

// UnitOfWorkTotal counts finished units of work.
// Label:
//   - outcome: "commit", "commit_failed" or "rollback"
var UnitOfWorkTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "unit_of_work_total",
		Help:      "Total number of finished units of work, labelled by outcome.",
	},
	[]string{"outcome"},
)

// ── Category metrics ──────────────────────────────────────────────────────────

// CategoriesCreatedTotal counts newly created categories.
var CategoriesCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "categories_created_total",
		Help:      "Total number of categories created.",
	},
)
