// Package metrics defines the custom Prometheus metrics of the challenge API.
// It is the single source of truth for metric names, labels and help strings.
//
// Metrics are registered with the default registry at package init through
// promauto and exposed on /metrics by the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "challenge"

// Result label values shared by the auth counters.
const (
	ResultSuccess  = "success"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: "success", "rejected" (validation) or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "rejected" (bad credentials) or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// LoginDuration measures end-to-end login latency. Password hashing dominates it.
var LoginDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "login_duration_seconds",
		Help:      "Duration of login requests including password verification.",
		Buckets:   prometheus.DefBuckets,
	},
)

// TokenRejectionsTotal counts bearer tokens refused by the auth middleware.
// Label:
//   - reason: "missing_header", "malformed_header" or "invalid_token"
var TokenRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_rejections_total",
		Help:      "Total number of requests rejected by token authentication.",
	},
	[]string{"reason"},
)

// ── Challenge / submission metrics ────────────────────────────────────────────

// ChallengesCreatedTotal counts newly created challenges.
// Label:
//   - type: WRITING, SPEAKING or LOGICAL
var ChallengesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "challenges_created_total",
		Help:      "Total number of challenges created, by type.",
	},
	[]string{"type"},
)

// SubmissionsTotal counts accepted submissions.
// Label:
//   - replayed: "true" when an Idempotency-Key returned an earlier submission
var SubmissionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "submissions_total",
		Help:      "Total number of submissions accepted, by replay flag.",
	},
	[]string{"replayed"},
)

// SubmissionsGradedTotal counts graded submissions.
var SubmissionsGradedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "submissions_graded_total",
		Help:      "Total number of submissions graded.",
	},
)
