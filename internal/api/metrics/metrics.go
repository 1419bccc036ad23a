// Package metrics defines and registers all custom Prometheus metrics for
// the allocation system. It is the single source of truth for metric names,
// labels, and help strings. Metrics register themselves with the default
// registry via promauto at package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "feas"

// ── Authentication metrics ────────────────────────────────────────────────────

// LoginsTotal counts login attempts by outcome.
// Labels:
//   - result: "success", "invalid_credentials", "directory_unavailable",
//     "directory_timeout", "superadmin"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by outcome.",
	},
	[]string{"result"},
)

// LoginDuration measures end-to-end login latency, dominated by the
// directory bind.
var LoginDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "login_duration_seconds",
		Help:      "Duration of login requests including the directory bind.",
		Buckets:   prometheus.DefBuckets,
	},
)

// RoleResolutionsTotal counts role resolutions by resolved role and the
// signal that decided it. A rising "default" share indicates unmapped
// directory attributes.
// Labels:
//   - role: ADMIN, PDL, TEAM_LEAD, COE_LEADER, EMPLOYEE
//   - signal: "admin_group", "group_keyword", "title_keyword", "default"
var RoleResolutionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "role_resolutions_total",
		Help:      "Total number of role resolutions, by role and deciding signal.",
	},
	[]string{"role", "signal"},
)

// AuthDeniedTotal counts requests rejected by the authorization gate.
// Label:
//   - reason: "not_authenticated" or "forbidden"
var AuthDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_denied_total",
		Help:      "Total number of requests denied by the authorization gate.",
	},
	[]string{"reason"},
)

// ── Directory metrics ─────────────────────────────────────────────────────────

// DirectorySyncEntriesTotal counts snapshot entries written by sync runs.
// Label:
//   - result: "upserted" or "failed"
var DirectorySyncEntriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "directory_sync_entries_total",
		Help:      "Total number of directory snapshot entries processed by sync runs.",
	},
	[]string{"result"},
)

// DirectorySyncDuration measures the duration of a full directory sync.
var DirectorySyncDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "directory_sync_duration_seconds",
		Help:      "Duration of a full directory snapshot sync.",
		Buckets:   []float64{1, 5, 15, 30, 60, 120, 300},
	},
)
