package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	RateLimitDecisionsTotal         *prometheus.CounterVec
	RateLimitTrackedClients         prometheus.Gauge
	RateLimitAdminActionsTotal      *prometheus.CounterVec
	RateLimitAuthFailures           prometheus.Counter
	RateLimitAuthLockoutsTotal      prometheus.Counter
	RateLimitAuthLockedAccounts     prometheus.Gauge
	RateLimitCleanupEvictedTotal    *prometheus.CounterVec
	RateLimitCleanupRunsTotal       *prometheus.CounterVec
	RateLimitCleanupDurationSeconds prometheus.Histogram
}

// New registers the rate limiting metrics with the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the metrics with reg. Tests pass a fresh
// prometheus.NewRegistry() so repeated construction does not collide.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RateLimitDecisionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "vaultguard_ratelimit_decisions_total",
			Help: "Rate limit decisions by outcome",
		}, []string{"outcome"}),
		RateLimitTrackedClients: factory.NewGauge(prometheus.GaugeOpts{
			Name: "vaultguard_ratelimit_tracked_clients",
			Help: "Clients with live windows or blocks after the last cleanup run",
		}),
		RateLimitAdminActionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "vaultguard_ratelimit_admin_actions_total",
			Help: "Administrative resets, unblocks and unlocks",
		}, []string{"action"}),
		RateLimitAuthFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "vaultguard_ratelimit_auth_failures_recorded_total",
			Help: "Total number of failed logins recorded against accounts",
		}),
		RateLimitAuthLockoutsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "vaultguard_ratelimit_auth_lockouts_total",
			Help: "Total number of account lockouts triggered",
		}),
		RateLimitAuthLockedAccounts: factory.NewGauge(prometheus.GaugeOpts{
			Name: "vaultguard_ratelimit_auth_locked_accounts",
			Help: "Accounts currently locked after the last cleanup run",
		}),
		RateLimitCleanupEvictedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "vaultguard_ratelimit_cleanup_evicted_total",
			Help: "Entries evicted by the cleanup worker",
		}, []string{"kind"}),
		RateLimitCleanupRunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "vaultguard_ratelimit_cleanup_runs_total",
			Help: "Total number of cleanup runs",
		}, []string{"status"}),
		RateLimitCleanupDurationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name: "vaultguard_ratelimit_cleanup_duration_seconds",
			Help: "Duration of cleanup runs in seconds",
		}),
	}
}

func (m *Metrics) RecordDecision(outcome string) {
	m.RateLimitDecisionsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) SetTrackedClients(count int) {
	m.RateLimitTrackedClients.Set(float64(count))
}

func (m *Metrics) RecordAdminAction(action string) {
	m.RateLimitAdminActionsTotal.WithLabelValues(action).Inc()
}

func (m *Metrics) IncrementAuthFailures() {
	m.RateLimitAuthFailures.Inc()
}

func (m *Metrics) IncrementAuthLockouts() {
	m.RateLimitAuthLockoutsTotal.Inc()
}

func (m *Metrics) SetLockedAccounts(count int) {
	m.RateLimitAuthLockedAccounts.Set(float64(count))
}

func (m *Metrics) AddCleanupEvicted(kind string, count int) {
	m.RateLimitCleanupEvictedTotal.WithLabelValues(kind).Add(float64(count))
}

func (m *Metrics) IncrementCleanupRuns(status string) {
	m.RateLimitCleanupRunsTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveCleanupDuration(durationSeconds float64) {
	m.RateLimitCleanupDurationSeconds.Observe(durationSeconds)
}
