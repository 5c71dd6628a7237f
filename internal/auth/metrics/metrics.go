package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for account operations.
type Metrics struct {
	AccountsRegistered   prometheus.Counter
	LoginAttempts        *prometheus.CounterVec
	LoginDurationSeconds prometheus.Histogram
	TokensIssued         prometheus.Counter
}

func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		AccountsRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "vaultguard_accounts_registered_total",
			Help: "Total number of accounts registered",
		}),
		LoginAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "vaultguard_login_attempts_total",
			Help: "Login attempts by outcome",
		}, []string{"outcome"}),
		LoginDurationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "vaultguard_login_duration_seconds",
			Help:    "Duration of login requests, including password hashing",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5},
		}),
		TokensIssued: factory.NewCounter(prometheus.CounterOpts{
			Name: "vaultguard_access_tokens_issued_total",
			Help: "Total number of access tokens issued",
		}),
	}
}

func (m *Metrics) IncrementRegistered() {
	m.AccountsRegistered.Inc()
}

// RecordLogin counts one attempt. outcome is success, invalid_credentials, locked or error.
func (m *Metrics) RecordLogin(outcome string, durationSeconds float64) {
	m.LoginAttempts.WithLabelValues(outcome).Inc()
	m.LoginDurationSeconds.Observe(durationSeconds)
}

func (m *Metrics) IncrementTokensIssued() {
	m.TokensIssued.Inc()
}
