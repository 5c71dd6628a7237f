package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for vault operations.
type Metrics struct {
	Operations            *prometheus.CounterVec
	CipherDurationSeconds *prometheus.HistogramVec
	DecryptionFailures    prometheus.Counter
	PasswordsGenerated    *prometheus.CounterVec
}

func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "vaultguard_vault_operations_total",
			Help: "Vault entry operations by operation and outcome",
		}, []string{"operation", "outcome"}),
		CipherDurationSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vaultguard_vault_cipher_duration_seconds",
			Help:    "Time spent in envelope encrypt/decrypt including KDF pool wait",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"direction"}),
		DecryptionFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "vaultguard_vault_decryption_failures_total",
			Help: "Stored blobs that failed authenticated decryption",
		}),
		PasswordsGenerated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "vaultguard_passwords_generated_total",
			Help: "Generated passwords by preset",
		}, []string{"preset"}),
	}
}

// RecordOperation counts one entry operation. outcome is success or error.
func (m *Metrics) RecordOperation(operation, outcome string) {
	m.Operations.WithLabelValues(operation, outcome).Inc()
}

// ObserveCipher records a cipher call. direction is encrypt or decrypt.
func (m *Metrics) ObserveCipher(direction string, durationSeconds float64) {
	m.CipherDurationSeconds.WithLabelValues(direction).Observe(durationSeconds)
}

func (m *Metrics) IncrementDecryptionFailures() {
	m.DecryptionFailures.Inc()
}

func (m *Metrics) IncrementGenerated(preset string) {
	m.PasswordsGenerated.WithLabelValues(preset).Inc()
}
