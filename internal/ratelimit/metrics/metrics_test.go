package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	m := NewWithRegisterer(prometheus.NewRegistry())

	m.RecordDecision("throttled")
	m.RecordDecision("throttled")
	m.IncrementAuthLockouts()
	m.SetLockedAccounts(3)
	m.AddCleanupEvicted("windows", 4)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RateLimitDecisionsTotal.WithLabelValues("throttled")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RateLimitAuthLockoutsTotal))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.RateLimitAuthLockedAccounts))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.RateLimitCleanupEvictedTotal.WithLabelValues("windows")))
}
