package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Observe(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveRequest("normal", "ok")
	m.ObserveRequest("normal", "ok")
	m.ObserveRequest("ura", "upstream_error")
	m.ObserveRepairs([]string{"chance_days", "lucky_color"})
	m.ObserveUpstream("openai", 1500*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Requests.WithLabelValues("normal", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("ura", "upstream_error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Repairs.WithLabelValues("chance_days")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.UpstreamLatency))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest("normal", "ok")
		m.ObserveUpstream("openai", time.Second)
		m.ObserveRepairs([]string{"advice"})
	})
}
