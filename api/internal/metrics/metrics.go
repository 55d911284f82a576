package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Requests        *prometheus.CounterVec
	UpstreamLatency *prometheus.HistogramVec
	Repairs         *prometheus.CounterVec
}

// New регистрирует коллекторы в reg. В тестах передаём prometheus.NewRegistry(),
// чтобы не ловить duplicate registration на глобальном реестре.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Requests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fortune_requests_total",
				Help: "Total number of fortune requests by tone and outcome",
			},
			[]string{"tone", "outcome"},
		),
		UpstreamLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fortune_upstream_duration_seconds",
				Help:    "Duration of completion provider calls in seconds",
				Buckets: []float64{0.5, 1, 2, 4, 8, 15, 30, 60},
			},
			[]string{"provider"},
		),
		Repairs: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fortune_normalizer_repairs_total",
				Help: "Number of result fields replaced or trimmed by the normalizer",
			},
			[]string{"field"},
		),
	}
}

func (m *Metrics) ObserveRequest(tone, outcome string) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(tone, outcome).Inc()
}

func (m *Metrics) ObserveUpstream(provider string, d time.Duration) {
	if m == nil {
		return
	}
	m.UpstreamLatency.WithLabelValues(provider).Observe(d.Seconds())
}

func (m *Metrics) ObserveRepairs(fields []string) {
	if m == nil {
		return
	}
	for _, f := range fields {
		m.Repairs.WithLabelValues(f).Inc()
	}
}
