package metrics

import (
	"context"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"userlookup/internal/model"
)

// LookupMetrics counts lookups by outcome and upstream status and observes
// their latency.
type LookupMetrics struct {
	total    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewLookupMetrics registers the lookup collectors on reg.
func NewLookupMetrics(reg prometheus.Registerer) (*LookupMetrics, error) {
	m := &LookupMetrics{
		total: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "user_lookups_total",
				Help: "Total number of user lookups by outcome.",
			},
			[]string{"outcome", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "user_lookup_duration_seconds",
				Help:    "Time spent waiting for the users endpoint.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
	}

	for _, c := range []prometheus.Collector{m.total, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Record implements the lookup service's Recorder.
func (m *LookupMetrics) Record(_ context.Context, l model.Lookup) error {
	m.total.WithLabelValues(string(l.Outcome), strconv.Itoa(l.Status)).Inc()
	if l.Outcome != model.OutcomeRejected {
		m.duration.WithLabelValues(string(l.Outcome)).Observe(float64(l.DurationMs) / 1000)
	}
	return nil
}
