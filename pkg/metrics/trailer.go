package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Trailer lookup outcomes.
const (
	TrailerResultHit     = "hit"
	TrailerResultMiss    = "miss"
	TrailerResultNoMatch = "no_match"
	TrailerResultFailure = "failure"
)

// TrailerMetrics records how the trailer cache is served.
type TrailerMetrics struct {
	lookups  *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewTrailerMetrics registers the trailer cache metrics on the provided registerer.
func NewTrailerMetrics(reg prometheus.Registerer) *TrailerMetrics {
	if reg == nil {
		return &TrailerMetrics{}
	}
	lookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "trailer_lookups_total",
		Help: "Trailer requests by cache outcome.",
	}, []string{"result"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "trailer_lookup_duration_seconds",
		Help:    "Latency of external trailer searches in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(lookups, duration)
	return &TrailerMetrics{
		lookups:  lookups,
		duration: duration,
	}
}

// IncResult counts one trailer request with the given outcome.
func (m *TrailerMetrics) IncResult(result string) {
	if m == nil || m.lookups == nil {
		return
	}
	m.lookups.WithLabelValues(normalizeLabel(result)).Inc()
}

// ObserveLookup records the latency of an external search.
func (m *TrailerMetrics) ObserveLookup(d time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.Observe(d.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
