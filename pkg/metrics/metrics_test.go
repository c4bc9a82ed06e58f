package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestTrailerMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewTrailerMetrics(reg)
	m.IncResult(TrailerResultHit)
	m.IncResult(TrailerResultHit)
	m.IncResult(TrailerResultFailure)
	m.ObserveLookup(120 * time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "trailer_lookups_total", "result", TrailerResultHit); err != nil {
		t.Fatalf("fetch hits: %v", err)
	} else if got != 2 {
		t.Fatalf("expected hits=2, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "trailer_lookups_total", "result", TrailerResultFailure); err != nil {
		t.Fatalf("fetch failures: %v", err)
	} else if got != 1 {
		t.Fatalf("expected failures=1, got %f", got)
	}

	mf := findMetricFamily(mfs, "trailer_lookup_duration_seconds")
	if mf == nil || len(mf.GetMetric()) != 1 {
		t.Fatalf("expected a single duration histogram")
	}
	if sum := mf.GetMetric()[0].GetHistogram().GetSampleSum(); sum <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", sum)
	}
}

func TestHTTPMetricsLabelsByRoute(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)
	m.Observe("GET", "/api/v1/movies/{id}", 200, 10*time.Millisecond)
	m.Observe("GET", "", 404, time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchCounterValue(mfs, "http_requests_total", "route", "/api/v1/movies/{id}"); err != nil || got != 1 {
		t.Fatalf("expected one movie detail request, got %f (%v)", got, err)
	}
	if got, err := fetchCounterValue(mfs, "http_requests_total", "route", "unknown"); err != nil || got != 1 {
		t.Fatalf("expected unmatched route under unknown, got %f (%v)", got, err)
	}
	if got, err := fetchHistogramSum(mfs, "http_request_duration_seconds", "route", "/api/v1/movies/{id}"); err != nil || got <= 0 {
		t.Fatalf("expected latency observed, got %f (%v)", got, err)
	}
}

func TestNilMetricsAreNoops(t *testing.T) {
	var trailer *TrailerMetrics
	trailer.IncResult(TrailerResultMiss)
	trailer.ObserveLookup(time.Second)

	var httpMetrics *HTTPMetrics
	httpMetrics.Observe("GET", "/", 200, time.Second)

	NewTrailerMetrics(nil).IncResult(TrailerResultHit)
	NewHTTPMetrics(nil).Observe("GET", "/", 200, time.Second)
}
