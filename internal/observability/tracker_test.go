package observability

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestTracker_DoneRecordsOneSample(t *testing.T) {
	m := NewMetrics(testMetricsConfig())

	tracker := m.StartRequest("GET", "/hello")
	tracker.Done(200)

	count := testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/hello", "200"))
	if count != 1 {
		t.Fatalf("expected counter 1, got %f", count)
	}
	if got := histogramSampleCount(t, m, "GET", "/hello"); got != 1 {
		t.Fatalf("expected 1 histogram observation, got %d", got)
	}
}

func TestTracker_StatusBecomesLabel(t *testing.T) {
	m := NewMetrics(testMetricsConfig())

	m.StartRequest("GET", "/missing").Done(404)
	m.StartRequest("POST", "/work").Done(500)

	if count := testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/missing", "404")); count != 1 {
		t.Fatalf("expected 404 series count 1, got %f", count)
	}
	if count := testutil.ToFloat64(m.requestsTotal.WithLabelValues("POST", "/work", "500")); count != 1 {
		t.Fatalf("expected 500 series count 1, got %f", count)
	}
}

// Completion is caller-enforced: a second Done call double-counts rather
// than being swallowed.
func TestTracker_DoubleDoneDoubleCounts(t *testing.T) {
	m := NewMetrics(testMetricsConfig())

	tracker := m.StartRequest("GET", "/hello")
	tracker.Done(200)
	tracker.Done(200)

	count := testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/hello", "200"))
	if count != 2 {
		t.Fatalf("expected counter 2 after double completion, got %f", count)
	}
	if got := histogramSampleCount(t, m, "GET", "/hello"); got != 2 {
		t.Fatalf("expected 2 histogram observations, got %d", got)
	}
}

func TestTracker_ConcurrentRequests(t *testing.T) {
	m := NewMetrics(testMetricsConfig())

	const n = 100
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			m.StartRequest("GET", "/hello").Done(200)
		}()
	}
	wg.Wait()

	count := testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/hello", "200"))
	if count != n {
		t.Fatalf("expected counter %d, got %f", n, count)
	}
	if got := histogramSampleCount(t, m, "GET", "/hello"); got != n {
		t.Fatalf("expected %d histogram observations, got %d", n, got)
	}
}

func TestTracker_NilTrackerDoneIsNoop(t *testing.T) {
	var tracker *RequestTracker
	tracker.Done(200)
}

// histogramSampleCount reads the observation count for one latency series.
func histogramSampleCount(t *testing.T, m *Metrics, method, endpoint string) uint64 {
	t.Helper()

	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, family := range families {
		if family.GetName() != "http_request_duration_seconds" {
			continue
		}
		for _, metric := range family.GetMetric() {
			labels := map[string]string{}
			for _, pair := range metric.GetLabel() {
				labels[pair.GetName()] = pair.GetValue()
			}
			if labels["method"] == method && labels["endpoint"] == endpoint {
				return metric.GetHistogram().GetSampleCount()
			}
		}
	}
	return 0
}
