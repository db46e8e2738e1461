package observability

import (
	"strconv"
	"time"
)

// RequestTracker follows a single in-flight request from dispatch to
// completion. One tracker is created per request and is owned exclusively by
// that request's handling context, so the struct itself needs no locking.
//
// Done must be called exactly once. The tracker does not guard against a
// second call; double completion double-counts the request. The HTTP layer
// guarantees single completion by deferring Done around handler dispatch.
type RequestTracker struct {
	metrics  *Metrics
	method   string
	endpoint string
	start    time.Time
}

// StartRequest captures the start of a request. The returned tracker uses
// time.Now's monotonic reading, so elapsed time is immune to wall-clock
// adjustments. A nil Metrics receiver yields a nil tracker, on which Done is
// a no-op.
func (m *Metrics) StartRequest(method, endpoint string) *RequestTracker {
	if m == nil {
		return nil
	}
	return &RequestTracker{
		metrics:  m,
		method:   method,
		endpoint: endpoint,
		start:    time.Now(),
	}
}

// Done reports the request's final status and elapsed duration into the
// registry.
func (t *RequestTracker) Done(status int) {
	if t == nil {
		return
	}
	elapsed := time.Since(t.start).Seconds()
	t.metrics.IncrementRequests(t.method, t.endpoint, strconv.Itoa(status))
	t.metrics.ObserveDuration(t.method, t.endpoint, elapsed)
}
