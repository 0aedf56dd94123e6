package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandlerExposesRelayMetrics(t *testing.T) {
	m := New()
	m.RecordOutcome("success")
	m.RecordOutcome("success")
	m.RecordOutcome("unauthenticated")
	m.ObserveUpstream(0.4)
	m.ObserveAudio(10 * 1024)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	out := string(body)

	for _, want := range []string{
		`relay_requests_total{outcome="success"} 2`,
		`relay_requests_total{outcome="unauthenticated"} 1`,
		"relay_upstream_duration_seconds_count 1",
		"relay_audio_bytes_count 1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	m.RecordOutcome("success")
	m.ObserveUpstream(1)
	m.ObserveAudio(1)
}
