package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics contains the Prometheus metrics for the transcription relay.
type Metrics struct {
	registry *prometheus.Registry

	Requests         *prometheus.CounterVec
	UpstreamDuration prometheus.Histogram
	AudioBytes       prometheus.Histogram
}

// New creates the metrics on a private registry so tests can build many.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "relay_requests_total",
			Help: "Transcription requests by terminal outcome",
		}, []string{"outcome"}),
		UpstreamDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "relay_upstream_duration_seconds",
			Help:    "Time spent waiting on the transcription provider",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 80, 160},
		}),
		AudioBytes: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "relay_audio_bytes",
			Help:    "Size of accepted audio uploads",
			Buckets: prometheus.ExponentialBuckets(16*1024, 4, 7),
		}),
	}
}

// RecordOutcome counts one terminal state.
func (m *Metrics) RecordOutcome(outcome string) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveUpstream(seconds float64) {
	if m == nil {
		return
	}
	m.UpstreamDuration.Observe(seconds)
}

func (m *Metrics) ObserveAudio(size int) {
	if m == nil {
		return
	}
	m.AudioBytes.Observe(float64(size))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
