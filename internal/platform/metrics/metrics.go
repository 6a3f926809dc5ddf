package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus counters and gauges for the playback core.
type Metrics struct {
	registry               *prometheus.Registry
	requestsTotal          prometheus.Counter
	clipFetchesTotal       prometheus.Counter
	clipFetchFailuresTotal prometheus.Counter
	playbacksStartedTotal  prometheus.Counter
	totalFailuresTotal     prometheus.Counter
	playing                prometheus.Gauge
	errorsTotal            prometheus.Counter
}

// New creates and registers Prometheus metrics for the playback service.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "playback_requests_total",
		Help: "Total number of HTTP requests received",
	})
	clipFetchesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "playback_clip_fetches_total",
		Help: "Total number of clip downloads attempted",
	})
	clipFetchFailuresTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "playback_clip_fetch_failures_total",
		Help: "Total number of clip downloads that failed (cancellations excluded)",
	})
	playbacksStartedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "playback_playbacks_started_total",
		Help: "Total number of chord playbacks that actually started",
	})
	totalFailuresTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "playback_total_failures_total",
		Help: "Total number of playbacks where zero clips survived fetching",
	})
	playing := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "playback_playing",
		Help: "Whether a chord is currently sounding (0 or 1)",
	})
	errorsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "playback_errors_total",
		Help: "Total number of HTTP responses with error status (4xx or 5xx)",
	})

	registry.MustRegister(
		requestsTotal,
		clipFetchesTotal,
		clipFetchFailuresTotal,
		playbacksStartedTotal,
		totalFailuresTotal,
		playing,
		errorsTotal,
	)

	return &Metrics{
		registry:               registry,
		requestsTotal:          requestsTotal,
		clipFetchesTotal:       clipFetchesTotal,
		clipFetchFailuresTotal: clipFetchFailuresTotal,
		playbacksStartedTotal:  playbacksStartedTotal,
		totalFailuresTotal:     totalFailuresTotal,
		playing:                playing,
		errorsTotal:            errorsTotal,
	}
}

// IncRequests increments the total request counter.
func (m *Metrics) IncRequests() {
	m.requestsTotal.Inc()
}

// IncClipFetches increments the clip download counter.
func (m *Metrics) IncClipFetches() {
	m.clipFetchesTotal.Inc()
}

// IncClipFetchFailures increments the failed clip download counter.
func (m *Metrics) IncClipFetchFailures() {
	m.clipFetchFailuresTotal.Inc()
}

// IncPlaybacksStarted increments the started playback counter.
func (m *Metrics) IncPlaybacksStarted() {
	m.playbacksStartedTotal.Inc()
}

// IncTotalFailures increments the zero-survivors counter.
func (m *Metrics) IncTotalFailures() {
	m.totalFailuresTotal.Inc()
}

// SetPlaying sets the currently-playing gauge.
func (m *Metrics) SetPlaying(v bool) {
	if v {
		m.playing.Set(1)
	} else {
		m.playing.Set(0)
	}
}

// IncErrors increments the HTTP error counter.
func (m *Metrics) IncErrors() {
	m.errorsTotal.Inc()
}

// Handler returns an http.Handler that serves Prometheus metrics.
// updateGauges is called before each scrape to refresh gauge values.
func (m *Metrics) Handler(updateGauges func()) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if updateGauges != nil {
			updateGauges()
		}
		promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}).ServeHTTP(w, r)
	})
}
