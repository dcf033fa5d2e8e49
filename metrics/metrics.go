package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "junegloom"

// Metrics holds the Prometheus counters, histograms and gauges of the service.
type Metrics struct {
	Builds        *prometheus.CounterVec // labels: outcome={built,restored,failed}
	BuildDuration prometheus.Histogram
	RealDays      prometheus.Gauge
	Cities        prometheus.Gauge

	GoesFetches *prometheus.CounterVec // labels: outcome={success,error,empty}
	WordsAdded  prometheus.Counter

	HttpRequests     *prometheus.CounterVec   // labels: route, code
	HttpDuration     *prometheus.HistogramVec // labels: route
	WebsocketClients prometheus.Gauge
}

// New creates all metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Builds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_builds_total",
			Help:      "Dataset builds by outcome.",
		}, []string{"outcome"}),
		BuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dataset_build_duration_seconds",
			Help:      "Duration of load, build and save of one dataset.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		RealDays: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_real_days",
			Help:      "Days of the current dataset taken from real observations.",
		}),
		Cities: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_cities",
			Help:      "Distinct cities in the current dataset.",
		}),
		GoesFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "goes_fetches_total",
			Help:      "GOES loop directory lookups by outcome.",
		}, []string{"outcome"}),
		WordsAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "words_added_total",
			Help:      "Words submitted to the word cloud.",
		}),
		HttpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		HttpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		WebsocketClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "websocket_clients",
			Help:      "Connected websocket clients.",
		}),
	}

	reg.MustRegister(
		m.Builds,
		m.BuildDuration,
		m.RealDays,
		m.Cities,
		m.GoesFetches,
		m.WordsAdded,
		m.HttpRequests,
		m.HttpDuration,
		m.WebsocketClients,
	)

	return m
}

// NewMetrics registers with the default Prometheus registry.
func NewMetrics() *Metrics {
	return New(prometheus.DefaultRegisterer)
}

// NewMetricsForTesting uses a fresh registry to avoid "already registered"
// panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return New(prometheus.NewRegistry())
}
