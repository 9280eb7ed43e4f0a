package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "metar_ingest"

// Metrics holds the ingest pipeline counters.
type Metrics struct {
	MessagesReceived *prometheus.CounterVec // labels: source
	ReportsDecoded   prometheus.Counter
	DecodeFailures   *prometheus.CounterVec // labels: kind
	StoreErrors      prometheus.Counter
	ReportsPublished prometheus.Counter
	DecodeDuration   prometheus.Histogram
}

// NewMetrics creates the metrics and registers them with reg. Tests pass a
// fresh prometheus.NewRegistry(); the service passes the default registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		MessagesReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_received_total",
			Help:      "Payloads received, by source.",
		}, []string{"source"}),
		ReportsDecoded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_decoded_total",
			Help:      "Reports decoded successfully.",
		}),
		DecodeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decode_failures_total",
			Help:      "Reports that failed to decode, by error kind.",
		}, []string{"kind"}),
		StoreErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_errors_total",
			Help:      "Records that could not be persisted.",
		}),
		ReportsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_published_total",
			Help:      "Decoded reports written to the sink topic.",
		}),
		DecodeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "payload_duration_seconds",
			Help:      "Time to decode and store one payload.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
	}

	reg.MustRegister(
		m.MessagesReceived,
		m.ReportsDecoded,
		m.DecodeFailures,
		m.StoreErrors,
		m.ReportsPublished,
		m.DecodeDuration,
	)
	return m
}
