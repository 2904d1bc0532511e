package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the pipeline's Prometheus instruments.
//
// Built with promauto.With(reg); a nil registerer yields working but
// unregistered instruments.
type Metrics struct {
	submitted     prometheus.Counter
	rejected      prometheus.Counter
	decoded       prometheus.Counter
	queueDepth    prometheus.Gauge
	decodeSeconds prometheus.Histogram
}

// NewMetrics creates the instruments and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		submitted: f.NewCounter(prometheus.CounterOpts{
			Name: "cdma_frames_submitted_total",
			Help: "Frames accepted by the producer and enqueued",
		}),
		rejected: f.NewCounter(prometheus.CounterOpts{
			Name: "cdma_frames_rejected_total",
			Help: "Tokens the producer could not normalize into a frame",
		}),
		decoded: f.NewCounter(prometheus.CounterOpts{
			Name: "cdma_frames_decoded_total",
			Help: "Frames encoded, decoded and published by the consumer",
		}),
		queueDepth: f.NewGauge(prometheus.GaugeOpts{
			Name: "cdma_queue_depth",
			Help: "Frames waiting for the consumer",
		}),
		decodeSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "cdma_decode_duration_seconds",
			Help:    "Time spent spreading, combining and correlating one frame",
			Buckets: prometheus.ExponentialBuckets(0.000001, 4, 10), // 1µs to ~260ms
		}),
	}
}
