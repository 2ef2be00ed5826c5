package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		jobsTotal,
		queueDepth,
		dispatchWaitMs,
		streamTimeouts,
	)
}

var (
	jobsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "queue_jobs_total",
			Help: "Count of finished jobs by terminal status.",
		},
		[]string{"status"},
	)

	queueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "queue_depth",
			Help: "Jobs currently waiting in the dispatch queue.",
		},
	)

	dispatchWaitMs = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "queue_dispatch_wait_ms",
			Help:    "Time spent inside the global rate-limit guard per dispatch, in milliseconds.",
			Buckets: []float64{1, 10, 100, 500, 1000, 3000, 6000, 12000, 30000},
		},
	)

	streamTimeouts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "queue_stream_timeouts_total",
			Help: "Stream reads that hit the consumer wait bound.",
		},
	)
)

func IncJob(status string) {
	jobsTotal.WithLabelValues(status).Inc()
}

func SetQueueDepth(n int) {
	queueDepth.Set(float64(n))
}

func ObserveDispatchWait(ms int) {
	dispatchWaitMs.Observe(float64(ms))
}

func IncStreamTimeout() {
	streamTimeouts.Inc()
}
