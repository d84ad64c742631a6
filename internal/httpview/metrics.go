package httpview

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are an additive observability surface over the same
// progress/cancel hooks the core already calls; the core itself never
// imports Prometheus.
var (
	nodesProcessedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "heapsnap_nodes_processed_total",
		Help: "Total nodes read across every snapshot parsed by this server.",
	})

	parseDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "heapsnap_parse_duration_seconds",
		Help:    "Time to parse one snapshot file.",
		Buckets: prometheus.DefBuckets,
	})

	cancellationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "heapsnap_cancellations_total",
		Help: "Total operations that observed the cancel flag.",
	})

	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "heapsnap_http_requests_total",
		Help: "Total HTTP requests handled by the loopback viewer, by route and status.",
	}, []string{"route", "status"})
)
