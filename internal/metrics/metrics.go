package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SessionsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mindmap_sessions_started_total",
		Help: "Total number of game sessions started.",
	})

	SessionsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mindmap_sessions_expired_total",
		Help: "Total number of sessions that hit their time limit.",
	})

	ConnectionsAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mindmap_connections_accepted_total",
		Help: "Total number of word connections accepted into a map.",
	})

	ConnectionsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mindmap_connections_rejected_total",
		Help: "Total number of rejected connection attempts, labelled by reason.",
	}, []string{"reason"})

	OracleLookupDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "mindmap_oracle_lookup_duration_ms",
		Help:    "Relatedness oracle lookup latency in milliseconds.",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	})

	OracleQueueUtilization = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mindmap_oracle_queue_utilization_ratio",
		Help: "Current oracle lookup queue utilization (0–1).",
	})
)
