package repositories

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	versionConflicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "repository_version_conflicts_total",
			Help: "Updates rejected because the stored version had moved.",
		},
		[]string{"table"},
	)

	duplicateCreates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "repository_duplicate_creates_total",
			Help: "Creates rejected because the natural key was taken.",
		},
		[]string{"table"},
	)

	queryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "repository_query_duration_seconds",
			Help:    "Latency of repository operations.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"table", "op"},
	)
)
