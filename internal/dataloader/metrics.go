package dataloader

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	batchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataloader_batches_total",
			Help: "Batch function invocations.",
		},
		[]string{"loader"},
	)

	batchErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataloader_batch_errors_total",
			Help: "Batch function invocations that failed as a whole.",
		},
		[]string{"loader"},
	)

	cacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataloader_cache_hits_total",
			Help: "Loads served from the scope cache.",
		},
		[]string{"loader"},
	)

	batchKeys = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dataloader_batch_keys",
			Help:    "Keys per batch function invocation.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 8),
		},
		[]string{"loader"},
	)

	batchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dataloader_batch_duration_seconds",
			Help:    "Batch function latency.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"loader"},
	)
)
