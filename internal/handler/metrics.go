package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ordersCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "exchange_service",
			Subsystem: "http",
			Name:      "orders_created_total",
			Help:      "Total number of orders accepted via the API",
		},
	)

	degradedQuotes = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "exchange_service",
			Subsystem: "http",
			Name:      "degraded_quotes_total",
			Help:      "Total number of quotes served from the fallback rate",
		},
	)

	ordersProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "exchange_service",
			Subsystem: "kafka_consumer",
			Name:      "orders_processed_total",
			Help:      "Total number of orders driven through automation",
		},
	)

	ordersFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "exchange_service",
			Subsystem: "kafka_consumer",
			Name:      "orders_failed_total",
			Help:      "Total number of order processing attempts that errored",
		},
	)

	ordersDLQ = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "exchange_service",
			Subsystem: "kafka_consumer",
			Name:      "orders_dlq_total",
			Help:      "Total number of order messages written to DLQ",
		},
	)

	orderProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "exchange_service",
			Subsystem: "kafka_consumer",
			Name:      "order_processing_duration_seconds",
			Help:      "Histogram of order processing durations in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)
)
