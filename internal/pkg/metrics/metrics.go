package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ProviderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tutor_provider_requests_total",
			Help: "LLM provider dispatches by outcome",
		},
		[]string{"provider", "outcome"}, // outcome: success, configuration, timeout, rate_limit, network, upstream, malformed_response
	)

	ProviderLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tutor_provider_request_duration_seconds",
			Help:    "Duration of LLM provider calls",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"provider"},
	)

	IndexBuilds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tutor_index_builds_total",
			Help: "Document index builds by outcome",
		},
		[]string{"outcome"},
	)

	IndexChunks = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tutor_index_chunks",
			Help:    "Number of chunks per built document index",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	UploadRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tutor_upload_rejections_total",
			Help: "Rejected document uploads by reason",
		},
		[]string{"reason"}, // reason: quota, validation, extraction
	)

	Retrievals = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tutor_retrievals_total",
			Help: "Retrieval scope resolutions by scope type and outcome",
		},
		[]string{"scope_type", "outcome"}, // outcome: hit, not_found, degraded
	)
)

var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "tutor_http_request_duration_seconds",
		Help:    "Duration of HTTP requests by route pattern",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"method", "route", "status"},
)
