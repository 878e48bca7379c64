package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agrilink_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "agrilink_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	// Messaging metrics
	MessagesAppended = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agrilink_messages_appended_total",
			Help: "Total messages appended to transcripts",
		},
		[]string{"sender"}, // "self" or "peer"
	)

	IntentsClassified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agrilink_intents_classified_total",
			Help: "Total assistant intent classifications",
		},
		[]string{"directive"}, // "text", "item_list", "location_prompt"
	)

	RepliesScheduled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "agrilink_replies_scheduled_total",
			Help: "Total simulated replies scheduled",
		},
	)

	RepliesDelivered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "agrilink_replies_delivered_total",
			Help: "Total simulated replies delivered",
		},
	)

	RepliesCanceled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "agrilink_replies_canceled_total",
			Help: "Total simulated replies canceled before delivery",
		},
	)

	PermissionResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agrilink_permission_results_total",
			Help: "Total location permission resolutions",
		},
		[]string{"outcome"}, // "granted", "denied", "timeout"
	)

	// Rate limit metrics
	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agrilink_rate_limit_hits_total",
			Help: "Total rate limit hits",
		},
		[]string{"endpoint"},
	)
)
