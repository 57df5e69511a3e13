// Package metrics defines prometheus metrics to expose
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gaia_request_duration_seconds",
			Help:    "Time taken for generative API requests in seconds",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 15, 20, 30, 60, 120},
		},
		[]string{"model", "endpoint"},
	)

	RequestCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gaia_request_count_total",
			Help: "Total number of generative API requests",
		},
		[]string{"model", "endpoint", "status"},
	)

	ErrorCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gaia_error_count_total",
			Help: "Failed generative API requests by error kind",
		},
		[]string{"model", "endpoint", "kind"},
	)

	ResponseCodes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gaia_proxy_status_code_total",
			Help: "Status codes returned by the proxy",
		},
		[]string{"path", "status_code"},
	)
)
