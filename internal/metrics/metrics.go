// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gurukul_http_requests_total",
		Help: "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gurukul_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gurukul_cache_lookups_total",
		Help: "Catalog cache lookups by result (hit, miss, error).",
	}, []string{"result"})

	MediaJobs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gurukul_media_jobs_total",
		Help: "Media processing jobs by outcome.",
	}, []string{"outcome"})

	Enrollments = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gurukul_enrollments_total",
		Help: "Successful course enrollments.",
	})
)
