// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HandlerRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edgar_service_requests_total",
			Help: "Total number of requests served per handler",
		},
		[]string{"handler", "status"},
	)

	HandlerRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "edgar_service_request_duration_seconds",
			Help: "Duration of request handling in seconds",
		},
		[]string{"handler"},
	)

	HandlerRequestsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "edgar_service_requests_active",
			Help: "Number of requests currently in flight per handler",
		},
		[]string{"handler"},
	)

	EdgarRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edgar_upstream_requests_total",
			Help: "Total number of requests sent to SEC EDGAR hosts",
		},
		[]string{"host", "status"},
	)

	EdgarRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "edgar_upstream_request_duration_seconds",
			Help: "Duration of SEC EDGAR requests in seconds",
		},
		[]string{"host"},
	)

	CacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edgar_cache_hits_total",
			Help: "Total number of cache hits per cache name",
		},
		[]string{"cache"},
	)

	CacheMissesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edgar_cache_misses_total",
			Help: "Total number of cache misses per cache name",
		},
		[]string{"cache"},
	)

	SectionExtractionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "edgar_section_extraction_duration_seconds",
			Help: "Duration of filing section extraction in seconds",
		},
		[]string{"section"},
	)
)
