package posters

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "posters_requests_total",
		Help: "Total backend requests by endpoint and HTTP status",
	}, []string{"endpoint", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "posters_request_duration_seconds",
		Help:    "Backend request duration by endpoint",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 15, 30, 90},
	}, []string{"endpoint"})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "posters_errors_total",
		Help: "Backend request errors by class",
	}, []string{"class"})

	retriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "posters_retries_total",
		Help: "Retry attempts by error class",
	}, []string{"class"})

	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "posters_cache_lookups_total",
		Help: "Client cache lookups by result",
	}, []string{"result"}) // "hit", "miss", "error"
)
