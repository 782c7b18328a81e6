// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bookcase",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by route, method and status code",
		},
		[]string{"route", "method", "code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bookcase",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and method",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"route", "method"},
	)

	CatalogRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bookcase",
			Name:      "catalog_requests_total",
			Help:      "Open Library search calls by outcome",
		},
		[]string{"outcome"},
	)

	ActivityEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bookcase",
			Name:      "activity_events_total",
			Help:      "Reading activity events published to kafka by type and result",
		},
		[]string{"event_type", "result"},
	)
)

const (
	CatalogOK          = "ok"
	CatalogUnavailable = "unavailable"
	CatalogBadStatus   = "bad_status"
	CatalogDecodeError = "decode_error"
	CatalogBreakerOpen = "breaker_open"
)

func ObserveHTTP(route, method string, code int, elapsed time.Duration) {
	HTTPRequestsTotal.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	HTTPRequestDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

func ObserveCatalog(outcome string) {
	CatalogRequestsTotal.WithLabelValues(outcome).Inc()
}

func ObserveActivity(eventType string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	ActivityEventsTotal.WithLabelValues(eventType, result).Inc()
}
