// Package metrics declares the Prometheus collectors of the service.
package metrics

import (
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// StatementsTotal counts executed SQL statements by operation and outcome.
	StatementsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskdesk_db_statements_total",
			Help: "Total number of executed SQL statements",
		},
		[]string{"operation", "status"},
	)
	// StatementDuration is the latency of SQL statements.
	StatementDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "taskdesk_db_statement_duration_seconds",
			Help:    "SQL statement latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
	// StatementCacheHits counts prepared statement cache lookups by result.
	StatementCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskdesk_db_statement_cache_total",
			Help: "Prepared statement cache lookups",
		},
		[]string{"result"},
	)
	// RequestTotal counts HTTP requests by method, route and status.
	RequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskdesk_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
	// RequestDuration is the latency of HTTP requests.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "taskdesk_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// Operation returns the lower-cased leading keyword of a statement.
func Operation(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return "unknown"
	}
	switch op := strings.ToLower(fields[0]); op {
	case "select", "insert", "update", "delete", "pragma", "create", "begin", "commit", "rollback":
		return op
	default:
		return "other"
	}
}

// ObserveStatement records one statement execution.
func ObserveStatement(query string, start time.Time, err error) {
	op := Operation(query)
	status := "ok"
	if err != nil {
		status = "error"
	}
	StatementsTotal.WithLabelValues(op, status).Inc()
	StatementDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// Handler returns the Prometheus HTTP handler for /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
