package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal tracks outbound VTN calls by method, endpoint template and status.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oadr3_client_requests_total",
			Help: "Total number of OpenADR 3 VTN requests (by method, endpoint, and status).",
		},
		[]string{"method", "endpoint", "status"},
	)

	// RequestDuration measures outbound VTN calls.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "oadr3_client_request_duration_seconds",
			Help:    "Duration of OpenADR 3 VTN requests in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 15), // 1ms → ~16s
		},
		[]string{"method", "endpoint"},
	)

	// TokenRefreshes counts token acquisitions by outcome ("ok" or "error").
	TokenRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oadr3_client_token_refreshes_total",
			Help: "Number of OAuth2 client-credentials token requests by outcome.",
		},
		[]string{"outcome"},
	)

	// ValidationRejections counts requests rejected locally before dispatch.
	ValidationRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oadr3_client_validation_rejections_total",
			Help: "Number of requests rejected by local validation, by operation.",
		},
		[]string{"operation"},
	)
)

// IncRequest increments the request counter.
func IncRequest(method, endpoint, status string) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
}

// IncTokenRefresh increments the token refresh counter.
func IncTokenRefresh(outcome string) {
	TokenRefreshes.WithLabelValues(outcome).Inc()
}

// IncValidationRejection increments the rejection counter for an operation.
func IncValidationRejection(operation string) {
	ValidationRejections.WithLabelValues(operation).Inc()
}

// ObserveDuration records elapsed time since start into a HistogramVec or SummaryVec.
func ObserveDuration(v any, start time.Time, labels ...string) {
	duration := time.Since(start).Seconds()
	switch metric := v.(type) {
	case *prometheus.HistogramVec:
		metric.WithLabelValues(labels...).Observe(duration)
	case *prometheus.SummaryVec:
		metric.WithLabelValues(labels...).Observe(duration)
	}
}
