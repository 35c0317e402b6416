// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GatewayRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_requests_total",
			Help: "Total number of outbound requests by method, path and outcome",
		},
		[]string{"method", "path", "outcome"},
	)

	GatewayRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "gateway_request_duration_seconds",
			Help: "Duration of outbound requests in seconds",
		},
		[]string{"method", "path"},
	)

	ForcedLogoutsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "session_forced_logouts_total",
			Help: "Total number of forced logouts triggered by 401 responses",
		},
	)

	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_submissions_total",
			Help: "Total number of submitted applications by outcome",
		},
		[]string{"estado"},
	)
)
