// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jengzang/triprisk-backend-go/internal/models"
)

var (
	AssessmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "triprisk_assessments_total",
			Help: "Total number of scored trips by risk label",
		},
		[]string{"label"},
	)

	AlertsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "triprisk_alerts_total",
			Help: "Total number of rule alerts raised by kind",
		},
		[]string{"kind"},
	)

	AssessmentDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "triprisk_assessment_duration_seconds",
			Help:    "Time to analyze, score and store one trip",
			Buckets: prometheus.DefBuckets,
		},
	)

	TripPoints = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "triprisk_trip_points",
			Help:    "Number of points per submitted trip",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8), // 1 .. 16384
		},
	)

	ScoringErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "triprisk_scoring_errors_total",
			Help: "Total number of failed scoring calls",
		},
	)

	PublishErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "triprisk_publish_errors_total",
			Help: "Total number of assessment events that could not be published",
		},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "triprisk_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "triprisk_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// RecordAssessment records a completed assessment
func RecordAssessment(label models.RiskLabel, alerts []models.Alert, points int, duration time.Duration) {
	AssessmentsTotal.WithLabelValues(string(label)).Inc()
	for _, a := range alerts {
		AlertsTotal.WithLabelValues(string(a.Kind)).Inc()
	}
	TripPoints.Observe(float64(points))
	AssessmentDuration.Observe(duration.Seconds())
}

// RecordScoringError counts a failed scoring call
func RecordScoringError() {
	ScoringErrors.Inc()
}

// RecordPublishError counts a failed event publish
func RecordPublishError() {
	PublishErrors.Inc()
}

// RecordHTTPRequest records a served request. route is the matched route
// template so that path parameters do not explode cardinality.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
