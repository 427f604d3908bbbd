package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/triprisk-backend-go/internal/models"
)

func TestRecordAssessment(t *testing.T) {
	high := testutil.ToFloat64(AssessmentsTotal.WithLabelValues("high"))
	stops := testutil.ToFloat64(AlertsTotal.WithLabelValues("long_stop"))
	breaches := testutil.ToFloat64(AlertsTotal.WithLabelValues("geofence_breach"))

	RecordAssessment(models.RiskHigh, []models.Alert{
		models.NewLongStop(30, 45),
		models.NewGeofenceBreach(5000, 7000),
	}, 20, 15*time.Millisecond)

	assert.Equal(t, high+1, testutil.ToFloat64(AssessmentsTotal.WithLabelValues("high")))
	assert.Equal(t, stops+1, testutil.ToFloat64(AlertsTotal.WithLabelValues("long_stop")))
	assert.Equal(t, breaches+1, testutil.ToFloat64(AlertsTotal.WithLabelValues("geofence_breach")))
}

func TestRecordErrors(t *testing.T) {
	scoring := testutil.ToFloat64(ScoringErrors)
	publish := testutil.ToFloat64(PublishErrors)

	RecordScoringError()
	RecordPublishError()

	assert.Equal(t, scoring+1, testutil.ToFloat64(ScoringErrors))
	assert.Equal(t, publish+1, testutil.ToFloat64(PublishErrors))
}

func TestRecordHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404"))

	RecordHTTPRequest("GET", "", 404, time.Millisecond)

	assert.Equal(t, before+1, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404")))
}

func TestMetricsLint(t *testing.T) {
	problems, err := testutil.GatherAndLint(prometheus.DefaultGatherer,
		"triprisk_assessments_total",
		"triprisk_alerts_total",
		"triprisk_assessment_duration_seconds",
		"triprisk_scoring_errors_total",
		"triprisk_http_requests_total",
	)
	require.NoError(t, err)
	assert.Empty(t, problems)
}
