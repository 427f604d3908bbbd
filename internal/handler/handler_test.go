package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/triprisk-backend-go/internal/analysis"
	"github.com/jengzang/triprisk-backend-go/internal/database"
	"github.com/jengzang/triprisk-backend-go/internal/models"
	"github.com/jengzang/triprisk-backend-go/internal/repository"
	"github.com/jengzang/triprisk-backend-go/internal/scoring"
	"github.com/jengzang/triprisk-backend-go/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubScorer struct {
	raw float64
	err error
}

func (s stubScorer) Score(context.Context, models.FeatureVector) (float64, error) {
	return s.raw, s.err
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newRouter(t *testing.T, scorer scoring.Scorer) *gin.Engine {
	t.Helper()
	db, err := database.Open(database.Config{Path: database.MemoryPath})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.NewMigrationManager(db).RunMigrations(context.Background()))

	gateway := scoring.NewGateway(scorer, scoring.MinMaxNormalizer{Min: 0, Max: 1})
	svc := service.NewRiskService(analysis.NewEngine(analysis.DefaultConfig()), gateway, repository.NewAssessmentRepository(db), nil)

	risk := NewRiskHandler(svc)
	assessments := NewAssessmentHandler(svc)

	r := gin.New()
	r.POST("/risk-score", risk.Score)
	r.POST("/features", risk.Features)
	r.GET("/assessments", assessments.GetAssessments)
	r.GET("/assessments/:id", assessments.GetAssessmentByID)
	r.GET("/health", NewHealthHandler(db, nil).Health)
	return r
}

func do(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") != "" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

const longStopTrip = `{"points":[
	{"lat":12.9716,"lon":77.5946,"ts":"2024-01-01T09:00:00"},
	{"lat":12.9716,"lon":77.5946,"ts":"2024-01-01T09:40:00"}
]}`

func TestScore(t *testing.T) {
	r := newRouter(t, stubScorer{raw: -0.5559})

	w, env := do(t, r, http.MethodPost, "/risk-score", longStopTrip)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var a models.Assessment
	require.NoError(t, json.Unmarshal(env.Data, &a))
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, 0.556, a.RiskScore)
	assert.Equal(t, models.RiskMedium, a.Label)
	require.Len(t, a.Alerts, 2)
	assert.Equal(t, "Long stop > 30 min", a.Alerts[0].Message)
	assert.Equal(t, "Missing location update > 5 min", a.Alerts[1].Message)

	// Stored and retrievable
	w, env = do(t, r, http.MethodGet, "/assessments/"+a.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	var stored models.Assessment
	require.NoError(t, json.Unmarshal(env.Data, &stored))
	assert.Equal(t, a.ID, stored.ID)
	assert.Equal(t, a.Features, stored.Features)

	w, env = do(t, r, http.MethodGet, "/assessments?label=medium", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list models.AssessmentsResponse
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, int64(1), list.Total)
}

func TestScore_EmptyTrip(t *testing.T) {
	r := newRouter(t, stubScorer{raw: 0})

	w, env := do(t, r, http.MethodPost, "/risk-score", `{"points":[]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var a models.Assessment
	require.NoError(t, json.Unmarshal(env.Data, &a))
	assert.Equal(t, models.FeatureVector{}, a.Features)
	assert.Empty(t, a.Alerts)
	assert.Equal(t, models.RiskLow, a.Label)
}

func TestScore_BadRequests(t *testing.T) {
	r := newRouter(t, stubScorer{})

	tests := []struct {
		name string
		body string
		msg  string
	}{
		{"not json", `{`, "Invalid request body"},
		{"no points", `{}`, "Points is required"},
		{"missing lat", `{"points":[{"lon":77.5,"ts":"2024-01-01T09:00:00Z"}]}`, "Points[0].Lat is required"},
		{"lat out of range", `{"points":[{"lat":95,"lon":77.5,"ts":"2024-01-01T09:00:00Z"}]}`, "Points[0].Lat must be within range"},
		{"bad timestamp", `{"points":[{"lat":12.9,"lon":77.5,"ts":"9am"}]}`, "point 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := do(t, r, http.MethodPost, "/risk-score", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, http.StatusBadRequest, env.Code)
			assert.Contains(t, env.Message, tt.msg)
		})
	}
}

func TestScore_ScoringUnavailable(t *testing.T) {
	r := newRouter(t, stubScorer{err: errors.New("connection refused")})

	w, env := do(t, r, http.MethodPost, "/risk-score", longStopTrip)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.NotContains(t, env.Message, "connection refused")
}

func TestFeatures(t *testing.T) {
	r := newRouter(t, stubScorer{err: errors.New("must not be called")})

	w, env := do(t, r, http.MethodPost, "/features", `{"points":[{"lat":13.2,"lon":77.5946,"ts":"2024-01-01T22:15:00+05:30"}]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res models.AnalysisResponse
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, 1, res.PointCount)
	assert.Equal(t, 22, res.Features.StartHour, "hour in the timestamp's own offset")
	require.Len(t, res.Alerts, 1)
	assert.Equal(t, "Geo-fence breach", res.Alerts[0].Message)

	_, env = do(t, r, http.MethodGet, "/assessments", "")
	var list models.AssessmentsResponse
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Zero(t, list.Total)
}

func TestGetAssessment_NotFound(t *testing.T) {
	r := newRouter(t, stubScorer{})

	w, env := do(t, r, http.MethodGet, "/assessments/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Assessment not found", env.Message)
}

func TestGetAssessments_BadLabel(t *testing.T) {
	r := newRouter(t, stubScorer{})

	w, _ := do(t, r, http.MethodGet, "/assessments?label=critical", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, r, http.MethodGet, "/assessments?page=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type fixedState string

func (s fixedState) State() string { return string(s) }

func TestHealth(t *testing.T) {
	r := gin.New()
	r.GET("/health", NewHealthHandler(nil, fixedState("closed")).Health)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","scoring":"closed"}`, w.Body.String())
}
