package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jengzang/triprisk-backend-go/internal/analysis"
	"github.com/jengzang/triprisk-backend-go/internal/events"
	"github.com/jengzang/triprisk-backend-go/internal/logging"
	"github.com/jengzang/triprisk-backend-go/internal/metrics"
	"github.com/jengzang/triprisk-backend-go/internal/models"
	"github.com/jengzang/triprisk-backend-go/internal/scoring"
)

// Assessor turns a feature vector into a risk verdict
type Assessor interface {
	Assess(ctx context.Context, features models.FeatureVector) (scoring.Assessment, error)
}

// AssessmentStore persists assessments
type AssessmentStore interface {
	Create(ctx context.Context, a *models.Assessment) error
	GetByID(ctx context.Context, id string) (*models.Assessment, error)
	List(ctx context.Context, filter models.AssessmentFilter) ([]models.Assessment, int64, error)
}

// RiskService handles business logic for trip risk assessment
type RiskService struct {
	analyzer  analysis.Analyzer
	assessor  Assessor
	store     AssessmentStore
	publisher events.Publisher

	now   func() time.Time
	newID func() string
}

// NewRiskService creates a new risk service. publisher may be nil.
func NewRiskService(analyzer analysis.Analyzer, assessor Assessor, store AssessmentStore, publisher events.Publisher) *RiskService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &RiskService{
		analyzer:  analyzer,
		assessor:  assessor,
		store:     store,
		publisher: publisher,
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
	}
}

// Analyze derives features and alerts without scoring or storing anything
func (s *RiskService) Analyze(ctx context.Context, req models.TripRequest) (*models.AnalysisResponse, error) {
	trip, err := models.ParseTrip(req)
	if err != nil {
		logging.Ctx(ctx).Debug().Err(err).Msg("Rejected trip")
		return nil, err
	}

	result := s.analyzer.Analyze(trip)
	return &models.AnalysisResponse{
		PointCount: len(trip),
		Alerts:     result.Alerts,
		Features:   result.Features,
	}, nil
}

// Assess analyzes, scores and stores a trip, then announces it
func (s *RiskService) Assess(ctx context.Context, req models.TripRequest) (*models.Assessment, error) {
	start := s.now()
	log := logging.Ctx(ctx)

	trip, err := models.ParseTrip(req)
	if err != nil {
		log.Debug().Err(err).Msg("Rejected trip")
		return nil, err
	}

	result := s.analyzer.Analyze(trip)

	verdict, err := s.assessor.Assess(ctx, result.Features)
	if err != nil {
		metrics.RecordScoringError()
		log.Error().Err(err).Int("points", len(trip)).Msg("Scoring failed")
		return nil, err
	}

	a := &models.Assessment{
		ID:         s.newID(),
		CreatedAt:  start.UTC(),
		PointCount: len(trip),
		RiskScore:  scoring.Round3(verdict.RiskScore),
		RawScore:   verdict.RawScore,
		Label:      verdict.Label,
		Alerts:     result.Alerts,
		Features:   result.Features,
	}

	if err := s.store.Create(ctx, a); err != nil {
		log.Error().Err(err).Str("id", a.ID).Msg("Failed to store assessment")
		return nil, fmt.Errorf("failed to store assessment: %w", err)
	}

	// Best effort: the assessment is already stored
	if err := s.publisher.Publish(ctx, a); err != nil {
		metrics.RecordPublishError()
		log.Warn().Err(err).Str("id", a.ID).Msg("Failed to publish assessment")
	}

	elapsed := s.now().Sub(start)
	metrics.RecordAssessment(a.Label, a.Alerts, a.PointCount, elapsed)
	log.Info().
		Str("id", a.ID).
		Int("points", a.PointCount).
		Float64("risk_score", a.RiskScore).
		Str("label", string(a.Label)).
		Int("alerts", len(a.Alerts)).
		Dur("duration", elapsed).
		Msg("Trip assessed")

	return a, nil
}

// GetAssessment retrieves a stored assessment by ID
func (s *RiskService) GetAssessment(ctx context.Context, id string) (*models.Assessment, error) {
	return s.store.GetByID(ctx, id)
}

// ListAssessments retrieves stored assessments with filtering and pagination
func (s *RiskService) ListAssessments(ctx context.Context, filter models.AssessmentFilter) (*models.AssessmentsResponse, error) {
	if filter.Label != "" && !filter.Label.Valid() {
		return nil, fmt.Errorf("%w: unknown label %q", models.ErrMalformedInput, filter.Label)
	}
	filter.Normalize()

	data, total, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(filter.PageSize) - 1) / int64(filter.PageSize))
	return &models.AssessmentsResponse{
		Data:       data,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages,
	}, nil
}
