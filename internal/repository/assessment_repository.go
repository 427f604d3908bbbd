package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/jengzang/triprisk-backend-go/internal/models"
)

// AssessmentRepository handles database operations for trip assessments
type AssessmentRepository struct {
	db *sql.DB
}

// NewAssessmentRepository creates a new assessment repository
func NewAssessmentRepository(db *sql.DB) *AssessmentRepository {
	return &AssessmentRepository{db: db}
}

const assessmentColumns = `id, created_at, point_count, risk_score, raw_score, label, features_json, alerts_json`

// Create inserts an assessment
func (r *AssessmentRepository) Create(ctx context.Context, a *models.Assessment) error {
	features, err := json.Marshal(a.Features)
	if err != nil {
		return fmt.Errorf("failed to encode features: %w", err)
	}
	alerts := a.Alerts
	if alerts == nil {
		alerts = []models.Alert{}
	}
	alertsJSON, err := json.Marshal(alerts)
	if err != nil {
		return fmt.Errorf("failed to encode alerts: %w", err)
	}

	query := `INSERT INTO assessments (` + assessmentColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		a.ID, a.CreatedAt.UnixMilli(), a.PointCount, a.RiskScore, a.RawScore, string(a.Label),
		string(features), string(alertsJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to insert assessment: %w", err)
	}
	return nil
}

// GetByID retrieves an assessment, returning models.ErrNotFound when absent
func (r *AssessmentRepository) GetByID(ctx context.Context, id string) (*models.Assessment, error) {
	query := `SELECT ` + assessmentColumns + ` FROM assessments WHERE id = ?`
	a, err := scanAssessment(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("assessment %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}
	return a, nil
}

// List retrieves assessments with filtering and pagination, newest first
func (r *AssessmentRepository) List(ctx context.Context, filter models.AssessmentFilter) ([]models.Assessment, int64, error) {
	filter.Normalize()

	where := ""
	var args []interface{}
	if filter.Label != "" {
		where = " WHERE label = ?"
		args = append(args, string(filter.Label))
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM assessments"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count assessments: %w", err)
	}

	query := `SELECT ` + assessmentColumns + ` FROM assessments` + where +
		` ORDER BY created_at DESC, id LIMIT ? OFFSET ?`
	args = append(args, filter.PageSize, filter.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query assessments: %w", err)
	}
	defer rows.Close()

	assessments := []models.Assessment{}
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan assessment: %w", err)
		}
		assessments = append(assessments, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate assessments: %w", err)
	}

	return assessments, total, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAssessment(row rowScanner) (*models.Assessment, error) {
	var (
		a            models.Assessment
		createdAt    int64
		label        string
		featuresJSON string
		alertsJSON   string
	)
	err := row.Scan(&a.ID, &createdAt, &a.PointCount, &a.RiskScore, &a.RawScore, &label, &featuresJSON, &alertsJSON)
	if err != nil {
		return nil, err
	}

	a.CreatedAt = time.UnixMilli(createdAt).UTC()
	a.Label = models.RiskLabel(label)
	if err := json.Unmarshal([]byte(featuresJSON), &a.Features); err != nil {
		return nil, fmt.Errorf("failed to decode features: %w", err)
	}
	if err := json.Unmarshal([]byte(alertsJSON), &a.Alerts); err != nil {
		return nil, fmt.Errorf("failed to decode alerts: %w", err)
	}
	return &a, nil
}
