package models

import "time"

// RiskLabel is the bucketed risk score shown to end users
type RiskLabel string

const (
	RiskLow    RiskLabel = "low"
	RiskMedium RiskLabel = "medium"
	RiskHigh   RiskLabel = "high"
)

// Valid reports whether l is one of the known labels
func (l RiskLabel) Valid() bool {
	switch l {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

// Assessment is a scored trip as stored and returned by the API
type Assessment struct {
	ID         string        `json:"id" db:"id"`
	CreatedAt  time.Time     `json:"created_at" db:"created_at"`
	PointCount int           `json:"point_count" db:"point_count"`
	RiskScore  float64       `json:"risk_score" db:"risk_score"` // [0,1], rounded to 3 decimals
	RawScore   float64       `json:"raw_score" db:"raw_score"`   // scorer's native scale
	Label      RiskLabel     `json:"label" db:"label"`
	Alerts     []Alert       `json:"alerts"`
	Features   FeatureVector `json:"features"`
}

// AnalysisResponse is returned by the unscored features endpoint
type AnalysisResponse struct {
	PointCount int           `json:"point_count"`
	Alerts     []Alert       `json:"alerts"`
	Features   FeatureVector `json:"features"`
}

// AssessmentsResponse represents a paginated response of assessments
type AssessmentsResponse struct {
	Data       []Assessment `json:"data"`
	Total      int64        `json:"total"`
	Page       int          `json:"page"`
	PageSize   int          `json:"pageSize"`
	TotalPages int          `json:"totalPages"`
}
