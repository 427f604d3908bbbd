// Package scoring is the boundary to the statistical anomaly model. The model
// itself is trained and served elsewhere; this package defines the contract it
// is called through, the normalization of its raw output, and the label buckets.
package scoring

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/jengzang/triprisk-backend-go/internal/models"
)

// ErrScoringUnavailable wraps failures to obtain a raw score
var ErrScoringUnavailable = errors.New("scoring unavailable")

// Label cut points
const (
	HighRiskAbove   = 0.7
	MediumRiskAbove = 0.4
)

// Scorer produces an unbounded raw anomaly score; lower means more anomalous
type Scorer interface {
	Score(ctx context.Context, features models.FeatureVector) (float64, error)
}

// Normalizer maps a raw score to a risk score in [0,1]; higher means riskier
type Normalizer interface {
	Normalize(raw float64) float64
}

// MinMaxNormalizer negates the raw score and rescales it linearly so that
// -Max..-Min of the raw scale lands on 0..1. Values outside are clamped.
// Min and Max are the observed range of the negated raw score on training data.
type MinMaxNormalizer struct {
	Min float64
	Max float64
}

// Normalize implements Normalizer
func (n MinMaxNormalizer) Normalize(raw float64) float64 {
	span := n.Max - n.Min
	if span <= 0 {
		return 0
	}
	v := (-raw - n.Min) / span
	return math.Max(0, math.Min(1, v))
}

// Gateway combines a scorer and a normalizer. It is constructed once by the
// serving layer and passed to whoever needs it.
type Gateway struct {
	scorer     Scorer
	normalizer Normalizer
}

// NewGateway creates a gateway
func NewGateway(scorer Scorer, normalizer Normalizer) *Gateway {
	return &Gateway{scorer: scorer, normalizer: normalizer}
}

// Assessment is the gateway's verdict on a feature vector
type Assessment struct {
	RawScore  float64
	RiskScore float64
	Label     models.RiskLabel
}

// Assess scores, normalizes and labels a feature vector
func (g *Gateway) Assess(ctx context.Context, features models.FeatureVector) (Assessment, error) {
	raw, err := g.scorer.Score(ctx, features)
	if err != nil {
		if errors.Is(err, ErrScoringUnavailable) {
			return Assessment{}, err
		}
		return Assessment{}, fmt.Errorf("%w: %v", ErrScoringUnavailable, err)
	}

	risk := g.normalizer.Normalize(raw)
	return Assessment{
		RawScore:  raw,
		RiskScore: risk,
		Label:     LabelFor(risk),
	}, nil
}

// LabelFor buckets a risk score: > 0.7 high, > 0.4 medium, otherwise low
func LabelFor(risk float64) models.RiskLabel {
	switch {
	case risk > HighRiskAbove:
		return models.RiskHigh
	case risk > MediumRiskAbove:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}

// Round3 rounds a risk score to three decimals for presentation
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
