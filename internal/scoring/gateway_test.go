package scoring

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/triprisk-backend-go/internal/models"
)

type fixedScorer struct {
	raw float64
	err error
}

func (s fixedScorer) Score(context.Context, models.FeatureVector) (float64, error) {
	return s.raw, s.err
}

func TestLabelFor(t *testing.T) {
	tests := []struct {
		risk     float64
		expected models.RiskLabel
	}{
		{0, models.RiskLow},
		{0.4, models.RiskLow},
		{0.4000001, models.RiskMedium},
		{0.55, models.RiskMedium},
		{0.7, models.RiskMedium},
		{0.7000001, models.RiskHigh},
		{1, models.RiskHigh},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, LabelFor(tt.risk), "risk=%v", tt.risk)
	}
}

func TestMinMaxNormalizer(t *testing.T) {
	n := MinMaxNormalizer{Min: -0.2, Max: 0.2}

	// Raw scores are negated: a high raw score (normal) maps to low risk
	assert.InDelta(t, 0.0, n.Normalize(0.2), 1e-12)
	assert.InDelta(t, 0.5, n.Normalize(0), 1e-12)
	assert.InDelta(t, 1.0, n.Normalize(-0.2), 1e-12)

	// Clamped outside the training range
	assert.Equal(t, 0.0, n.Normalize(5))
	assert.Equal(t, 1.0, n.Normalize(-5))

	// Monotonic: lower raw, higher risk
	assert.Greater(t, n.Normalize(-0.1), n.Normalize(0.1))

	assert.Equal(t, 0.0, MinMaxNormalizer{Min: 1, Max: 1}.Normalize(0))
}

func TestGateway_Assess(t *testing.T) {
	g := NewGateway(fixedScorer{raw: -0.1}, MinMaxNormalizer{Min: -0.2, Max: 0.2})

	a, err := g.Assess(context.Background(), models.FeatureVector{})
	require.NoError(t, err)
	assert.Equal(t, -0.1, a.RawScore)
	assert.InDelta(t, 0.75, a.RiskScore, 1e-12)
	assert.Equal(t, models.RiskHigh, a.Label)
}

func TestGateway_AssessError(t *testing.T) {
	g := NewGateway(fixedScorer{err: errors.New("model crashed")}, MinMaxNormalizer{Min: 0, Max: 1})

	_, err := g.Assess(context.Background(), models.FeatureVector{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrScoringUnavailable)
	assert.Contains(t, err.Error(), "model crashed")
}

func TestRound3(t *testing.T) {
	assert.Equal(t, 0.123, Round3(0.12345))
	assert.Equal(t, 1.0, Round3(0.99951))
}
