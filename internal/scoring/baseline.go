package scoring

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/jengzang/triprisk-backend-go/internal/models"
	"github.com/jengzang/triprisk-backend-go/internal/stats"
)

// FeatureStats describes the distribution of one feature on normal trips
type FeatureStats struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// BaselineModel is a per-feature reference distribution
type BaselineModel struct {
	Features map[string]FeatureStats `json:"features"`
}

// DefaultBaselineModel describes a typical 20-point city trip sampled every two minutes
func DefaultBaselineModel() BaselineModel {
	return BaselineModel{Features: map[string]FeatureStats{
		"avg_distance_from_route": {Mean: 4, Std: 3},
		"speed_variance":          {Mean: 0.01, Std: 0.01},
		"max_stop_duration":       {Mean: 0, Std: 300},
		"num_missing_updates":     {Mean: 0, Std: 0.5},
		"total_distance":          {Mean: 590, Std: 120},
		"avg_speed":               {Mean: 0.26, Std: 0.06},
		"max_speed":               {Mean: 0.4, Std: 0.1},
		"trip_duration":           {Mean: 2280, Std: 300},
		"straightness_ratio":      {Mean: 1.05, Std: 0.05},
		"stop_count":              {Mean: 0, Std: 0.5},
		"start_hour":              {Mean: 12, Std: 7},
		"end_hour":                {Mean: 12, Std: 7},
		"bearing_change_variance": {Mean: 150, Std: 150},
	}}
}

// LoadBaselineModel reads a baseline model from a JSON file
func LoadBaselineModel(path string) (BaselineModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return BaselineModel{}, fmt.Errorf("failed to read baseline model: %w", err)
	}

	var model BaselineModel
	if err := json.Unmarshal(data, &model); err != nil {
		return BaselineModel{}, fmt.Errorf("failed to parse baseline model: %w", err)
	}
	return model, nil
}

// BaselineScorer scores a trip by how far its features sit from the baseline:
// the raw score is the negated mean absolute z-score, so lower is more anomalous.
type BaselineScorer struct {
	means []float64
	stds  []float64
}

// NewBaselineScorer creates a scorer. Every feature must be described.
func NewBaselineScorer(model BaselineModel) (*BaselineScorer, error) {
	s := &BaselineScorer{
		means: make([]float64, len(models.FeatureNames)),
		stds:  make([]float64, len(models.FeatureNames)),
	}
	for i, name := range models.FeatureNames {
		fs, ok := model.Features[name]
		if !ok {
			return nil, fmt.Errorf("baseline model is missing feature %q", name)
		}
		if fs.Std < 0 {
			return nil, fmt.Errorf("baseline model has negative std for %q", name)
		}
		s.means[i] = fs.Mean
		s.stds[i] = fs.Std
	}
	return s, nil
}

// Score implements Scorer
func (s *BaselineScorer) Score(_ context.Context, features models.FeatureVector) (float64, error) {
	return -stats.MeanAbsZScore(features.Values(), s.means, s.stds), nil
}
