// Package features derives the fixed-shape feature vector of a trip.
package features

import (
	"github.com/jengzang/triprisk-backend-go/internal/analysis/stop"
	"github.com/jengzang/triprisk-backend-go/internal/models"
	"github.com/jengzang/triprisk-backend-go/internal/spatial"
	"github.com/jengzang/triprisk-backend-go/internal/stats"
)

// Options configures the extractor thresholds
type Options struct {
	Stop stop.Options

	// A gap between consecutive points longer than ExpectedIntervalSeconds +
	// ToleranceSeconds counts as a missing update
	ExpectedIntervalSeconds float64
	ToleranceSeconds        float64
}

// DefaultOptions returns the default thresholds (10 m / 120 s stops, 120 s + 30 s updates)
func DefaultOptions() Options {
	return Options{
		Stop:                    stop.DefaultOptions(),
		ExpectedIntervalSeconds: 120,
		ToleranceSeconds:        30,
	}
}

// Extractor computes feature vectors. It holds only configuration and is safe
// for concurrent use.
type Extractor struct {
	opts Options
}

// NewExtractor creates an extractor with the given options
func NewExtractor(opts Options) *Extractor {
	return &Extractor{opts: opts}
}

// Extract computes the feature vector of a trip. Degenerate trips (fewer than
// two points) produce a vector of zeros apart from the start and end hours.
func (e *Extractor) Extract(trip models.Trip) models.FeatureVector {
	var fv models.FeatureVector
	if len(trip) == 0 {
		return fv
	}

	coords := trip.Coords()
	first, last := trip[0], trip[len(trip)-1]

	speeds := Speeds(trip)
	summary := stop.Segment(trip, e.opts.Stop)

	fv.AvgDistanceFromRoute = spatial.MeanRouteDeviation(coords)
	fv.SpeedVariance = stats.PopulationVariance(speeds)
	fv.MaxStopDuration = summary.MaxStopDurationSeconds
	fv.NumMissingUpdates = float64(e.countMissingUpdates(trip))
	fv.TotalDistance = spatial.PathLength(coords)
	fv.AvgSpeed = stats.Mean(speeds)
	fv.MaxSpeed = stats.Max(speeds)
	if len(trip) > 1 {
		fv.TripDuration = last.Timestamp.Sub(first.Timestamp).Seconds()
	}
	fv.StraightnessRatio = spatial.StraightnessRatio(coords)
	fv.StopCount = summary.StopCount
	fv.StartHour = first.Timestamp.Hour()
	fv.EndHour = last.Timestamp.Hour()
	fv.BearingChangeVariance = BearingChangeVariance(coords)

	return fv
}

// Speeds returns the speed in m/s of each consecutive segment. Segments whose
// time delta is zero or negative are skipped.
func Speeds(trip models.Trip) []float64 {
	var speeds []float64
	for i := 1; i < len(trip); i++ {
		dt := trip[i].Timestamp.Sub(trip[i-1].Timestamp).Seconds()
		if dt <= 0 {
			continue
		}
		d := spatial.HaversineDistance(trip[i-1].Coord(), trip[i].Coord())
		speeds = append(speeds, d/dt)
	}
	return speeds
}

// BearingChangeVariance returns the population variance of the shortest angular
// differences between consecutive segment bearings; 0 with fewer than two differences.
func BearingChangeVariance(coords []spatial.Point) float64 {
	if len(coords) < 3 {
		return 0
	}
	return stats.PopulationVariance(spatial.BearingChanges(spatial.SegmentBearings(coords)))
}

// countMissingUpdates counts gaps longer than the expected interval plus tolerance
func (e *Extractor) countMissingUpdates(trip models.Trip) int {
	limit := e.opts.ExpectedIntervalSeconds + e.opts.ToleranceSeconds

	misses := 0
	for i := 1; i < len(trip); i++ {
		if trip[i].Timestamp.Sub(trip[i-1].Timestamp).Seconds() > limit {
			misses++
		}
	}
	return misses
}
