package spatial

import (
	"math"
)

// AngularDifference returns the shortest unsigned difference between two
// bearings in degrees, in the range [0, 180]
func AngularDifference(a, b float64) float64 {
	diff := math.Abs(b - a)
	return math.Min(diff, 360-diff)
}

// SegmentBearings returns the bearing of each consecutive segment of a path
func SegmentBearings(points []Point) []float64 {
	if len(points) < 2 {
		return nil
	}

	bearings := make([]float64, 0, len(points)-1)
	for i := 1; i < len(points); i++ {
		bearings = append(bearings, Bearing(points[i-1], points[i]))
	}
	return bearings
}

// BearingChanges returns the shortest angular difference between each pair of
// adjacent bearings
func BearingChanges(bearings []float64) []float64 {
	if len(bearings) < 2 {
		return nil
	}

	changes := make([]float64, 0, len(bearings)-1)
	for i := 1; i < len(bearings); i++ {
		changes = append(changes, AngularDifference(bearings[i-1], bearings[i]))
	}
	return changes
}
