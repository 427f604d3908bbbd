package spatial

// PathLength calculates the total length of a path (sequence of points) in meters
func PathLength(points []Point) float64 {
	if len(points) < 2 {
		return 0
	}

	var totalDist float64
	for i := 1; i < len(points); i++ {
		totalDist += HaversineDistance(points[i-1], points[i])
	}

	return totalDist
}

// StraightnessRatio calculates actual path length / straight-line distance.
// A value of 1 means a straight line, >1 a detour. Returns 0 when the endpoints
// coincide (including paths with fewer than two points).
func StraightnessRatio(points []Point) float64 {
	if len(points) < 2 {
		return 0
	}

	straightDist := HaversineDistance(points[0], points[len(points)-1])
	if straightDist <= 0 {
		return 0
	}

	return PathLength(points) / straightDist
}

// MeanRouteDeviation returns the mean distance of every point from the straight
// segment joining the first and last point. Paths with fewer than three points
// have no interior and return 0.
func MeanRouteDeviation(points []Point) float64 {
	if len(points) < 3 {
		return 0
	}

	start, end := points[0], points[len(points)-1]

	var sum float64
	for _, p := range points {
		sum += SegmentDistance(p, start, end)
	}

	return sum / float64(len(points))
}
