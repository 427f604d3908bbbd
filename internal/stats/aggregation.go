package stats

import "math"

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	return Sum(values) / float64(len(values))
}

// PopulationVariance calculates the population variance (divides by n)
func PopulationVariance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	mean := Mean(values)
	var sumSquaredDiff float64
	for _, v := range values {
		diff := v - mean
		sumSquaredDiff += diff * diff
	}

	return sumSquaredDiff / float64(len(values))
}

// Max returns the maximum value, 0 for an empty slice
func Max(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// Sum returns the sum of all values
func Sum(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum
}

// MeanAbsZScore returns the mean of |v_i - mean_i| / std_i over paired slices.
// Entries with a non-positive std only contribute when they differ from the mean,
// in which case they count as one standard deviation.
func MeanAbsZScore(values, means, stds []float64) float64 {
	n := len(values)
	if n == 0 || len(means) != n || len(stds) != n {
		return 0
	}

	var sum float64
	for i, v := range values {
		diff := math.Abs(v - means[i])
		if stds[i] <= 0 {
			if diff > 0 {
				sum++
			}
			continue
		}
		sum += diff / stds[i]
	}
	return sum / float64(n)
}
