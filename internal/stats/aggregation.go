package stats

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Min returns the smallest value in the slice, or 0 for an empty slice
func Min(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

// Max returns the largest value in the slice, or 0 for an empty slice
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

// JainIndex calculates Jain's fairness index over a set of samples:
// (Σx)² / (n·Σx²), in (0,1], where 1.0 means a perfectly uniform load.
// An empty or all-zero sample set is defined as perfectly fair.
func JainIndex(values []float64) float64 {
	if len(values) == 0 {
		return 1.0
	}

	var sum, squaredSum float64
	for _, v := range values {
		sum += v
		squaredSum += v * v
	}

	if squaredSum == 0 {
		return 1.0
	}

	return (sum * sum) / (float64(len(values)) * squaredSum)
}
