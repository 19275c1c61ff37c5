package biometric

import (
	"math"
)

// Normalize validates a raw descriptor and scales it to a unit vector.
// Descriptors from different capture pipelines may be scaled differently;
// comparing unit vectors makes Euclidean distance a stable, bounded proxy
// for cosine similarity. Every descriptor is normalized before storage and
// before every comparison - a normalized and an unnormalized vector must
// never meet.
func Normalize(descriptor []float64) ([]float64, error) {
	if len(descriptor) != DescriptorLength {
		return nil, ErrInvalidDescriptor
	}
	var sumSquares float64
	for _, v := range descriptor {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, ErrInvalidDescriptor
		}
		sumSquares += v * v
	}
	magnitude := math.Sqrt(sumSquares)
	if magnitude == 0 {
		return nil, ErrDegenerateDescriptor
	}
	normalized := make([]float64, len(descriptor))
	for i, v := range descriptor {
		normalized[i] = v / magnitude
	}
	return normalized, nil
}

// EuclideanDistance between two descriptors of equal length. Inputs are
// expected to already be normalized.
func EuclideanDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return math.Sqrt(sum)
}

// DistanceToSimilarity maps a distance between unit vectors onto [0,1].
// Unit vectors are at most 2 apart, so similarity = max(0, 1 - distance/2).
func DistanceToSimilarity(distance float64) float64 {
	similarity := 1 - distance/2
	if similarity < 0 {
		return 0
	}
	return similarity
}
