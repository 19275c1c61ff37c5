package biometric

import (
	"errors"
	"math"
	"testing"
)

func basisDescriptor(index int) []float64 {
	descriptor := make([]float64, DescriptorLength)
	descriptor[index] = 1
	return descriptor
}

func TestNormalize(t *testing.T) {
	t.Run("scales to unit magnitude", func(t *testing.T) {
		descriptor := make([]float64, DescriptorLength)
		for i := range descriptor {
			descriptor[i] = float64(i%7) - 3
		}
		normalized, err := Normalize(descriptor)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var sumSquares float64
		for _, v := range normalized {
			sumSquares += v * v
		}
		if math.Abs(math.Sqrt(sumSquares)-1) > 1e-9 {
			t.Errorf("magnitude = %f, want 1", math.Sqrt(sumSquares))
		}
	})

	t.Run("normalizing twice changes nothing", func(t *testing.T) {
		descriptor := make([]float64, DescriptorLength)
		for i := range descriptor {
			descriptor[i] = float64(i) * 0.25
		}
		once, err := Normalize(descriptor)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		twice, err := Normalize(once)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for i := range once {
			if math.Abs(once[i]-twice[i]) > 1e-12 {
				t.Fatalf("component %d drifted: %f vs %f", i, once[i], twice[i])
			}
		}
	})

	t.Run("rejects wrong length", func(t *testing.T) {
		_, err := Normalize(make([]float64, DescriptorLength-1))
		if !errors.Is(err, ErrInvalidDescriptor) {
			t.Errorf("error = %v, want ErrInvalidDescriptor", err)
		}
	})

	t.Run("rejects non-finite components", func(t *testing.T) {
		for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
			descriptor := basisDescriptor(0)
			descriptor[64] = bad
			if _, err := Normalize(descriptor); !errors.Is(err, ErrInvalidDescriptor) {
				t.Errorf("component %f: error = %v, want ErrInvalidDescriptor", bad, err)
			}
		}
	})

	t.Run("rejects zero magnitude", func(t *testing.T) {
		_, err := Normalize(make([]float64, DescriptorLength))
		if !errors.Is(err, ErrDegenerateDescriptor) {
			t.Errorf("error = %v, want ErrDegenerateDescriptor", err)
		}
	})
}

func TestEuclideanDistance(t *testing.T) {
	a := basisDescriptor(0)
	b := basisDescriptor(1)

	if d := EuclideanDistance(a, a); d != 0 {
		t.Errorf("distance to self = %f, want 0", d)
	}
	if d := EuclideanDistance(a, b); math.Abs(d-math.Sqrt2) > 1e-9 {
		t.Errorf("distance between orthogonal unit vectors = %f, want sqrt(2)", d)
	}
}

func TestDistanceToSimilarity(t *testing.T) {
	cases := []struct {
		distance float64
		want     float64
	}{
		{0, 1},
		{1, 0.5},
		{2, 0},
		{2.5, 0}, // clamped, never negative
	}
	for _, c := range cases {
		if got := DistanceToSimilarity(c.distance); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("DistanceToSimilarity(%f) = %f, want %f", c.distance, got, c.want)
		}
	}
}
