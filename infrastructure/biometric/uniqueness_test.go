package biometric

import (
	"context"
	"testing"

	"presenza.io/infrastructure/biometric/types"
)

func storedSample(descriptor []float64) types.StoredSample {
	normalized, _ := Normalize(descriptor)
	return types.StoredSample{Descriptor: normalized, Angle: types.AngleFront, QualityScore: 0.9}
}

func TestCheckUniqueness(t *testing.T) {
	ctx := context.Background()

	t.Run("distinct face passes", func(t *testing.T) {
		store := newMemoryStore()
		store.records["student-1"] = []types.StoredSample{storedSample(basisDescriptor(0))}
		checker := NewUniquenessChecker(store, DefaultUniquenessConfig())

		candidate, _ := Normalize(basisDescriptor(1))
		result, err := checker.CheckUniqueness(ctx, candidate, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsDuplicate {
			t.Errorf("orthogonal candidate flagged as duplicate of %s", result.ConflictingIdentityID)
		}
	})

	t.Run("colliding face reports the conflict", func(t *testing.T) {
		store := newMemoryStore()
		store.records["student-1"] = []types.StoredSample{storedSample(basisDescriptor(0))}
		checker := NewUniquenessChecker(store, DefaultUniquenessConfig())

		candidate, _ := Normalize(perturbedDescriptor(0))
		result, err := checker.CheckUniqueness(ctx, candidate, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsDuplicate {
			t.Fatal("near-identical candidate not flagged")
		}
		if result.ConflictingIdentityID != "student-1" {
			t.Errorf("conflicting identity = %s, want student-1", result.ConflictingIdentityID)
		}
		if result.Distance >= DefaultUniquenessConfig().Threshold {
			t.Errorf("reported distance %f not under threshold", result.Distance)
		}
	})

	t.Run("reports the closest conflict across identities", func(t *testing.T) {
		store := newMemoryStore()
		store.records["far"] = []types.StoredSample{storedSample(perturbedDescriptor(0))}
		near, _ := Normalize(basisDescriptor(0))
		store.records["near"] = []types.StoredSample{{Descriptor: near, Angle: types.AngleFront, QualityScore: 0.9}}
		checker := NewUniquenessChecker(store, DefaultUniquenessConfig())

		candidate, _ := Normalize(basisDescriptor(0))
		result, err := checker.CheckUniqueness(ctx, candidate, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.ConflictingIdentityID != "near" {
			t.Errorf("conflicting identity = %s, want the closest (near)", result.ConflictingIdentityID)
		}
	})

	t.Run("own samples are excluded", func(t *testing.T) {
		store := newMemoryStore()
		store.records["student-1"] = []types.StoredSample{storedSample(basisDescriptor(0))}
		checker := NewUniquenessChecker(store, DefaultUniquenessConfig())

		candidate, _ := Normalize(basisDescriptor(0))
		result, err := checker.CheckUniqueness(ctx, candidate, "student-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsDuplicate {
			t.Error("identity flagged as colliding with itself")
		}
	})

	t.Run("threshold is stricter than verification", func(t *testing.T) {
		if DefaultUniquenessConfig().Threshold <= DefaultMatcherConfig().MaxThreshold {
			t.Errorf("uniqueness threshold %f should sit above the verification band (max %f)",
				DefaultUniquenessConfig().Threshold, DefaultMatcherConfig().MaxThreshold)
		}
	})
}
